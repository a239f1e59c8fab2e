package noise

import "github.com/narwhalmesh/narwhalwire/event"

// EventOrBytes is what Decode returns: opaque Bytes while the codec is
// still in its Handshake phase, a decoded Event once it has moved into
// PostHandshake. Callers that only operate in one phase can ignore IsEvent
// and call the accessor they know is valid.
type EventOrBytes struct {
	ev      event.Event
	raw     []byte
	isEvent bool
}

func bytesValue(b []byte) EventOrBytes {
	return EventOrBytes{raw: b}
}

func eventValue(e event.Event) EventOrBytes {
	return EventOrBytes{ev: e, isEvent: true}
}

// IsEvent reports whether this value carries a decoded Event rather than
// raw handshake bytes.
func (v EventOrBytes) IsEvent() bool { return v.isEvent }

// Bytes returns the raw payload. Meaningful only when IsEvent is false.
func (v EventOrBytes) Bytes() []byte { return v.raw }

// Event returns the decoded event. Meaningful only when IsEvent is true.
func (v EventOrBytes) Event() event.Event { return v.ev }
