package codec

import (
	"errors"
	"fmt"

	"github.com/valyala/bytebufferpool"

	"github.com/narwhalmesh/narwhalwire/event"
)

const (
	// MaxEventSize is the default maximum event frame payload: 128 MiB.
	MaxEventSize = 128 * 1024 * 1024

	// MaxHandshakeSize bounds frames exchanged during a higher layer's
	// handshake phase: 1 MiB.
	MaxHandshakeSize = 1024 * 1024
)

var scratchPool bytebufferpool.Pool

// EventCodec implements component C2: length-delimited framing of a single
// event, `[u32 LE length][u16 LE id][body...]`, enforcing a per-frame
// maximum size.
type EventCodec struct {
	framer *lengthDelimitedCodec
}

// New returns an EventCodec bounded by MaxEventSize, the default used for
// application traffic.
func New() *EventCodec {
	return &EventCodec{framer: newLengthDelimitedCodec(MaxEventSize)}
}

// Handshake returns an EventCodec bounded by the smaller MaxHandshakeSize,
// for frames a higher layer exchanges during its own handshake phase.
func Handshake() *EventCodec {
	return &EventCodec{framer: newLengthDelimitedCodec(MaxHandshakeSize)}
}

// Encode serializes ev into a scratch buffer and appends it to dst as one
// `[len][payload]` frame. It fails with FrameTooLarge before writing
// anything if the serialized payload exceeds the codec's configured max.
func (c *EventCodec) Encode(dst []byte, ev event.Event) ([]byte, error) {
	scratch := scratchPool.Get()
	defer scratchPool.Put(scratch)
	scratch.Reset()

	if err := event.Marshal(scratch, ev); err != nil {
		return dst, fmt.Errorf("codec: serializing %s: %w", ev.Name(), err)
	}

	return c.framer.encode(dst, scratch.B)
}

// Decode takes one length-delimited payload from the front of buf and
// deserializes it as an Event. It returns ErrIncomplete, unmodified, when
// buf does not yet hold a whole frame. Any deserialization failure is
// reported as InvalidData (aside from the more specific MissingID/UnknownID
// cases) — the outer stream must be torn down, a partial event is never
// delivered.
func (c *EventCodec) Decode(buf []byte) (ev event.Event, consumed int, err error) {
	payload, consumed, err := c.framer.decode(buf)
	if err != nil {
		return nil, 0, err
	}

	ev, err = event.Unmarshal(payload)
	if err == nil {
		return ev, consumed, nil
	}

	var unknown *event.ErrUnknownID
	switch {
	case errors.Is(err, event.ErrMissingID):
		return nil, 0, newError(KindMissingID, err)
	case errors.As(err, &unknown):
		return nil, 0, newError(KindUnknownID, err)
	default:
		return nil, 0, newError(KindInvalidData, err)
	}
}
