// Package event defines the closed set of application events exchanged over
// a narwhalwire session and their wire bodies (component C1 of the codec
// specification: id assignment, name, and the serialize/deserialize
// bijection each variant must satisfy).
package event

import (
	"encoding/binary"
	"io"
)

// ProtocolVersion identifies the wire format of the event family. Bumping it
// signals an incompatible change; the codec itself does not enforce it, any
// negotiation is the owning session's responsibility.
const ProtocolVersion uint32 = 0

// ID is a variant's stable dispatch tag. Ids are assigned once and never
// reused; the registry in Unmarshal is append-only by construction.
type ID uint16

const (
	IDDisconnect     ID = 0
	IDWorkerBatch    ID = 1
	IDBatchCertified ID = 2
)

// Event is the umbrella type over the closed variant set. Each concrete
// variant supplies a stable id, a diagnostic name, and a body serializer.
type Event interface {
	ID() ID
	Name() string

	// MarshalBody writes the variant's wire body (everything after the 2
	// byte id) to w.
	MarshalBody(w io.Writer) error
}

// Marshal writes an event's full wire form — the little-endian id followed
// by its body — to w.
func Marshal(w io.Writer, e Event) error {
	var idBuf [2]byte
	binary.LittleEndian.PutUint16(idBuf[:], uint16(e.ID()))
	if _, err := w.Write(idBuf[:]); err != nil {
		return err
	}
	return e.MarshalBody(w)
}

// Unmarshal dispatches a frame's bytes to the registered variant named by
// its leading 2-byte little-endian id and deserializes the remainder as
// that variant's body. It requires buf to hold at least the id; an id
// outside the registry is a hard error so that version skew is observable
// rather than silently dropped.
func Unmarshal(buf []byte) (Event, error) {
	if len(buf) < 2 {
		return nil, ErrMissingID
	}
	id := ID(binary.LittleEndian.Uint16(buf[:2]))
	body := buf[2:]

	switch id {
	case IDDisconnect:
		return unmarshalDisconnect(body)
	case IDWorkerBatch:
		return unmarshalWorkerBatch(body)
	case IDBatchCertified:
		return unmarshalBatchCertified(body)
	default:
		return nil, &ErrUnknownID{ID: uint16(id)}
	}
}
