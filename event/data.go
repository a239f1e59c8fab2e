package event

// Codec marshals and unmarshals a domain type T to and from its wire bytes.
// Event bodies that wrap a Data[T] supply one of these so the carrier can
// decode on demand without the event model needing to know T's own format.
// Equal lets Data compare two decoded values without requiring T itself to
// satisfy Go's comparable constraint (batches and certificates carry slices).
type Codec[T any] interface {
	Marshal(T) ([]byte, error)
	Unmarshal([]byte) (T, error)
	Equal(a, b T) bool
}

// Data is a two-state carrier for a payload that may be either a decoded
// Object or an opaque, undecoded Buffer. It lets the codec layers (C2/C3)
// hand payloads up the stack without forcing an eager parse, and lets an
// upper layer that only forwards the bytes (a relay, a mempool gossip path)
// skip decoding entirely.
//
// A zero Data[T] is not valid; construct with FromObject or FromBuffer.
type Data[T any] struct {
	codec  Codec[T]
	object *T
	buffer []byte
}

// FromObject builds a Data carrying an already-decoded value.
func FromObject[T any](codec Codec[T], v T) Data[T] {
	return Data[T]{codec: codec, object: &v}
}

// FromBuffer builds a Data carrying an opaque, undecoded byte run. This is
// what the event layer produces when it deserializes a frame: structural
// validation is deferred to whoever actually needs the decoded value.
func FromBuffer[T any](codec Codec[T], buf []byte) Data[T] {
	return Data[T]{codec: codec, buffer: buf}
}

// IsBuffer reports whether the payload is still in its opaque, undecoded
// form.
func (d *Data[T]) IsBuffer() bool {
	return d.object == nil
}

// Decode returns the decoded value, parsing and memoizing on first call if
// the carrier currently holds a raw Buffer.
func (d *Data[T]) Decode() (T, error) {
	if d.object != nil {
		return *d.object, nil
	}
	v, err := d.codec.Unmarshal(d.buffer)
	if err != nil {
		var zero T
		return zero, err
	}
	d.object = &v
	return v, nil
}

// Bytes returns the wire representation of the payload, marshaling a
// decoded Object on demand. A Buffer is returned verbatim.
func (d *Data[T]) Bytes() ([]byte, error) {
	if d.object == nil {
		return d.buffer, nil
	}
	return d.codec.Marshal(*d.object)
}

// Equal compares two Data carriers by their decoded values, decoding either
// side on demand if necessary.
func (d *Data[T]) Equal(other *Data[T]) (bool, error) {
	a, err := d.Decode()
	if err != nil {
		return false, err
	}
	b, err := other.Decode()
	if err != nil {
		return false, err
	}
	return d.codec.Equal(a, b), nil
}
