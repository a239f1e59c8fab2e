package codec

// RawFramer exposes the length-delimited framing primitive shared between
// the event codec and the outer Noise frame, for callers (the noise
// package) that need to frame payloads this package does not itself know
// how to interpret.
type RawFramer struct {
	inner *lengthDelimitedCodec
}

// NewRawFramer returns a RawFramer bounding each frame's payload to
// maxFrameLength bytes. Pass NoMaxFrameLength for a framer with no cap
// beyond what a u32 length can express.
func NewRawFramer(maxFrameLength uint32) *RawFramer {
	return &RawFramer{inner: newLengthDelimitedCodec(maxFrameLength)}
}

// Decode takes one length-delimited payload from the front of buf. See
// lengthDelimitedCodec.decode for the partial-input contract.
func (f *RawFramer) Decode(buf []byte) (payload []byte, consumed int, err error) {
	return f.inner.decode(buf)
}

// Encode appends one length-delimited frame wrapping payload to dst.
func (f *RawFramer) Encode(dst, payload []byte) ([]byte, error) {
	return f.inner.encode(dst, payload)
}
