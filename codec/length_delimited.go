package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// lengthPrefixSize is the width of the little-endian u32 length prefix that
// precedes every frame on the wire (spec §6: both the event frame and the
// outer Noise frame share this prefix shape).
const lengthPrefixSize = 4

// NoMaxFrameLength marks a lengthDelimitedCodec with no per-frame cap beyond
// what a u32 length can express — used for the outer Noise frame, which the
// spec defines as "default config, no custom max" (§4.3.1).
const NoMaxFrameLength = math.MaxUint32

// lengthDelimitedCodec implements the length-delimited framing shared by the
// event codec (C2) and the outer Noise frame (C3): a 4-byte little-endian
// length prefix followed by that many payload bytes, with a configurable
// maximum payload size.
type lengthDelimitedCodec struct {
	maxFrameLength uint32
}

func newLengthDelimitedCodec(maxFrameLength uint32) *lengthDelimitedCodec {
	return &lengthDelimitedCodec{maxFrameLength: maxFrameLength}
}

// decode takes one length-delimited payload from the front of buf. It is
// partial-input safe: if buf does not yet contain a whole frame it returns
// ErrIncomplete and leaves buf's caller free to append more bytes and retry
// without losing anything already buffered.
//
// On success it returns the payload (a view into buf, not copied) and the
// number of bytes from the front of buf the frame occupied, so the caller
// can advance its own read cursor.
func (c *lengthDelimitedCodec) decode(buf []byte) (payload []byte, consumed int, err error) {
	if len(buf) < lengthPrefixSize {
		return nil, 0, ErrIncomplete
	}

	length := binary.LittleEndian.Uint32(buf[:lengthPrefixSize])
	if length > c.maxFrameLength {
		// The length is declared up front; reject before allocating or
		// waiting for a payload that large to arrive.
		return nil, 0, newError(KindFrameTooLarge, fmt.Errorf("declared frame length %d exceeds max %d", length, c.maxFrameLength))
	}

	total := lengthPrefixSize + int(length)
	if len(buf) < total {
		return nil, 0, ErrIncomplete
	}

	return buf[lengthPrefixSize:total], total, nil
}

// encode appends one length-delimited frame wrapping payload to dst.
func (c *lengthDelimitedCodec) encode(dst, payload []byte) ([]byte, error) {
	if uint32(len(payload)) > c.maxFrameLength {
		return dst, newError(KindFrameTooLarge, fmt.Errorf("payload length %d exceeds max %d", len(payload), c.maxFrameLength))
	}

	var lenBuf [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, payload...)
	return dst, nil
}
