package main

import (
	"errors"
	"io"

	"github.com/narwhalmesh/narwhalwire/codec"
)

// readFrame blocks on r until decode succeeds against the bytes
// accumulated in *buf, growing *buf with fresh reads whenever decode
// reports codec.ErrIncomplete. Bytes decode has already consumed are
// dropped from the front of *buf so it never grows unbounded across many
// frames.
func readFrame[T any](r io.Reader, buf *[]byte, decode func([]byte) (T, int, error)) (T, error) {
	scratch := make([]byte, 64*1024)
	for {
		v, consumed, err := decode(*buf)
		if err == nil {
			*buf = (*buf)[consumed:]
			return v, nil
		}
		if !errors.Is(err, codec.ErrIncomplete) {
			var zero T
			return zero, err
		}

		n, rerr := r.Read(scratch)
		if n > 0 {
			*buf = append(*buf, scratch[:n]...)
		}
		if rerr != nil {
			var zero T
			return zero, rerr
		}
	}
}
