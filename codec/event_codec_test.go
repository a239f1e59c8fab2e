package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/narwhalmesh/narwhalwire/event"
)

// TestEventCodecRoundTrip covers invariant 1: encode then decode returns an
// equivalent event for every registered variant.
func TestEventCodecRoundTrip(t *testing.T) {
	c := New()
	events := []event.Event{
		event.Disconnect{Reason: event.ReasonProtocolViolation},
		event.NewWorkerBatch(3, event.Batch{Round: 9, Transactions: [][]byte{[]byte("a")}}),
		event.NewBatchCertified(event.Certificate{Bytes: []byte("cert")}),
	}

	for _, ev := range events {
		var buf []byte
		buf, err := c.Encode(buf, ev)
		if err != nil {
			t.Fatalf("Encode(%s): %v", ev.Name(), err)
		}

		out, consumed, err := c.Decode(buf)
		if err != nil {
			t.Fatalf("Decode(%s): %v", ev.Name(), err)
		}
		if consumed != len(buf) {
			t.Fatalf("Decode(%s): consumed %d, want %d", ev.Name(), consumed, len(buf))
		}
		if out.ID() != ev.ID() {
			t.Fatalf("Decode(%s): id mismatch %d != %d", ev.Name(), out.ID(), ev.ID())
		}
	}
}

// TestDecodeIncomplete covers the partial-input-safe contract: a buffer
// shorter than the full frame returns ErrIncomplete and nothing else.
func TestDecodeIncomplete(t *testing.T) {
	c := New()
	var buf []byte
	buf, err := c.Encode(buf, event.Disconnect{Reason: event.ReasonUnspecified})
	if err != nil {
		t.Fatal(err)
	}

	for n := 0; n < len(buf); n++ {
		_, _, err := c.Decode(buf[:n])
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("Decode(%d bytes of %d): want ErrIncomplete, got %v", n, len(buf), err)
		}
	}
}

// TestFrameBoundarySafety covers invariant 3 (S4-style): decoding a stream
// sliced at random byte offsets yields the same sequence of events as
// decoding the whole concatenated buffer at once.
func TestFrameBoundarySafety(t *testing.T) {
	c := New()
	var whole []byte
	want := []event.Event{
		event.Disconnect{Reason: event.ReasonTooManyPeers},
		event.NewWorkerBatch(1, event.Batch{Round: 1}),
		event.NewBatchCertified(event.Certificate{Bytes: []byte("x")}),
		event.Disconnect{Reason: event.ReasonInvalidFork},
	}
	for _, ev := range want {
		var err error
		whole, err = c.Encode(whole, ev)
		if err != nil {
			t.Fatal(err)
		}
	}

	rng := rand.New(rand.NewSource(42))
	var pending []byte
	var got []event.Event
	pos := 0
	for pos < len(whole) {
		chunkLen := 1 + rng.Intn(7)
		end := min(pos+chunkLen, len(whole))
		pending = append(pending, whole[pos:end]...)
		pos = end

		for {
			ev, consumed, err := c.Decode(pending)
			if errors.Is(err, ErrIncomplete) {
				break
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			got = append(got, ev)
			pending = pending[consumed:]
		}
	}
	if len(pending) != 0 {
		t.Fatalf("%d leftover bytes after full stream consumed", len(pending))
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID() != want[i].ID() {
			t.Fatalf("event %d: id %d != %d", i, got[i].ID(), want[i].ID())
		}
	}
}

// TestFrameTooLarge covers invariant 4: a frame declaring a length beyond
// MaxEventSize fails FrameTooLarge without the decoder ever trying to
// allocate or wait for that much payload.
func TestFrameTooLarge(t *testing.T) {
	c := New()
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], MaxEventSize+1)

	_, _, err := c.Decode(header[:])
	var codecErr *Error
	if !errors.As(err, &codecErr) || codecErr.Kind != KindFrameTooLarge {
		t.Fatalf("want FrameTooLarge, got %v", err)
	}
}

// TestUnknownIDPropagates exercises invariant 2 through the codec, not just
// the event package: decoding a frame with an unregistered id must fail
// UnknownID, not be silently dropped.
func TestUnknownIDPropagates(t *testing.T) {
	c := New()
	body := []byte{0xFF, 0xFF, 0x00}
	var frame []byte
	frame, err := c.framer.encode(frame, body)
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = c.Decode(frame)
	var codecErr *Error
	if !errors.As(err, &codecErr) || codecErr.Kind != KindUnknownID {
		t.Fatalf("want UnknownID, got %v", err)
	}
}

// TestS1EncodeDisconnect pins down the exact wire layout for the simplest
// possible event: Disconnect carries a single reason byte, so its frame is
// [4B len=3][2B id=0][1B reason].
func TestS1EncodeDisconnect(t *testing.T) {
	c := New()
	var buf []byte
	buf, err := c.Encode(buf, event.Disconnect{Reason: event.ReasonUnspecified})
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got % x, want % x", buf, want)
	}
}
