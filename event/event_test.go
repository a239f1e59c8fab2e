package event

import (
	"bytes"
	"errors"
	"testing"
)

func marshalEvent(t *testing.T, e Event) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Marshal(&buf, e); err != nil {
		t.Fatalf("Marshal(%s): %v", e.Name(), err)
	}
	return buf.Bytes()
}

// TestEventRoundTrip covers invariant 1 (S1): for every registered variant,
// deserialize(serialize(v)) == v.
func TestEventRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   Event
	}{
		{"Disconnect", Disconnect{Reason: ReasonShuttingDown}},
		{"WorkerBatch", NewWorkerBatch(7, Batch{
			Author:       RelayID{1, 2, 3},
			Round:        42,
			Transactions: [][]byte{[]byte("tx1"), []byte("tx2"), {}},
		})},
		{"BatchCertified", NewBatchCertified(Certificate{Bytes: []byte("quorum-cert")})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wire := marshalEvent(t, tc.in)
			out, err := Unmarshal(wire)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if out.ID() != tc.in.ID() || out.Name() != tc.in.Name() {
				t.Fatalf("id/name mismatch: got %d/%s want %d/%s", out.ID(), out.Name(), tc.in.ID(), tc.in.Name())
			}

			switch in := tc.in.(type) {
			case Disconnect:
				got := out.(Disconnect)
				if got.Reason != in.Reason {
					t.Fatalf("Reason mismatch: got %v want %v", got.Reason, in.Reason)
				}
			case WorkerBatch:
				got := out.(WorkerBatch)
				if got.WorkerID != in.WorkerID {
					t.Fatalf("WorkerID mismatch: got %d want %d", got.WorkerID, in.WorkerID)
				}
				if !got.Batch.IsBuffer() {
					t.Fatalf("deserialized WorkerBatch.Batch should still be a Buffer before Decode")
				}
				eq, err := in.Batch.Equal(&got.Batch)
				if err != nil {
					t.Fatalf("Batch.Equal: %v", err)
				}
				if !eq {
					t.Fatalf("Batch payload mismatch")
				}
			case BatchCertified:
				got := out.(BatchCertified)
				if !got.Certificate.IsBuffer() {
					t.Fatalf("deserialized BatchCertified.Certificate should still be a Buffer before Decode")
				}
				eq, err := in.Certificate.Equal(&got.Certificate)
				if err != nil {
					t.Fatalf("Certificate.Equal: %v", err)
				}
				if !eq {
					t.Fatalf("Certificate payload mismatch")
				}
			}
		})
	}
}

// TestUnknownIDRejected covers invariant 2: every id outside the registry
// fails UnknownID, and no bytes are mis-dispatched to the wrong variant.
func TestUnknownIDRejected(t *testing.T) {
	for _, id := range []uint16{3, 4, 9999, 0xFFFF} {
		wire := []byte{byte(id), byte(id >> 8), 0xAA, 0xBB}
		_, err := Unmarshal(wire)
		var unknown *ErrUnknownID
		if !errors.As(err, &unknown) {
			t.Fatalf("id %d: expected ErrUnknownID, got %v", id, err)
		}
		if unknown.ID != id {
			t.Fatalf("id %d: ErrUnknownID.ID = %d", id, unknown.ID)
		}
	}
}

// TestMissingID covers §7's MissingId error: a frame shorter than 2 bytes.
func TestMissingID(t *testing.T) {
	for _, buf := range [][]byte{nil, {}, {0x01}} {
		_, err := Unmarshal(buf)
		if !errors.Is(err, ErrMissingID) {
			t.Fatalf("buf %v: expected ErrMissingID, got %v", buf, err)
		}
	}
}

func TestDisconnectBodyMustBeOneByte(t *testing.T) {
	_, err := unmarshalDisconnect([]byte{1, 2})
	if err == nil {
		t.Fatal("expected error for oversized Disconnect body")
	}
}
