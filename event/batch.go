package event

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// RelayID identifies the worker/primary that authored a Batch. The identity
// scheme itself belongs to the consensus layer; this codec only needs a
// fixed-size, comparable handle to round-trip.
type RelayID [32]byte

// Batch is the minimal shape of a worker's transaction batch needed to
// exercise Data[T]'s on-demand decode. Its internal structure is a
// consensus-layer concern; this type defines only enough of it to be worth
// serializing.
type Batch struct {
	Author       RelayID
	Round        uint64
	Transactions [][]byte
}

type batchCodec struct{}

// BatchCodec is the Codec[Batch] used by WorkerBatch's Data payload.
var BatchCodec Codec[Batch] = batchCodec{}

func (batchCodec) Marshal(b Batch) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(b.Author[:])

	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], b.Round)
	buf.Write(u64[:])

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(b.Transactions)))
	buf.Write(u32[:])

	for _, tx := range b.Transactions {
		binary.LittleEndian.PutUint32(u32[:], uint32(len(tx)))
		buf.Write(u32[:])
		buf.Write(tx)
	}
	return buf.Bytes(), nil
}

func (batchCodec) Unmarshal(data []byte) (Batch, error) {
	var b Batch
	if len(data) < 32+8+4 {
		return b, fmt.Errorf("event: Batch body too short (%d bytes)", len(data))
	}
	copy(b.Author[:], data[:32])
	pos := 32

	b.Round = binary.LittleEndian.Uint64(data[pos : pos+8])
	pos += 8

	count := binary.LittleEndian.Uint32(data[pos : pos+4])
	pos += 4

	b.Transactions = make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(data) {
			return Batch{}, fmt.Errorf("event: Batch truncated reading transaction %d length", i)
		}
		txLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+txLen > len(data) {
			return Batch{}, fmt.Errorf("event: Batch truncated reading transaction %d body", i)
		}
		tx := make([]byte, txLen)
		copy(tx, data[pos:pos+txLen])
		b.Transactions = append(b.Transactions, tx)
		pos += txLen
	}
	if pos != len(data) {
		return Batch{}, fmt.Errorf("event: Batch has %d trailing bytes", len(data)-pos)
	}
	return b, nil
}

func (batchCodec) Equal(a, b Batch) bool {
	if a.Author != b.Author || a.Round != b.Round {
		return false
	}
	if len(a.Transactions) != len(b.Transactions) {
		return false
	}
	for i := range a.Transactions {
		if !bytes.Equal(a.Transactions[i], b.Transactions[i]) {
			return false
		}
	}
	return true
}
