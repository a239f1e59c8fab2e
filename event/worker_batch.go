package event

import (
	"fmt"
	"io"
)

// WorkerBatch carries one worker's transaction batch. The batch payload is
// wrapped in Data so a relay node can forward it without decoding.
type WorkerBatch struct {
	WorkerID uint8
	Batch    Data[Batch]
}

// NewWorkerBatch wraps an already-decoded Batch.
func NewWorkerBatch(workerID uint8, batch Batch) WorkerBatch {
	return WorkerBatch{WorkerID: workerID, Batch: FromObject(BatchCodec, batch)}
}

func (w WorkerBatch) ID() ID       { return IDWorkerBatch }
func (w WorkerBatch) Name() string { return "WorkerBatch" }

func (w WorkerBatch) MarshalBody(wr io.Writer) error {
	if _, err := wr.Write([]byte{w.WorkerID}); err != nil {
		return err
	}
	b, err := w.Batch.Bytes()
	if err != nil {
		return err
	}
	_, err = wr.Write(b)
	return err
}

func unmarshalWorkerBatch(body []byte) (Event, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("event: WorkerBatch body missing worker id")
	}
	workerID := body[0]
	// The remainder is stored as an undecoded Buffer: structural validation
	// of the batch is deferred to whoever actually needs it.
	raw := make([]byte, len(body)-1)
	copy(raw, body[1:])
	return WorkerBatch{WorkerID: workerID, Batch: FromBuffer(BatchCodec, raw)}, nil
}
