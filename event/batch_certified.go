package event

import "io"

// BatchCertified announces that a batch reached quorum certification. The
// certificate is carried as a lazily-decoded Data payload: a strict
// implementation could validate eagerly, but this codec treats lazy
// buffering as correct since the upper consensus layer always re-parses.
type BatchCertified struct {
	Certificate Data[Certificate]
}

// NewBatchCertified wraps an already-decoded Certificate.
func NewBatchCertified(cert Certificate) BatchCertified {
	return BatchCertified{Certificate: FromObject(CertificateCodec, cert)}
}

func (b BatchCertified) ID() ID       { return IDBatchCertified }
func (b BatchCertified) Name() string { return "BatchCertified" }

func (b BatchCertified) MarshalBody(w io.Writer) error {
	raw, err := b.Certificate.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

func unmarshalBatchCertified(body []byte) (Event, error) {
	raw := make([]byte, len(body))
	copy(raw, body)
	return BatchCertified{Certificate: FromBuffer(CertificateCodec, raw)}, nil
}
