package event

import "bytes"

// Certificate stands in for the consensus layer's quorum certificate over a
// batch. Its internal structure is entirely out of this codec's scope; it
// is modeled as an opaque byte run so that CertificateCodec's Unmarshal
// never has a reason to reject a well-formed-looking buffer, matching the
// original implementation's lazy, unvalidated storage of this field.
type Certificate struct {
	Bytes []byte
}

type certificateCodec struct{}

// CertificateCodec is the Codec[Certificate] used by BatchCertified's Data
// payload. Unmarshal never fails and never inspects structure — decoding a
// Certificate is a no-op identity transform, deferring real validation to
// whatever consensus-layer code actually needs the parsed certificate.
var CertificateCodec Codec[Certificate] = certificateCodec{}

func (certificateCodec) Marshal(c Certificate) ([]byte, error) {
	return c.Bytes, nil
}

func (certificateCodec) Unmarshal(data []byte) (Certificate, error) {
	raw := make([]byte, len(data))
	copy(raw, data)
	return Certificate{Bytes: raw}, nil
}

func (certificateCodec) Equal(a, b Certificate) bool {
	return bytes.Equal(a.Bytes, b.Bytes)
}
