// Package noise implements the two-phase secure channel described as
// component C3: a Handshake phase that passes opaque bytes through a
// Noise-XX handshake, and a PostHandshake phase that AEAD-encrypts and
// decrypts chunked events once that handshake completes.
package noise

import "github.com/narwhalmesh/narwhalwire/codec"

// Kind and Error are the same fatal-error vocabulary codec uses; a session
// driving both packages can type-switch on one Kind regardless of which
// layer raised it.
type (
	Kind  = codec.Kind
	Error = codec.Error
)

const (
	KindFrameTooLarge     = codec.KindFrameTooLarge
	KindInvalidData       = codec.KindInvalidData
	KindContractViolation = codec.KindContractViolation
)

// ErrIncomplete is returned by the Decode methods when the outer frame has
// not fully arrived yet. Same retry contract as codec.ErrIncomplete.
var ErrIncomplete = codec.ErrIncomplete

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
