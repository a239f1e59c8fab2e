package noise

import (
	"fmt"
	"sync"

	"github.com/flynn/noise"
)

// CipherSuite is the default suite, 25519_ChaChaPoly_BLAKE2s, that this
// package's tests and the demo use with the XX pattern. NewHandshakeCodec
// takes the suite and pattern from the caller's noise.Config and does not
// enforce either; key provisioning and peer authentication policy also
// belong to the caller.
var CipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2s)

// NoiseState is the two-variant phase a NoiseCodec is in. There is no way
// to construct a NoiseState that goes backwards from PostHandshake to
// Handshake: the transition consumes the handshake object.
type NoiseState interface {
	isNoiseState()
}

// handshakeState wraps an in-progress Noise-XX exchange. Every message
// passed through it is opaque Bytes; it knows nothing about Event.
type handshakeState struct {
	hs *noise.HandshakeState
}

func (*handshakeState) isNoiseState() {}

func newHandshakeState(cfg noise.Config) (*handshakeState, error) {
	hs, err := noise.NewHandshakeState(cfg)
	if err != nil {
		return nil, fmt.Errorf("noise: initializing handshake state: %w", err)
	}
	return &handshakeState{hs: hs}, nil
}

// postHandshakeState holds the stateless transport ciphers produced once
// the XX pattern's three messages are exchanged, plus the per-direction
// nonce counters this package is responsible for advancing — flynn/noise's
// low-level Cipher takes an explicit nonce per call and tracks none of its
// own.
type postHandshakeState struct {
	tx *noise.CipherState
	rx *noise.CipherState

	txMu    sync.Mutex
	txNonce uint64

	rxMu    sync.Mutex
	rxNonce uint64
}

func (*postHandshakeState) isNoiseState() {}

func newPostHandshakeState(tx, rx *noise.CipherState) *postHandshakeState {
	return &postHandshakeState{tx: tx, rx: rx}
}
