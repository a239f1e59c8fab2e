package noise

import (
	"errors"
	"fmt"

	"github.com/flynn/noise"

	"github.com/narwhalmesh/narwhalwire/codec"
	"github.com/narwhalmesh/narwhalwire/event"
)

const (
	// MaxMessageLen is the largest AEAD-sealed chunk this codec emits or
	// accepts: ciphertext plus tag.
	MaxMessageLen = 65535

	// TagLen is the ChaChaPoly authentication tag size.
	TagLen = 16

	// MaxPlaintextChunk is the largest plaintext slice that fits in one
	// MaxMessageLen chunk once the tag is added.
	MaxPlaintextChunk = MaxMessageLen - TagLen
)

// NoiseCodec implements component C3: a duplex codec whose behavior is
// governed by its current NoiseState. It owns the outer length-delimited
// framer (no custom max — see the wire format) and an EventCodec, created
// with the codec, for serializing post-handshake plaintext.
type NoiseCodec struct {
	state     NoiseState
	initiator bool
	outer     *codec.RawFramer
	events    *codec.EventCodec

	pendingTx *noise.CipherState
	pendingRx *noise.CipherState
}

// NewHandshakeCodec starts a NoiseCodec in the Handshake phase. cfg carries
// the caller's key material, initiator role, and prologue — provisioning
// and authentication policy are out of this codec's scope.
func NewHandshakeCodec(cfg noise.Config) (*NoiseCodec, error) {
	hs, err := newHandshakeState(cfg)
	if err != nil {
		return nil, err
	}
	return &NoiseCodec{
		state:     hs,
		initiator: cfg.Initiator,
		outer:     codec.NewRawFramer(codec.NoMaxFrameLength),
		events:    codec.New(),
	}, nil
}

// EncodeBytes produces the next Noise-XX handshake message carrying
// payload as its (normally zero-length) piggybacked data, and frames it as
// one outer frame appended to dst. Valid only while in the Handshake
// phase.
func (c *NoiseCodec) EncodeBytes(dst, payload []byte) ([]byte, error) {
	hs, ok := c.state.(*handshakeState)
	if !ok {
		return dst, newError(KindContractViolation, errors.New("noise: EncodeBytes called outside the handshake phase"))
	}

	out, cs1, cs2, err := hs.hs.WriteMessage(nil, payload)
	if err != nil {
		return dst, newError(KindInvalidData, fmt.Errorf("noise: write handshake message: %w", err))
	}
	c.rememberTransportKeys(cs1, cs2)

	return c.outer.Encode(dst, out)
}

// DecodeBytes takes one outer frame from buf and recovers the handshake
// plaintext it carries. Valid only while in the Handshake phase.
func (c *NoiseCodec) DecodeBytes(buf []byte) (plaintext []byte, consumed int, err error) {
	hs, ok := c.state.(*handshakeState)
	if !ok {
		return nil, 0, newError(KindContractViolation, errors.New("noise: DecodeBytes called outside the handshake phase"))
	}

	payload, consumed, err := c.outer.Decode(buf)
	if err != nil {
		return nil, 0, err
	}

	plaintext, cs1, cs2, err := hs.hs.ReadMessage(nil, payload)
	if err != nil {
		return nil, 0, newError(KindInvalidData, fmt.Errorf("noise: read handshake message: %w", err))
	}
	c.rememberTransportKeys(cs1, cs2)

	return plaintext, consumed, nil
}

// rememberTransportKeys stashes the CipherState pair flynn/noise hands back
// from the XX pattern's final message, oriented into tx/rx by initiator
// role. It does not itself perform the transition: IntoPostHandshakeState
// must still be called explicitly.
func (c *NoiseCodec) rememberTransportKeys(cs1, cs2 *noise.CipherState) {
	if cs1 == nil {
		return
	}
	if c.initiator {
		c.pendingTx, c.pendingRx = cs1, cs2
	} else {
		c.pendingTx, c.pendingRx = cs2, cs1
	}
}

// IntoPostHandshakeState performs the one-way Handshake → PostHandshake
// transition. It is a contract violation to call this before the XX
// pattern's three messages have all been exchanged (i.e. before some
// EncodeBytes/DecodeBytes call has produced transport keys), and a second
// call after a successful transition is also a contract violation: the
// handshake object is consumed and cannot be aliased.
func (c *NoiseCodec) IntoPostHandshakeState() error {
	if _, ok := c.state.(*handshakeState); !ok {
		return newError(KindContractViolation, errors.New("noise: IntoPostHandshakeState called outside the handshake phase"))
	}
	if c.pendingTx == nil || c.pendingRx == nil {
		return newError(KindContractViolation, errors.New("noise: IntoPostHandshakeState called before the handshake completed"))
	}

	c.state = newPostHandshakeState(c.pendingTx, c.pendingRx)
	c.pendingTx, c.pendingRx = nil, nil
	return nil
}

// IsPostHandshake reports whether the codec has completed its transition.
func (c *NoiseCodec) IsPostHandshake() bool {
	_, ok := c.state.(*postHandshakeState)
	return ok
}

// EncodeEvent serializes ev via C2, splits it into MaxPlaintextChunk-sized
// chunks, seals each with the transport key under a sequential nonce, and
// appends the result as one outer frame to dst. Valid only in the
// PostHandshake phase.
func (c *NoiseCodec) EncodeEvent(dst []byte, ev event.Event) ([]byte, error) {
	ph, ok := c.state.(*postHandshakeState)
	if !ok {
		return dst, newError(KindContractViolation, errors.New("noise: EncodeEvent called outside the post-handshake phase"))
	}

	var plaintext []byte
	plaintext, err := c.events.Encode(plaintext, ev)
	if err != nil {
		return dst, newError(KindInvalidData, fmt.Errorf("noise: serializing event for encryption: %w", err))
	}

	sealed, err := sealChunks(ph, plaintext)
	if err != nil {
		return dst, err
	}

	return c.outer.Encode(dst, sealed)
}

// DecodeEvent takes one outer frame from buf, opens its AEAD chunks in
// order, and feeds the recovered plaintext through C2 to produce exactly
// one Event. Valid only in the PostHandshake phase.
func (c *NoiseCodec) DecodeEvent(buf []byte) (ev event.Event, consumed int, err error) {
	ph, ok := c.state.(*postHandshakeState)
	if !ok {
		return nil, 0, newError(KindContractViolation, errors.New("noise: DecodeEvent called outside the post-handshake phase"))
	}

	payload, consumed, err := c.outer.Decode(buf)
	if err != nil {
		return nil, 0, err
	}

	plaintext, err := openChunks(ph, payload)
	if err != nil {
		return nil, 0, err
	}

	decoded, eventConsumed, err := c.events.Decode(plaintext)
	if err != nil {
		return nil, 0, newError(KindInvalidData, fmt.Errorf("noise: decoding event from decrypted payload: %w", err))
	}
	if eventConsumed != len(plaintext) {
		return nil, 0, newError(KindInvalidData, fmt.Errorf("noise: decrypted payload carried %d trailing bytes after one event", len(plaintext)-eventConsumed))
	}

	return decoded, consumed, nil
}

// Decode is a convenience wrapper dispatching to DecodeBytes or DecodeEvent
// by current phase, returning the result wrapped as an EventOrBytes.
func (c *NoiseCodec) Decode(buf []byte) (EventOrBytes, int, error) {
	if c.IsPostHandshake() {
		ev, consumed, err := c.DecodeEvent(buf)
		if err != nil {
			return EventOrBytes{}, 0, err
		}
		return eventValue(ev), consumed, nil
	}

	raw, consumed, err := c.DecodeBytes(buf)
	if err != nil {
		return EventOrBytes{}, 0, err
	}
	return bytesValue(raw), consumed, nil
}
