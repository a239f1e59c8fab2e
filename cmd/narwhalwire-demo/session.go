package main

import (
	"crypto/rand"
	"fmt"
	"io"

	flynn "github.com/flynn/noise"
	"github.com/rs/zerolog"

	"github.com/narwhalmesh/narwhalwire/event"
	"github.com/narwhalmesh/narwhalwire/noise"
)

// runSession drives one end of a narwhalwire connection over stream: the
// Noise-XX handshake, the transition, then a small, illustrative exchange
// of events. It exists to give every wired component (event, codec, noise)
// a runnable path, not as a production peer loop.
func runSession(log zerolog.Logger, stream io.ReadWriteCloser, initiator bool) error {
	defer stream.Close()

	keypair, err := noise.CipherSuite.GenerateKeypair(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate static keypair: %w", err)
	}

	nc, err := noise.NewHandshakeCodec(flynn.Config{
		CipherSuite:   noise.CipherSuite,
		Pattern:       flynn.HandshakeXX,
		Initiator:     initiator,
		StaticKeypair: keypair,
	})
	if err != nil {
		return fmt.Errorf("new handshake codec: %w", err)
	}

	var buf []byte
	step := func(send bool) error {
		if send {
			frame, err := nc.EncodeBytes(nil, nil)
			if err != nil {
				return fmt.Errorf("encode handshake message: %w", err)
			}
			if _, err := stream.Write(frame); err != nil {
				return fmt.Errorf("write handshake message: %w", err)
			}
			return nil
		}
		_, err := readFrame(stream, &buf, nc.DecodeBytes)
		if err != nil {
			return fmt.Errorf("read handshake message: %w", err)
		}
		return nil
	}

	if initiator {
		if err := step(true); err != nil {
			return err
		}
		if err := step(false); err != nil {
			return err
		}
		if err := step(true); err != nil {
			return err
		}
	} else {
		if err := step(false); err != nil {
			return err
		}
		if err := step(true); err != nil {
			return err
		}
		if err := step(false); err != nil {
			return err
		}
	}

	if err := nc.IntoPostHandshakeState(); err != nil {
		return fmt.Errorf("transition to post-handshake: %w", err)
	}
	log.Info().Bool("initiator", initiator).Msg("noise handshake complete")

	if initiator {
		return runInitiatorTraffic(log, stream, nc)
	}
	return runResponderTraffic(log, stream, nc, &buf)
}

func runInitiatorTraffic(log zerolog.Logger, stream io.Writer, nc *noise.NoiseCodec) error {
	batch := event.Batch{
		Round:        1,
		Transactions: [][]byte{[]byte("hello"), []byte("world")},
	}
	events := []event.Event{
		event.NewWorkerBatch(0, batch),
		event.Disconnect{Reason: event.ReasonShuttingDown},
	}

	for _, ev := range events {
		frame, err := nc.EncodeEvent(nil, ev)
		if err != nil {
			return fmt.Errorf("encode %s: %w", ev.Name(), err)
		}
		if _, err := stream.Write(frame); err != nil {
			return fmt.Errorf("write %s: %w", ev.Name(), err)
		}
		log.Info().Str("event", ev.Name()).Msg("sent")
	}
	return nil
}

func runResponderTraffic(log zerolog.Logger, stream io.Reader, nc *noise.NoiseCodec, buf *[]byte) error {
	for {
		ev, err := readFrame(stream, buf, nc.DecodeEvent)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		log.Info().Str("event", ev.Name()).Msg("received")

		if d, ok := ev.(event.Disconnect); ok {
			log.Info().Uint8("reason", uint8(d.Reason)).Msg("peer disconnecting")
			return nil
		}
	}
}
