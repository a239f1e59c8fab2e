// Command narwhalwire-demo exercises the secure framing codec over a real
// libp2p stream: one side listens, the other dials and sends a couple of
// events through a freshly negotiated Noise-XX session.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/narwhalmesh/narwhalwire/internal/obslog"
)

const narwhalwireProtocol protocol.ID = "/narwhalwire/demo/1.0"

var rootCmd = &cobra.Command{
	Use:   "narwhalwire-demo",
	Short: "Drives the secure framing codec over a libp2p stream",
}

var (
	flagListenPort int
	flagJSONLogs   bool
	flagVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json", false, "emit structured JSON logs instead of the console writer")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug-level logging")

	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "Accept one connection and respond to the exchange it drives",
		RunE:  runListen,
	}
	listenCmd.Flags().IntVar(&flagListenPort, "port", 4101, "TCP port to listen on")

	dialCmd := &cobra.Command{
		Use:   "dial <multiaddr>",
		Short: "Connect to a listening peer and send a sample event sequence",
		Args:  cobra.ExactArgs(1),
		RunE:  runDial,
	}

	rootCmd.AddCommand(listenCmd, dialCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("narwhalwire-demo")
	}
}

func level() zerolog.Level {
	if flagVerbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func runListen(cmd *cobra.Command, args []string) error {
	obslog.Init(!flagJSONLogs, level())
	logger := obslog.SessionLogger("listener")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h, err := libp2p.New(
		libp2p.ListenAddrStrings(fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", flagListenPort)),
		libp2p.DefaultSecurity,
		libp2p.DefaultMuxers,
	)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	defer h.Close()

	logger.Info().Str("peer_id", h.ID().String()).Msg("listening")
	for _, a := range h.Addrs() {
		logger.Info().Str("addr", fmt.Sprintf("%s/p2p/%s", a, h.ID())).Msg("dial this address")
	}

	done := make(chan struct{}, 1)
	h.SetStreamHandler(narwhalwireProtocol, func(s network.Stream) {
		defer func() { done <- struct{}{} }()
		sessionLog := logger.With().Str("peer", s.Conn().RemotePeer().String()).Logger()
		if err := runSession(sessionLog, s, false); err != nil {
			sessionLog.Error().Err(err).Msg("session failed")
		}
	})

	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}

func runDial(cmd *cobra.Command, args []string) error {
	obslog.Init(!flagJSONLogs, level())
	logger := obslog.SessionLogger("dialer")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	addr, err := ma.NewMultiaddr(args[0])
	if err != nil {
		return fmt.Errorf("parse multiaddr: %w", err)
	}
	info, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return fmt.Errorf("extract peer info: %w", err)
	}

	h, err := libp2p.New(
		libp2p.DefaultSecurity,
		libp2p.DefaultMuxers,
	)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	defer h.Close()

	if err := h.Connect(ctx, *info); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	s, err := h.NewStream(ctx, info.ID, narwhalwireProtocol)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}

	return runSession(logger, s, true)
}
