package remote

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/p2p/protocol/ping"
	"github.com/rs/zerolog/log"

	"github.com/kuredoro/snake_serial/config"
	"github.com/kuredoro/snake_serial/protocol/heartbeat"
	"github.com/kuredoro/snake_serial/protocol/link"
)

// MissedPings is how many heartbeats in a row a terminal may miss before
// it is considered lost.
const MissedPings = 3

// Node hosts games for remote terminals. Every accepted terminal stream
// is delivered on Terminals.
type Node struct {
	*peerHost

	ping     *ping.PingService
	beacon   *Beacon
	sessions *Sessions
	cfg      config.NodeConfig

	Terminals chan *Terminal
}

func NewNode(ctx context.Context, cfg config.NodeConfig) (*Node, error) {
	ph, err := newPeerHost(ctx, cfg)
	if err != nil {
		return nil, err
	}

	n := &Node{
		peerHost:  ph,
		ping:      ping.NewPingService(ph.h),
		sessions:  NewSessions(),
		cfg:       cfg,
		Terminals: make(chan *Terminal, 8),
	}

	n.beacon = NewBeacon(ctx, ph.topic, HostAddrInfo(ph.h), cfg.AnnounceEvery, n.sessions.Len)
	ph.h.SetStreamHandler(TerminalID, n.TerminalHandler)

	log.Info().
		Str("peer", ph.h.ID().ShortString()).
		Interface("addrs", ph.h.Addrs()).
		Msg("Hosting games")

	return n, nil
}

func (n *Node) Sessions() *Sessions {
	return n.sessions
}

func (n *Node) TerminalHandler(s network.Stream) {
	p := s.Conn().RemotePeer()
	log.Info().
		Str("peer", p.ShortString()).
		Msg("New incoming terminal connection")

	mon, err := heartbeat.NewMonitor(n.ping, p, n.cfg.HeartbeatEvery, MissedPings)
	if err != nil {
		log.Err(err).Str("peer", p.ShortString()).Msg("Start heartbeat")
		s.Reset()
		return
	}

	t := &Terminal{
		Peer:    p,
		Link:    link.New(p.ShortString(), s),
		monitor: mon,
	}

	if old := n.sessions.Add(t); old != nil {
		log.Info().Str("peer", p.ShortString()).Msg("Terminal reconnected")
		if err := old.Close(); err != nil {
			log.Err(err).Str("peer", p.ShortString()).Msg("Close previous terminal")
		}
	}

	select {
	case n.Terminals <- t:
	default:
		log.Warn().Str("peer", p.ShortString()).Msg("Too many pending terminals, dropping")
		if err := n.sessions.Remove(t); err != nil {
			log.Err(err).Msg("Drop terminal")
		}
	}
}

func (n *Node) Close() error {
	n.h.RemoveStreamHandler(TerminalID)
	n.beacon.Close()

	var result error

	if err := n.sessions.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	if err := n.peerHost.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	if result != nil {
		return fmt.Errorf("close node: %w", result)
	}

	return nil
}
