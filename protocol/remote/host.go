package remote

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	libp2p "github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"

	"github.com/kuredoro/snake_serial/config"
)

// peerHost bundles the pieces both hosts and clients need: a libp2p host
// discoverable over mDNS and joined to the node topic.
type peerHost struct {
	h     host.Host
	mdns  mdns.Service
	ps    *pubsub.PubSub
	topic *pubsub.Topic
}

func newPeerHost(ctx context.Context, cfg config.NodeConfig) (*peerHost, error) {
	h, err := libp2p.New(libp2p.ListenAddrStrings(cfg.Listen))
	if err != nil {
		return nil, fmt.Errorf("init libp2p host: %w", err)
	}

	disc, err := setupDiscovery(h, cfg.Topic)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("setup discovery: %w", err)
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		disc.Close()
		h.Close()
		return nil, fmt.Errorf("enable pubsub: %w", err)
	}

	topic, err := ps.Join(cfg.Topic)
	if err != nil {
		disc.Close()
		h.Close()
		return nil, fmt.Errorf("join topic %q: %w", cfg.Topic, err)
	}

	return &peerHost{
		h:     h,
		mdns:  disc,
		ps:    ps,
		topic: topic,
	}, nil
}

func (ph *peerHost) Close() error {
	var result error

	if err := ph.topic.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close topic: %w", err))
	}

	if err := ph.mdns.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("stop discovery: %w", err))
	}

	if err := ph.h.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close host: %w", err))
	}

	return result
}
