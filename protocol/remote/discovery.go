package remote

import (
	"context"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	"github.com/rs/zerolog/log"
)

type discoveryNotifee struct {
	h host.Host
}

func (n *discoveryNotifee) HandlePeerFound(pi peer.AddrInfo) {
	if pi.ID == n.h.ID() {
		return
	}

	log.Debug().Str("peer", pi.ID.ShortString()).Msg("Discovered peer")

	err := n.h.Connect(context.Background(), pi)
	if err != nil {
		log.Err(err).Str("peer", pi.ID.ShortString()).Msg("Connect to discovered peer")
	}
}

func setupDiscovery(h host.Host, service string) (mdns.Service, error) {
	s := mdns.NewMdnsService(h, service, &discoveryNotifee{h})
	return s, s.Start()
}
