package remote

import (
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
)

// TerminalID is the stream protocol spoken between a host and a remote
// terminal. Host to terminal carries rendered frames, terminal to host
// carries key bytes.
const TerminalID = "/snake/terminal/0.1.0"

// Announcement is published on the node topic by hosts accepting
// terminals.
type Announcement struct {
	ConnectTo peer.AddrInfo
	Interval  time.Duration
	Sessions  int
}

func HostAddrInfo(h host.Host) peer.AddrInfo {
	return peer.AddrInfo{
		ID:    h.ID(),
		Addrs: h.Addrs(),
	}
}
