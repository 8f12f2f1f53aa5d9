package remote

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/kuredoro/snake_serial/protocol/heartbeat"
	"github.com/kuredoro/snake_serial/protocol/link"
)

// Terminal is a connected remote terminal. Its link carries frames to
// the terminal and key bytes from it.
type Terminal struct {
	Peer peer.ID
	Link *link.Link

	monitor *heartbeat.Monitor
}

// Lost is closed when the terminal stops answering pings. A terminal
// without a monitor is never reported lost.
func (t *Terminal) Lost() <-chan struct{} {
	if t.monitor == nil {
		return nil
	}

	return t.monitor.Lost()
}

func (t *Terminal) Close() error {
	if t.monitor != nil {
		t.monitor.Close()
	}

	return t.Link.Close()
}

// Sessions tracks the terminals connected to a host, one per peer.
type Sessions struct {
	terms map[peer.ID]*Terminal

	mu sync.Mutex
}

func NewSessions() *Sessions {
	return &Sessions{
		terms: make(map[peer.ID]*Terminal),
	}
}

// Add registers t, replacing and returning the previous terminal of the
// same peer if any.
func (s *Sessions) Add(t *Terminal) (replaced *Terminal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced = s.terms[t.Peer]
	s.terms[t.Peer] = t

	return replaced
}

// Remove closes and forgets t. It does nothing if t has already been
// replaced by a newer terminal of the same peer.
func (s *Sessions) Remove(t *Terminal) error {
	s.mu.Lock()
	cur, exists := s.terms[t.Peer]
	if exists && cur == t {
		delete(s.terms, t.Peer)
	}
	s.mu.Unlock()

	if err := t.Close(); err != nil {
		return fmt.Errorf("close terminal %v: %w", t.Peer.ShortString(), err)
	}

	return nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.terms)
}

func (s *Sessions) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result error
	for p, t := range s.terms {
		if err := t.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close terminal %v: %w", p.ShortString(), err))
		}
	}

	clear(s.terms)

	return result
}
