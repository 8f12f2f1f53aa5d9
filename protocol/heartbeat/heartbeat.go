package heartbeat

import (
	"context"
	"errors"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/protocol/ping"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Pinger is satisfied by *ping.PingService.
type Pinger interface {
	Ping(ctx context.Context, p peer.ID) <-chan ping.Result
}

// Monitor pings a remote terminal and closes Lost once it has missed
// enough pings in a row.
type Monitor struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	lost   chan struct{}

	pinger Pinger
	peer   peer.ID
	every  time.Duration
	misses int

	log zerolog.Logger
}

func NewMonitor(pinger Pinger, p peer.ID, every time.Duration, misses int) (*Monitor, error) {
	if pinger == nil {
		return nil, errors.New("ping service is nil")
	}
	if every <= 0 {
		return nil, errors.New("heartbeat interval is not positive")
	}
	if misses < 1 {
		misses = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Monitor{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		lost:   make(chan struct{}),

		pinger: pinger,
		peer:   p,
		every:  every,
		misses: misses,

		log: log.Logger.With().Str("peer", p.ShortString()).Logger(),
	}

	go m.run()

	return m, nil
}

func (m *Monitor) run() {
	defer close(m.done)

	timer := time.NewTimer(m.every)
	defer timer.Stop()

	failed := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-timer.C:
			if m.probe() {
				failed = 0
			} else {
				failed++
			}

			if failed >= m.misses {
				m.log.Info().Int("missed", failed).Msg("Terminal lost")
				close(m.lost)
				return
			}

			timer.Reset(m.every)
		}
	}
}

func (m *Monitor) probe() bool {
	ctx, cancel := context.WithTimeout(m.ctx, m.every)
	defer cancel()

	select {
	case res, ok := <-m.pinger.Ping(ctx, m.peer):
		if !ok {
			return false
		}
		if res.Error != nil {
			m.log.Debug().Err(res.Error).Msg("Ping failed")
			return false
		}
		return true
	case <-ctx.Done():
		return false
	}
}

// Lost is closed when the peer stops answering. It stays open if the
// monitor is closed first.
func (m *Monitor) Lost() <-chan struct{} {
	return m.lost
}

func (m *Monitor) Close() {
	m.cancel()
	<-m.done
}
