package heartbeat_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kuredoro/snake_serial/protocol/heartbeat"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/protocol/ping"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context, p peer.ID) <-chan ping.Result {
	f.calls.Add(1)

	out := make(chan ping.Result, 1)
	if f.fail.Load() {
		out <- ping.Result{Error: errors.New("stream reset")}
	} else {
		out <- ping.Result{RTT: time.Millisecond}
	}
	close(out)
	return out
}

func TestMonitor(t *testing.T) {
	t.Run("needs a pinger", func(t *testing.T) {
		if _, err := heartbeat.NewMonitor(nil, peer.ID("terminal"), time.Millisecond, 3); err == nil {
			t.Error("NewMonitor(nil, ...) returned no error")
		}
	})

	t.Run("answering peer is kept", func(t *testing.T) {
		pinger := &fakePinger{}
		m, err := heartbeat.NewMonitor(pinger, peer.ID("terminal"), time.Millisecond, 3)
		if err != nil {
			t.Fatalf("NewMonitor() returned error: %v", err)
		}

		select {
		case <-m.Lost():
			t.Error("answering peer reported lost")
		case <-time.After(30 * time.Millisecond):
		}

		m.Close()
		if pinger.calls.Load() == 0 {
			t.Error("monitor never pinged")
		}
	})

	t.Run("silent peer is lost", func(t *testing.T) {
		pinger := &fakePinger{}
		pinger.fail.Store(true)
		m, err := heartbeat.NewMonitor(pinger, peer.ID("terminal"), time.Millisecond, 3)
		if err != nil {
			t.Fatalf("NewMonitor() returned error: %v", err)
		}
		defer m.Close()

		select {
		case <-m.Lost():
		case <-time.After(2 * time.Second):
			t.Fatal("silent peer was not reported lost")
		}

		if got := pinger.calls.Load(); got < 3 {
			t.Errorf("lost after %d pings, want at least 3", got)
		}
	})
}
