package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/rs/zerolog/log"
)

// Publisher is satisfied by *pubsub.Topic.
type Publisher interface {
	Publish(ctx context.Context, data []byte, opts ...pubsub.PubOpt) error
}

// Beacon periodically announces a host on the node topic.
type Beacon struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	every    time.Duration
	selfInfo peer.AddrInfo
	topic    Publisher
	sessions func() int
}

func NewBeacon(ctx context.Context, topic Publisher, self peer.AddrInfo, every time.Duration, sessions func() int) *Beacon {
	localCtx, cancel := context.WithCancel(ctx)

	b := &Beacon{
		ctx:    localCtx,
		cancel: cancel,
		done:   make(chan struct{}),

		every:    every,
		selfInfo: self,
		topic:    topic,
		sessions: sessions,
	}

	go b.publishLoop()

	return b
}

func (b *Beacon) Done() <-chan struct{} {
	return b.done
}

func (b *Beacon) Close() {
	b.cancel()
	<-b.done
}

func (b *Beacon) publishLoop() {
	defer close(b.done)

	timer := time.NewTimer(b.every)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			err := b.publish()
			if err != nil && b.ctx.Err() == nil {
				log.Err(err).Msg("Announce host")
			}
			timer.Reset(b.every)
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *Beacon) publish() error {
	msg := Announcement{
		ConnectTo: b.selfInfo,
		Interval:  b.every,
	}

	if b.sessions != nil {
		msg.Sessions = b.sessions()
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	err = b.topic.Publish(b.ctx, msgBytes)
	if err != nil {
		return fmt.Errorf("publish announcement: %w", err)
	}

	return nil
}
