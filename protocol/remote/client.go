package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/rs/zerolog/log"

	"github.com/kuredoro/snake_serial/config"
)

// Client is a remote terminal connected to a host.
type Client struct {
	*peerHost

	stream network.Stream
	host   Announcement
}

// Dial waits for the first host announced on the node topic and opens a
// terminal stream to it.
func Dial(ctx context.Context, cfg config.NodeConfig) (*Client, error) {
	ph, err := newPeerHost(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ann, err := awaitHost(ctx, ph)
	if err != nil {
		ph.Close()
		return nil, err
	}

	if err := ph.h.Connect(ctx, ann.ConnectTo); err != nil {
		ph.Close()
		return nil, fmt.Errorf("connect to host %v: %w", ann.ConnectTo.ID.ShortString(), err)
	}

	s, err := ph.h.NewStream(ctx, ann.ConnectTo.ID, TerminalID)
	if err != nil {
		ph.Close()
		return nil, fmt.Errorf("new terminal stream: %w", err)
	}

	log.Info().
		Str("host", ann.ConnectTo.ID.ShortString()).
		Int("sessions", ann.Sessions).
		Msg("Connected to host")

	return &Client{
		peerHost: ph,
		stream:   s,
		host:     ann,
	}, nil
}

func awaitHost(ctx context.Context, ph *peerHost) (Announcement, error) {
	sub, err := ph.topic.Subscribe()
	if err != nil {
		return Announcement{}, fmt.Errorf("subscribe to %v: %w", ph.topic, err)
	}
	defer sub.Cancel()

	self := ph.h.ID()
	for {
		psMsg, err := sub.Next(ctx)
		if err != nil {
			return Announcement{}, fmt.Errorf("wait for host: %w", err)
		}

		if psMsg.ReceivedFrom == self {
			continue
		}

		var ann Announcement
		if err := json.Unmarshal(psMsg.Data, &ann); err != nil {
			log.Warn().Str("data", string(psMsg.Data)).Msg("Couldn't unmarshal announcement")
			continue
		}

		return ann, nil
	}
}

// Host returns the announcement of the host the client is connected to.
func (c *Client) Host() Announcement {
	return c.host
}

func (c *Client) Read(p []byte) (int, error) {
	return c.stream.Read(p)
}

func (c *Client) Write(p []byte) (int, error) {
	return c.stream.Write(p)
}

func (c *Client) Close() error {
	var result error

	if err := c.stream.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close terminal stream: %w", err))
	}

	if err := c.peerHost.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	return result
}
