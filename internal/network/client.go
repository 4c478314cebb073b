package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"lankm/internal/input"
	"lankm/internal/protocol"
)

const (
	DefaultConnectTimeout = 2 * time.Second
	DefaultRetryDelay     = 1 * time.Second
)

// ErrInject marks a failure of the local injector. It ends Client.Run.
var ErrInject = errors.New("network: inject failed")

// Dialer opens connections to the server. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client receives key events from a server and replays them locally.
type Client struct {
	addr           string
	injector       input.Injector
	dialer         Dialer
	connectTimeout time.Duration
	retryDelay     time.Duration

	// OnConnect, if set, is called after each successful connection.
	OnConnect func(addr string)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) ClientOption {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithConnectTimeout bounds each connection attempt.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

// WithRetryDelay sets the fixed pause between connection attempts.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// NewClient creates a client for the server at addr (host:port) that
// replays events through injector.
func NewClient(addr string, injector input.Injector, opts ...ClientOption) *Client {
	c := &Client{
		addr:           addr,
		injector:       injector,
		dialer:         &net.Dialer{},
		connectTimeout: DefaultConnectTimeout,
		retryDelay:     DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects, replays events and reconnects after every connection loss,
// without limit, until ctx is done. It returns nil on cancellation and an
// error wrapping ErrInject if the injector fails.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, err := c.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		log.Info().Str("server", c.addr).Msg("Client: connected")
		if c.OnConnect != nil {
			c.OnConnect(c.addr)
		}

		err = c.receive(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrInject) {
			return err
		}
		log.Warn().Err(err).Str("server", c.addr).Msg("Client: connection lost, reconnecting")
	}
}

func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	return retry.DoWithData(func() (net.Conn, error) {
		dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
		return c.dialer.DialContext(dialCtx, "tcp", c.addr)
	},
		retry.Attempts(0),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("server", c.addr).Msg("Client: connect failed, retrying")
		}),
	)
}

// receive reads frames until the connection fails. A frame cut short by
// the failure is discarded with the connection.
func (c *Client) receive(ctx context.Context, conn net.Conn) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	var buf [protocol.KeyEventSize]byte
	for {
		if _, err := io.ReadFull(conn, buf[:]); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		ev, err := protocol.DecodeKeyEvent(buf)
		if err != nil {
			log.Warn().Err(err).Hex("frame", buf[:]).Msg("Client: skipping invalid frame")
			continue
		}

		if err := c.injector.Emit(ev); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInject, ev, err)
		}
		log.Debug().Stringer("event", ev).Msg("Client: injected")
	}
}
