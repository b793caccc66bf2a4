package network

import (
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client is the single handle to one RPC endpoint.
type Client struct {
	rpc          RPC
	endpoint     string
	pollInterval time.Duration
	log          *zap.Logger
}

type Option func(*Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPollInterval sets how often signature status and block height are
// polled while awaiting confirmation.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewClient dials nothing; the underlying HTTP client connects lazily.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DevnetRPC
	}
	c := NewClientWithRPC(rpc.New(endpoint), opts...)
	c.endpoint = endpoint
	return c
}

// NewClientWithRPC wraps an existing RPC implementation.
func NewClientWithRPC(r RPC, opts ...Option) *Client {
	c := &Client{
		rpc:          r,
		pollInterval: DefaultPollInterval,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the RPC URL, empty when built from a custom RPC.
func (c *Client) Endpoint() string {
	return c.endpoint
}
