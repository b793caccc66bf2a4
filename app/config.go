package app

import (
	"time"

	"go.uber.org/zap"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	RPCURL       string        // defaults to devnet
	PollInterval time.Duration // confirmation polling; 0 keeps the client default
	Funding      uint64        // lamports per created account; 0 means 2 SOL
	Logger       *zap.Logger   // optional; defaults to a nop logger
}
