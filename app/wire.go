package app

import (
	"fmt"

	soltx "github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/config"
	"github.com/chinmay1088/lumen/network"
	"github.com/chinmay1088/lumen/provider"
	"go.uber.org/zap"
)

// Wire builds the App from loaded configuration, discovering the wallet
// extension through host.
func Wire(cfg *config.Config, host provider.Environment, log *zap.Logger) (*App, error) {
	funding, err := soltx.SOLToLamports(cfg.Funding.AmountSOL)
	if err != nil {
		return nil, fmt.Errorf("funding.amount_sol: %w", err)
	}

	c := Config{
		RPCURL:       cfg.Network.RPCURL,
		PollInterval: cfg.Network.PollInterval,
		Funding:      funding,
		Logger:       log,
	}
	return New(provider.NewLocator(host), c), nil
}

// dialer builds the network client from c. Overridden in tests.
func (c Config) dialer() NetworkFactory {
	return func() *network.Client {
		return network.NewClient(c.RPCURL,
			network.WithLogger(c.Logger.Named("network")),
			network.WithPollInterval(c.PollInterval),
		)
	}
}
