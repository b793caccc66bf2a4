// Package account creates throwaway keypairs and funds them on the test network.
package account

import (
	"context"
	"fmt"

	"github.com/chinmay1088/lumen/errno"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// DefaultFunding is what a new account is airdropped when no amount is given.
const DefaultFunding uint64 = 2 * solana.LAMPORTS_PER_SOL

// ManagedAccount is a locally generated keypair and its last observed
// balance. It lives in memory only.
type ManagedAccount struct {
	PrivateKey solana.PrivateKey
	Balance    uint64
}

func (a *ManagedAccount) PublicKey() solana.PublicKey {
	return a.PrivateKey.PublicKey()
}

// Funder is the part of the network client the factory needs.
type Funder interface {
	RequestFunding(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error)
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, bool)
}

type Factory struct {
	network Funder
	log     *zap.Logger
	newKey  func() (solana.PrivateKey, error)
}

func NewFactory(network Funder, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{network: network, log: log, newKey: solana.NewRandomPrivateKey}
}

// CreateFunded generates a fresh keypair, airdrops lamports to it (0 means
// DefaultFunding) and waits for confirmation. The account is returned only
// once a balance of at least lamports is observed; otherwise the result is
// nil with an error matching one of the funding kinds in errno.
func (f *Factory) CreateFunded(ctx context.Context, lamports uint64) (*ManagedAccount, error) {
	if lamports == 0 {
		lamports = DefaultFunding
	}

	key, err := f.newKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	pub := key.PublicKey()
	log := f.log.With(zap.Stringer("account", pub), zap.Uint64("lamports", lamports))

	if _, err := f.network.RequestFunding(ctx, pub, lamports); err != nil {
		log.Warn("funding failed", zap.Error(err))
		return nil, err
	}

	balance, ok := f.network.GetBalance(ctx, pub)
	if !ok {
		return nil, fmt.Errorf("%w: balance unavailable", errno.ErrFundingUnverified)
	}
	if balance < lamports {
		return nil, fmt.Errorf("%w: observed %d of %d lamports", errno.ErrFundingUnverified, balance, lamports)
	}

	log.Info("account funded", zap.Uint64("balance", balance))
	return &ManagedAccount{PrivateKey: key, Balance: balance}, nil
}

// Refresh re-reads the balance of a, keeping the previous value when the
// query fails.
func (f *Factory) Refresh(ctx context.Context, a *ManagedAccount) uint64 {
	if a == nil {
		return 0
	}
	if balance, ok := f.network.GetBalance(ctx, a.PublicKey()); ok {
		a.Balance = balance
	}
	return a.Balance
}
