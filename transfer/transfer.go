// Package transfer moves lamports out of a locally created account.
package transfer

import (
	"context"
	"fmt"

	"github.com/chinmay1088/lumen/account"
	soltx "github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/errno"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Submitter signs, broadcasts and confirms a transaction.
type Submitter interface {
	SubmitTransfer(ctx context.Context, tx *soltx.Transaction, signers ...solana.PrivateKey) (solana.Signature, error)
}

// IdentitySource supplies the default destination, normally the connected
// wallet.
type IdentitySource interface {
	Identity() (solana.PublicKey, bool)
}

// Request describes one transfer. A zero Destination means the connected
// wallet.
type Request struct {
	Source      *account.ManagedAccount
	Destination solana.PublicKey
	Lamports    uint64
}

type Service struct {
	network  Submitter
	identity IdentitySource
	log      *zap.Logger
}

func NewService(network Submitter, identity IdentitySource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{network: network, identity: identity, log: log}
}

// Transfer sends lamports from source to destination and waits for
// confirmation.
//
// Transfers only ever originate from a locally created account; the
// connected wallet's key is never available here. A nil source therefore
// makes Transfer a no-op returning a zero signature and no error.
func (s *Service) Transfer(ctx context.Context, destination solana.PublicKey, lamports uint64, source *account.ManagedAccount) (solana.Signature, error) {
	return s.Submit(ctx, Request{Source: source, Destination: destination, Lamports: lamports})
}

func (s *Service) Submit(ctx context.Context, req Request) (solana.Signature, error) {
	if req.Source == nil || len(req.Source.PrivateKey) == 0 {
		s.log.Debug("transfer skipped: no source account")
		return solana.Signature{}, nil
	}
	if req.Lamports == 0 {
		return solana.Signature{}, errno.ErrInvalidAmount
	}

	dest := req.Destination
	if dest == (solana.PublicKey{}) {
		id, ok := s.defaultDestination()
		if !ok {
			return solana.Signature{}, errno.ErrNoDestination
		}
		dest = id
	}

	from := req.Source.PublicKey()
	log := s.log.With(
		zap.Stringer("from", from),
		zap.Stringer("to", dest),
		zap.Uint64("lamports", req.Lamports),
	)

	tx := soltx.NewTransfer(from, dest, req.Lamports)
	sig, err := s.network.SubmitTransfer(ctx, tx, req.Source.PrivateKey)
	if err != nil {
		log.Warn("transfer failed", zap.Error(err))
		return sig, fmt.Errorf("transfer of %s to %s: %w", soltx.FormatBalance(req.Lamports), dest, err)
	}

	log.Info("transfer confirmed", zap.Stringer("signature", sig))
	return sig, nil
}

func (s *Service) defaultDestination() (solana.PublicKey, bool) {
	if s.identity == nil {
		return solana.PublicKey{}, false
	}
	return s.identity.Identity()
}
