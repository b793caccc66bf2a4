package network

import (
	"context"
	"errors"
	"fmt"
	"strings"

	soltx "github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/errno"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// GetBalance returns the account balance in lamports; the node reports 0 for
// accounts that never received any. Balance queries are best-effort: a
// failure is logged and reported as ok == false.
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, bool) {
	out, err := c.rpc.GetBalance(ctx, account, Commitment)
	if err != nil {
		c.log.Warn(errno.ErrBalanceQueryFailed.Message,
			zap.Stringer("account", account), zap.Error(err))
		return 0, false
	}
	if out == nil {
		c.log.Warn(errno.ErrBalanceQueryFailed.Message,
			zap.Stringer("account", account), zap.String("reason", "empty result"))
		return 0, false
	}
	return out.Value, true
}

// LatestBlockhash fetches a blockhash at the client's commitment.
func (c *Client) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, Commitment)
	if err != nil {
		return Blockhash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return Blockhash{}, fmt.Errorf("failed to get latest blockhash: empty result")
	}
	return Blockhash{
		Hash:                 out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

// RequestFunding airdrops lamports to account and blocks until the airdrop
// is confirmed or the blockhash it is tracked against expires.
func (c *Client) RequestFunding(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	log := c.log.With(zap.Stringer("account", account), zap.Uint64("lamports", lamports))

	sig, err := c.rpc.RequestAirdrop(ctx, account, lamports, Commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", errno.ErrFundingRejected, err)
	}
	log = log.With(zap.Stringer("signature", sig))
	log.Debug("airdrop requested")

	bh, err := c.LatestBlockhash(ctx)
	if err != nil {
		// the airdrop went out but there is nothing to bound the wait with
		return sig, fmt.Errorf("%w: %w", errno.ErrFundingTimeout, err)
	}

	switch err := c.awaitConfirmation(ctx, sig, bh.LastValidBlockHeight); {
	case err == nil:
		log.Info("airdrop confirmed")
		return sig, nil
	case errors.Is(err, errExpired):
		return sig, fmt.Errorf("%w: %w", errno.ErrFundingTimeout, err)
	case isOnChainFailure(err):
		return sig, fmt.Errorf("%w: %w", errno.ErrFundingRejected, err)
	default:
		return sig, fmt.Errorf("%w: %w", errno.ErrFundingTimeout, err)
	}
}

// SubmitTransfer attaches a fresh blockhash, signs tx with signers,
// broadcasts it and blocks until it is confirmed or the blockhash expires.
func (c *Client) SubmitTransfer(ctx context.Context, tx *soltx.Transaction, signers ...solana.PrivateKey) (solana.Signature, error) {
	bh, err := c.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", errno.ErrTransferRejected, err)
	}

	signed, err := tx.Sign(bh.Hash, signers)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", errno.ErrTransferRejected, err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, signed, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: Commitment,
	})
	if err != nil {
		if isBlockhashNotFound(err) {
			return solana.Signature{}, fmt.Errorf("%w: %w", errno.ErrTransferTimeout, err)
		}
		c.log.Debug("transaction rejected", zap.Error(err), zap.Any("data", rpcErrorData(err)))
		return solana.Signature{}, fmt.Errorf("%w: %w", errno.ErrTransferRejected, err)
	}
	log := c.log.With(zap.Stringer("signature", sig))
	log.Debug("transaction sent")

	switch err := c.awaitConfirmation(ctx, sig, bh.LastValidBlockHeight); {
	case err == nil:
		log.Info("transaction confirmed")
		return sig, nil
	case errors.Is(err, errExpired):
		return sig, fmt.Errorf("%w: %w", errno.ErrTransferTimeout, err)
	case isOnChainFailure(err):
		return sig, fmt.Errorf("%w: %w", errno.ErrTransferRejected, err)
	default:
		return sig, fmt.Errorf("%w: %w", errno.ErrTransferTimeout, err)
	}
}

func isBlockhashNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blockhash not found") || strings.Contains(msg, "blockhashnotfound")
}

func rpcErrorData(err error) any {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Data
	}
	return nil
}
