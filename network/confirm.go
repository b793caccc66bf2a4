package network

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

var errExpired = errors.New("blockhash expired before confirmation")

// OnChainError is a transaction that landed but failed to execute.
type OnChainError struct {
	Signature solana.Signature
	Err       any
}

func (e *OnChainError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

func isOnChainFailure(err error) bool {
	var oc *OnChainError
	return errors.As(err, &oc)
}

// awaitConfirmation polls until sig reaches the client commitment. The only
// bound is blockhash expiry: once the chain's block height passes
// lastValidBlockHeight without confirmation, errExpired is returned. Poll
// errors are transient and only logged.
func (c *Client) awaitConfirmation(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	log := c.log.With(zap.Stringer("signature", sig), zap.Uint64("last_valid_block_height", lastValidBlockHeight))

	for {
		done, err := c.checkStatus(ctx, sig)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		height, err := c.rpc.GetBlockHeight(ctx, Commitment)
		switch {
		case err != nil:
			log.Debug("block height poll failed", zap.Error(err))
		case height > lastValidBlockHeight:
			// one last look, it may have landed in the final valid block
			if done, err := c.checkStatus(ctx, sig); err != nil || done {
				return err
			}
			return errExpired
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) checkStatus(ctx context.Context, sig solana.Signature) (bool, error) {
	out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		c.log.Debug("signature status poll failed", zap.Stringer("signature", sig), zap.Error(err))
		return false, nil
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil
	}

	status := out.Value[0]
	if status.Err != nil {
		return false, &OnChainError{Signature: sig, Err: status.Err}
	}

	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return true, nil
	}
	return false, nil
}
