package transfer

import (
	"context"
	"fmt"
	"testing"

	"github.com/chinmay1088/lumen/account"
	soltx "github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/errno"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	calls   int
	err     error
	txs     []*soltx.Transaction
	signers [][]solana.PrivateKey
}

func (r *recordingSubmitter) SubmitTransfer(ctx context.Context, tx *soltx.Transaction, signers ...solana.PrivateKey) (solana.Signature, error) {
	r.calls++
	r.txs = append(r.txs, tx)
	r.signers = append(r.signers, signers)
	if r.err != nil {
		return solana.Signature{}, r.err
	}
	return solana.Signature{9}, nil
}

type fixedIdentity struct {
	key solana.PublicKey
	ok  bool
}

func (f fixedIdentity) Identity() (solana.PublicKey, bool) { return f.key, f.ok }

func funded() *account.ManagedAccount {
	return &account.ManagedAccount{PrivateKey: solana.NewWallet().PrivateKey, Balance: 2 * solana.LAMPORTS_PER_SOL}
}

func TestTransferWithoutSourceIsNoop(t *testing.T) {
	sub := &recordingSubmitter{}
	svc := NewService(sub, nil, nil)

	for i := 0; i < 2; i++ {
		sig, err := svc.Transfer(context.Background(), solana.NewWallet().PublicKey(), 100, nil)
		assert.NoError(t, err)
		assert.Equal(t, solana.Signature{}, sig)
	}
	assert.Zero(t, sub.calls)
}

func TestTransferBuildsSingleInstruction(t *testing.T) {
	sub := &recordingSubmitter{}
	svc := NewService(sub, nil, nil)
	src := funded()
	dest := solana.NewWallet().PublicKey()

	sig, err := svc.Transfer(context.Background(), dest, solana.LAMPORTS_PER_SOL, src)
	require.NoError(t, err)
	assert.Equal(t, solana.Signature{9}, sig)

	require.Equal(t, 1, sub.calls)
	require.Len(t, sub.txs[0].Instructions, 1)
	assert.Equal(t, dest, sub.txs[0].Instructions[0].Accounts()[1].PublicKey)
	assert.Equal(t, src.PublicKey(), sub.txs[0].FeePayer)
	require.Len(t, sub.signers[0], 1)
	assert.Equal(t, src.PrivateKey, sub.signers[0][0])
}

func TestTransferRejectsZeroAmount(t *testing.T) {
	sub := &recordingSubmitter{}
	_, err := NewService(sub, nil, nil).Transfer(context.Background(), solana.NewWallet().PublicKey(), 0, funded())
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)
	assert.Zero(t, sub.calls)
}

func TestTransferDefaultsToConnectedWallet(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	sub := &recordingSubmitter{}
	svc := NewService(sub, fixedIdentity{key: wallet, ok: true}, nil)

	src := funded()
	_, err := svc.Transfer(context.Background(), solana.PublicKey{}, 5, src)
	require.NoError(t, err)
	require.Equal(t, 1, sub.calls)

	require.Len(t, sub.txs[0].Instructions, 1)
	accounts := sub.txs[0].Instructions[0].Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, src.PublicKey(), accounts[0].PublicKey)
	assert.Equal(t, wallet, accounts[1].PublicKey)
}

func TestTransferWithoutDestination(t *testing.T) {
	sub := &recordingSubmitter{}
	svc := NewService(sub, fixedIdentity{}, nil)

	_, err := svc.Transfer(context.Background(), solana.PublicKey{}, 5, funded())
	assert.ErrorIs(t, err, errno.ErrNoDestination)
	assert.Zero(t, sub.calls)
}

func TestTransferPropagatesNetworkErrors(t *testing.T) {
	for _, kind := range []error{errno.ErrTransferRejected, errno.ErrTransferTimeout} {
		sub := &recordingSubmitter{err: fmt.Errorf("%w: simulated", kind)}
		_, err := NewService(sub, nil, nil).Transfer(context.Background(), solana.NewWallet().PublicKey(), 5, funded())
		assert.ErrorIs(t, err, kind)
	}
}
