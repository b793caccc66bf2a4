package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBlockhash = solana.MustHashFromBase58("4sGjMW1sUnHzSxGspuhpqLDx6wiyjNtZAMdL4VZHirAn")

func TestSignTransfer(t *testing.T) {
	from := solana.NewWallet().PrivateKey
	to := solana.NewWallet().PublicKey()

	stx, err := NewTransfer(from.PublicKey(), to, 42).Sign(testBlockhash, []solana.PrivateKey{from})
	require.NoError(t, err)

	assert.Equal(t, testBlockhash, stx.Message.RecentBlockhash)
	require.Len(t, stx.Signatures, 1)
	assert.NoError(t, stx.VerifySignatures())
	assert.True(t, stx.Message.AccountKeys[0].Equals(from.PublicKey()))

	require.Len(t, stx.Message.Instructions, 1)
	program := stx.Message.AccountKeys[stx.Message.Instructions[0].ProgramIDIndex]
	assert.True(t, program.Equals(solana.SystemProgramID))
}

func TestSignRequiresInputs(t *testing.T) {
	from := solana.NewWallet().PrivateKey
	to := solana.NewWallet().PublicKey()
	tx := NewTransfer(from.PublicKey(), to, 1)

	_, err := tx.Sign(solana.Hash{}, []solana.PrivateKey{from})
	assert.Error(t, err)

	_, err = tx.Sign(testBlockhash, nil)
	assert.Error(t, err)

	_, err = NewTransaction(from.PublicKey()).Sign(testBlockhash, []solana.PrivateKey{from})
	assert.Error(t, err)
}

func TestSignWithWrongKeyFails(t *testing.T) {
	from := solana.NewWallet().PrivateKey
	stranger := solana.NewWallet().PrivateKey

	_, err := NewTransfer(from.PublicKey(), stranger.PublicKey(), 1).Sign(testBlockhash, []solana.PrivateKey{stranger})
	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	key := solana.NewWallet().PublicKey()

	got, err := ParseAddress(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, got)

	assert.Error(t, ValidateAddress("0OIl"))
	assert.Error(t, ValidateAddress("abc"))
	assert.True(t, ValidateBase58(key.String()))
	assert.False(t, ValidateBase58(""))
	assert.False(t, ValidateBase58("abc"))
}
