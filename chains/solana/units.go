package solana

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var lamportsPerSOL = decimal.NewFromInt(int64(solana.LAMPORTS_PER_SOL))

func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), 0).Div(lamportsPerSOL)
}

// SOLToLamports converts a decimal SOL amount such as "1.5" to lamports.
// Amounts finer than one lamport or below zero are rejected.
func SOLToLamports(sol string) (uint64, error) {
	d, err := decimal.NewFromString(sol)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", sol, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: negative", sol)
	}

	lamports := d.Mul(lamportsPerSOL)
	if !lamports.Equal(lamports.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than 9 decimal places", sol)
	}
	if !lamports.BigInt().IsUint64() {
		return 0, fmt.Errorf("invalid amount %q: too large", sol)
	}
	return lamports.BigInt().Uint64(), nil
}

func FormatBalance(lamports uint64) string {
	return LamportsToSOL(lamports).StringFixed(9) + " SOL"
}
