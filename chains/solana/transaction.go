package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
)

// Transaction is an unsigned set of instructions. The blockhash is only
// attached at signing time so it is as fresh as possible when broadcast.
type Transaction struct {
	Instructions []solana.Instruction
	FeePayer     solana.PublicKey
}

func NewTransaction(feePayer solana.PublicKey) *Transaction {
	return &Transaction{
		Instructions: make([]solana.Instruction, 0),
		FeePayer:     feePayer,
	}
}

func (tx *Transaction) AddTransferInstruction(from solana.PublicKey, to solana.PublicKey, lamports uint64) {
	instruction := system.NewTransferInstruction(
		lamports,
		from,
		to,
	).Build()
	tx.Instructions = append(tx.Instructions, instruction)
}

// Sign compiles the instructions against blockhash and signs with every key
// the message requires. A required signer missing from signers is an error.
func (tx *Transaction) Sign(blockhash solana.Hash, signers []solana.PrivateKey) (*solana.Transaction, error) {
	if blockhash == (solana.Hash{}) {
		return nil, fmt.Errorf("blockhash is empty")
	}
	if len(tx.Instructions) == 0 {
		return nil, fmt.Errorf("transaction has no instructions")
	}
	if len(signers) == 0 {
		return nil, fmt.Errorf("no signers provided for transaction")
	}

	stx, err := solana.NewTransaction(
		tx.Instructions,
		blockhash,
		solana.TransactionPayer(tx.FeePayer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = stx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if key.Equals(signers[i].PublicKey()) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return stx, nil
}

// NewTransfer builds a single-instruction transfer paid for by from.
func NewTransfer(from solana.PublicKey, to solana.PublicKey, lamports uint64) *Transaction {
	tx := NewTransaction(from)
	tx.AddTransferInstruction(from, to, lamports)
	return tx
}

// ValidateBase58 reports whether s decodes as base58 to a 32-byte value.
func ValidateBase58(s string) bool {
	if s == "" {
		return false
	}
	raw, err := base58.Decode(s)
	return err == nil && len(raw) == 32
}

func ParseAddress(address string) (solana.PublicKey, error) {
	// Base58 doesn't use 0, O, I, or l
	for i, c := range address {
		if c == '0' || c == 'O' || c == 'I' || c == 'l' {
			return solana.PublicKey{}, fmt.Errorf("invalid character '%c' at position %d in Solana address. Solana addresses use base58 encoding which doesn't include 0, O, I, or l characters", c, i)
		}
	}

	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid Solana address (%s): %w", address, err)
	}
	return pubKey, nil
}

func ValidateAddress(address string) error {
	_, err := ParseAddress(address)
	return err
}
