// Package networktest provides an in-memory Solana ledger that satisfies
// network.RPC, for exercising the client and everything built on it.
package networktest

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const (
	DefaultFee      = 5000
	DefaultValidFor = 150
)

// systemTransfer is the system program instruction index for Transfer.
const systemTransfer = 2

type pending struct {
	landAt  uint64
	err     any
	settled bool
	apply   func()
}

// Ledger keeps balances and advances one block per GetBlockHeight call, so
// polling clients observe time passing. Effects of a transaction are applied
// atomically when it lands.
type Ledger struct {
	mu         sync.Mutex
	balances   map[solana.PublicKey]uint64
	height     uint64
	blockhashs map[solana.Hash]uint64
	sigs       map[solana.Signature]*pending

	// Fee is charged to the fee payer per signature.
	Fee uint64
	// ValidFor is how many blocks an issued blockhash stays valid.
	ValidFor uint64
	// LandAfter is how many blocks pass between submission and confirmation.
	LandAfter uint64

	// Scripted failures.
	AirdropErr error
	BalanceErr error
	// Drop makes submitted transactions and airdrops never land.
	Drop bool
	// FailOnChain makes landed transactions carry this execution error.
	FailOnChain any

	Airdrops int
	Sends    int
}

func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[solana.PublicKey]uint64),
		blockhashs: make(map[solana.Hash]uint64),
		sigs:       make(map[solana.Signature]*pending),
		Fee:        DefaultFee,
		ValidFor:   DefaultValidFor,
		LandAfter:  1,
	}
}

// Credit sets up a starting balance without going through an airdrop.
func (l *Ledger) Credit(account solana.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += lamports
}

// Balance reads the settled balance directly.
func (l *Ledger) Balance(account solana.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settleLocked()
	return l.balances[account]
}

func (l *Ledger) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.BalanceErr != nil {
		return nil, l.BalanceErr
	}
	l.settleLocked()
	return &rpc.GetBalanceResult{Value: l.balances[account]}, nil
}

func (l *Ledger) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Airdrops++
	if l.AirdropErr != nil {
		return solana.Signature{}, l.AirdropErr
	}

	sig := randomSignature()
	l.queueLocked(sig, func() { l.balances[account] += lamports })
	return sig, nil
}

func (l *Ledger) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var hash solana.Hash
	_, _ = rand.Read(hash[:])
	lastValid := l.height + l.ValidFor
	l.blockhashs[hash] = lastValid

	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            hash,
			LastValidBlockHeight: lastValid,
		},
	}, nil
}

func (l *Ledger) GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height++
	return l.height, nil
}

func (l *Ledger) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Sends++
	l.settleLocked()

	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, &jsonrpc.RPCError{Code: -32003, Message: "Transaction signature verification failure"}
	}
	if lastValid, ok := l.blockhashs[tx.Message.RecentBlockhash]; !ok || l.height > lastValid {
		return solana.Signature{}, &jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: Blockhash not found"}
	}

	payer := tx.Message.AccountKeys[0]
	fee := l.Fee * uint64(len(tx.Signatures))
	debits := map[solana.PublicKey]uint64{payer: fee}
	credits := map[solana.PublicKey]uint64{}

	for _, ix := range tx.Message.Instructions {
		program := tx.Message.AccountKeys[ix.ProgramIDIndex]
		if !program.Equals(solana.SystemProgramID) || len(ix.Data) < 12 || len(ix.Accounts) < 2 {
			continue
		}
		if binary.LittleEndian.Uint32(ix.Data[:4]) != systemTransfer {
			continue
		}
		lamports := binary.LittleEndian.Uint64(ix.Data[4:12])
		from := tx.Message.AccountKeys[ix.Accounts[0]]
		to := tx.Message.AccountKeys[ix.Accounts[1]]
		debits[from] += lamports
		credits[to] += lamports
	}

	if !opts.SkipPreflight {
		for account, amount := range debits {
			if l.balances[account] < amount {
				return solana.Signature{}, &jsonrpc.RPCError{
					Code:    -32002,
					Message: "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit.",
				}
			}
		}
	}

	sig := tx.Signatures[0]
	l.queueLocked(sig, func() {
		for account, amount := range debits {
			l.balances[account] -= amount
		}
		for account, amount := range credits {
			l.balances[account] += amount
		}
	})
	return sig, nil
}

func (l *Ledger) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settleLocked()

	out := &rpc.GetSignatureStatusesResult{Value: make([]*rpc.SignatureStatusesResult, len(sigs))}
	for i, sig := range sigs {
		p, ok := l.sigs[sig]
		if !ok || !p.settled {
			continue
		}
		out.Value[i] = &rpc.SignatureStatusesResult{
			Slot:               p.landAt,
			Err:                p.err,
			ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
		}
	}
	return out, nil
}

func (l *Ledger) queueLocked(sig solana.Signature, apply func()) {
	p := &pending{landAt: l.height + l.LandAfter, apply: apply, err: l.FailOnChain}
	if l.Drop {
		p.landAt = math.MaxUint64
	}
	l.sigs[sig] = p
}

func (l *Ledger) settleLocked() {
	for _, p := range l.sigs {
		if p.settled || p.landAt > l.height {
			continue
		}
		p.settled = true
		if p.err == nil {
			p.apply()
		}
	}
}

func randomSignature() solana.Signature {
	var sig solana.Signature
	_, _ = rand.Read(sig[:])
	return sig
}
