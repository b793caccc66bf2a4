package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/chinmay1088/lumen/errno"
	"github.com/chinmay1088/lumen/provider"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ApprovalRequest is what the extension asks the user to confirm.
type ApprovalRequest struct {
	Method  provider.Method
	Account solana.PublicKey
	Summary string
}

// Approver shows a request to the user and reports their decision.
type Approver func(ctx context.Context, req ApprovalRequest) bool

// Extension is a local wallet extension backed by a Keystore. It is the
// collaborator the core discovers through provider.Locator.
type Extension struct {
	keys    *Keystore
	approve Approver

	mu        sync.Mutex
	connected bool
	trusted   bool
	handlers  map[provider.Event][]provider.Handler
}

var _ provider.Provider = (*Extension)(nil)

func NewExtension(keys *Keystore, approve Approver) *Extension {
	if approve == nil {
		approve = func(context.Context, ApprovalRequest) bool { return false }
	}
	return &Extension{
		keys:     keys,
		approve:  approve,
		handlers: make(map[provider.Event][]provider.Handler),
	}
}

func (e *Extension) IsPhantom() bool { return true }

func (e *Extension) PublicKey() (solana.PublicKey, bool) {
	e.mu.Lock()
	connected := e.connected
	e.mu.Unlock()
	if !connected {
		return solana.PublicKey{}, false
	}
	pub, err := e.keys.Address()
	if err != nil {
		return solana.PublicKey{}, false
	}
	return pub, true
}

func (e *Extension) IsConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// Connect asks the user to authorize the app unless they already did in
// this process. A declined prompt, or OnlyIfTrusted without prior trust,
// fails with errno.ErrUserRejected.
func (e *Extension) Connect(ctx context.Context, opts provider.ConnectOpts) (solana.PublicKey, error) {
	pub, err := e.keys.Address()
	if err != nil {
		return solana.PublicKey{}, err
	}

	e.mu.Lock()
	if e.connected {
		e.mu.Unlock()
		return pub, nil
	}
	trusted := e.trusted
	e.mu.Unlock()

	if !trusted {
		if opts.OnlyIfTrusted {
			return solana.PublicKey{}, errno.ErrUserRejected
		}
		req := ApprovalRequest{Method: provider.MethodConnect, Account: pub, Summary: "Connect this app to " + pub.String()}
		if !e.approve(ctx, req) {
			return solana.PublicKey{}, errno.ErrUserRejected
		}
	}

	e.mu.Lock()
	e.connected = true
	e.trusted = true
	e.mu.Unlock()

	e.emit(provider.EventConnect, pub)
	return pub, nil
}

func (e *Extension) Disconnect(ctx context.Context) error {
	e.mu.Lock()
	if !e.connected {
		e.mu.Unlock()
		return nil
	}
	e.connected = false
	e.mu.Unlock()

	e.emit(provider.EventDisconnect, nil)
	return nil
}

func (e *Extension) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	signed, err := e.SignAllTransactions(ctx, []*solana.Transaction{tx})
	if err != nil {
		return nil, err
	}
	return signed[0], nil
}

// SignAllTransactions asks once for the whole batch, then adds this
// wallet's signature to each transaction that requires it.
func (e *Extension) SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	key, err := e.connectedKey()
	if err != nil {
		return nil, err
	}

	req := ApprovalRequest{
		Method:  provider.MethodSignAllTransactions,
		Account: key.PublicKey(),
		Summary: fmt.Sprintf("Sign %d transaction(s)", len(txs)),
	}
	if len(txs) == 1 {
		req.Method = provider.MethodSignTransaction
	}
	if !e.approve(ctx, req) {
		return nil, errno.ErrUserRejected
	}

	for _, tx := range txs {
		if err := partialSign(tx, key); err != nil {
			return nil, err
		}
	}
	return txs, nil
}

func (e *Extension) SignMessage(ctx context.Context, message []byte, display provider.DisplayEncoding) (*provider.MessageSignature, error) {
	key, err := e.connectedKey()
	if err != nil {
		return nil, err
	}

	shown := string(message)
	if display == provider.DisplayHex {
		shown = hex.EncodeToString(message)
	}
	req := ApprovalRequest{Method: provider.MethodSignMessage, Account: key.PublicKey(), Summary: "Sign message: " + shown}
	if !e.approve(ctx, req) {
		return nil, errno.ErrUserRejected
	}

	sig, err := key.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return &provider.MessageSignature{PublicKey: key.PublicKey(), Signature: sig}, nil
}

func (e *Extension) On(event provider.Event, handler provider.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[event] = append(e.handlers[event], handler)
}

// Request is the generic entry point; results use the extension's wire
// shapes (base58 strings) rather than Go types.
func (e *Extension) Request(ctx context.Context, method provider.Method, params any) (any, error) {
	switch method {
	case provider.MethodConnect:
		opts, _ := params.(provider.ConnectOpts)
		pub, err := e.Connect(ctx, opts)
		if err != nil {
			return nil, err
		}
		return map[string]string{"publicKey": pub.String()}, nil

	case provider.MethodDisconnect:
		return nil, e.Disconnect(ctx)

	case provider.MethodSignTransaction:
		tx, ok := params.(*solana.Transaction)
		if !ok {
			return nil, fmt.Errorf("%s: expected *solana.Transaction, got %T", method, params)
		}
		return e.SignTransaction(ctx, tx)

	case provider.MethodSignAllTransactions:
		txs, ok := params.([]*solana.Transaction)
		if !ok {
			return nil, fmt.Errorf("%s: expected []*solana.Transaction, got %T", method, params)
		}
		return e.SignAllTransactions(ctx, txs)

	case provider.MethodSignMessage:
		var msg []byte
		switch p := params.(type) {
		case []byte:
			msg = p
		case string:
			msg = []byte(p)
		default:
			return nil, fmt.Errorf("%s: expected []byte or string, got %T", method, params)
		}
		out, err := e.SignMessage(ctx, msg, provider.DisplayUTF8)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"publicKey": out.PublicKey.String(),
			"signature": base58.Encode(out.Signature[:]),
		}, nil
	}
	return nil, fmt.Errorf("unsupported method %q", method)
}

func (e *Extension) connectedKey() (solana.PrivateKey, error) {
	if !e.IsConnected() {
		return nil, errno.ErrNotConnected
	}
	return e.keys.SolanaKey()
}

func (e *Extension) emit(event provider.Event, payload any) {
	e.mu.Lock()
	handlers := append([]provider.Handler(nil), e.handlers[event]...)
	e.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

// partialSign places key's signature in the slot the message reserves for
// it, leaving other signers' slots untouched.
func partialSign(tx *solana.Transaction, key solana.PrivateKey) error {
	required := int(tx.Message.Header.NumRequiredSignatures)
	pub := key.PublicKey()

	slot := -1
	for i := 0; i < required && i < len(tx.Message.AccountKeys); i++ {
		if tx.Message.AccountKeys[i].Equals(pub) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return fmt.Errorf("transaction does not require a signature from %s", pub)
	}

	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	sig, err := key.Sign(content)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if len(tx.Signatures) < required {
		grown := make([]solana.Signature, required)
		copy(grown, tx.Signatures)
		tx.Signatures = grown
	}
	tx.Signatures[slot] = sig
	return nil
}
