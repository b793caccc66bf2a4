// Package providertest provides a scriptable Provider for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/chinmay1088/lumen/errno"
	"github.com/chinmay1088/lumen/provider"
	"github.com/gagliardetto/solana-go"
)

// Mock is an in-memory wallet extension. Set the exported fields to script
// its responses; call counters record how the core used it.
type Mock struct {
	Phantom bool
	Key     solana.PublicKey

	// ConnectErr is returned by Connect when set; Reject is shorthand for
	// a user rejection.
	ConnectErr    error
	Reject        bool
	DisconnectErr error

	mu              sync.Mutex
	connected       bool
	handlers        map[provider.Event][]provider.Handler
	ConnectCalls    int
	DisconnectCalls int
}

// New returns a phantom-identifying mock that approves connects with key.
func New(key solana.PublicKey) *Mock {
	return &Mock{Phantom: true, Key: key}
}

var _ provider.Provider = (*Mock)(nil)

func (m *Mock) IsPhantom() bool { return m.Phantom }

func (m *Mock) PublicKey() (solana.PublicKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return solana.PublicKey{}, false
	}
	return m.Key, true
}

func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Mock) Connect(ctx context.Context, opts provider.ConnectOpts) (solana.PublicKey, error) {
	m.mu.Lock()
	m.ConnectCalls++
	switch {
	case m.Reject:
		m.mu.Unlock()
		return solana.PublicKey{}, errno.ErrUserRejected
	case m.ConnectErr != nil:
		m.mu.Unlock()
		return solana.PublicKey{}, m.ConnectErr
	}
	m.connected = true
	m.mu.Unlock()

	m.Emit(provider.EventConnect, m.Key)
	return m.Key, nil
}

func (m *Mock) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	m.DisconnectCalls++
	m.connected = false
	err := m.DisconnectErr
	m.mu.Unlock()
	return err
}

func (m *Mock) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	return tx, nil
}

func (m *Mock) SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	return txs, nil
}

func (m *Mock) SignMessage(ctx context.Context, message []byte, display provider.DisplayEncoding) (*provider.MessageSignature, error) {
	return &provider.MessageSignature{PublicKey: m.Key}, nil
}

func (m *Mock) On(event provider.Event, handler provider.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handlers == nil {
		m.handlers = make(map[provider.Event][]provider.Handler)
	}
	m.handlers[event] = append(m.handlers[event], handler)
}

func (m *Mock) Request(ctx context.Context, method provider.Method, params any) (any, error) {
	switch method {
	case provider.MethodConnect:
		return m.Connect(ctx, provider.ConnectOpts{})
	case provider.MethodDisconnect:
		return nil, m.Disconnect(ctx)
	}
	return nil, nil
}

// Emit delivers payload to every handler registered for event, as the
// extension does when its state changes underneath the app.
func (m *Mock) Emit(event provider.Event, payload any) {
	m.mu.Lock()
	if event == provider.EventDisconnect {
		m.connected = false
	}
	handlers := append([]provider.Handler(nil), m.handlers[event]...)
	m.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Handlers returns how many handlers are registered for event.
func (m *Mock) Handlers(event provider.Event) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers[event])
}
