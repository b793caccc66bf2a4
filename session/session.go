// Package session owns the connect/disconnect lifecycle against a wallet
// provider and the identity the user authorized.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/chinmay1088/lumen/errno"
	"github.com/chinmay1088/lumen/provider"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

type State int

const (
	StateNoProvider State = iota
	StateDisconnected
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateNoProvider:
		return "no-provider"
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// Snapshot is a copy of the session state. Identity is only set when State
// is StateConnected.
type Snapshot struct {
	State    State
	Identity solana.PublicKey
	// Rejected reports that the most recent connect attempt was declined
	// by the user. It is cleared by the next attempt.
	Rejected bool
}

// Connected reports whether the snapshot holds an authorized identity.
func (s Snapshot) Connected() bool {
	return s.State == StateConnected
}

// Manager is the only writer of the session.
type Manager struct {
	mu       sync.Mutex
	provider provider.Provider
	state    State
	identity solana.PublicKey
	rejected bool
	// gen increments on Attach so a connect racing a provider swap is dropped
	gen int
	// providers whose events this manager already listens to
	subscribed []provider.Provider
	log        *zap.Logger
}

// NewManager creates a manager in StateNoProvider
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{state: StateNoProvider, log: log}
}

// Attach binds a located provider, moving NoProvider to Disconnected.
// Attaching nil returns the manager to NoProvider and clears the session.
func (m *Manager) Attach(p provider.Provider) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.provider = p
	m.identity = solana.PublicKey{}
	m.rejected = false
	if p == nil {
		m.state = StateNoProvider
		return m.snapshotLocked()
	}

	m.state = StateDisconnected
	m.subscribeLocked(p)
	return m.snapshotLocked()
}

// subscribeLocked registers event handlers once per provider. Handlers stay
// registered after the provider is replaced and ignore events until it is
// attached again.
func (m *Manager) subscribeLocked(p provider.Provider) {
	for _, known := range m.subscribed {
		if provider.Same(known, p) {
			return
		}
	}
	m.subscribed = append(m.subscribed, p)
	p.On(provider.EventDisconnect, func(any) { m.onDisconnectEvent(p) })
	p.On(provider.EventAccountChanged, func(payload any) { m.onAccountChanged(p, payload) })
}

// Connect asks the provider to authorize this app. Rejection and every other
// failure leave the session Disconnected and are only logged; Connect never
// fails. Without a provider it is a no-op.
func (m *Manager) Connect(ctx context.Context) Snapshot {
	m.mu.Lock()
	p := m.provider
	if p == nil {
		defer m.mu.Unlock()
		return m.snapshotLocked()
	}
	if m.state == StateConnected {
		defer m.mu.Unlock()
		return m.snapshotLocked()
	}
	m.state = StateConnecting
	m.rejected = false
	gen := m.gen
	m.mu.Unlock()

	key, err := p.Connect(ctx, provider.ConnectOpts{})

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		// provider was swapped while the prompt was open
		return m.snapshotLocked()
	}

	if err != nil {
		m.state = StateDisconnected
		m.identity = solana.PublicKey{}
		if errors.Is(err, errno.ErrUserRejected) {
			m.rejected = true
			m.log.Info("connect rejected by user")
		} else {
			m.log.Warn("connect failed", zap.Error(err))
		}
		return m.snapshotLocked()
	}

	if key == (solana.PublicKey{}) || !p.IsConnected() {
		m.state = StateDisconnected
		m.identity = solana.PublicKey{}
		m.log.Warn("provider reported success without a connected account")
		return m.snapshotLocked()
	}

	m.state = StateConnected
	m.identity = key
	m.log.Info("wallet connected", zap.Stringer("identity", key))
	return m.snapshotLocked()
}

// Disconnect tears the session down. The local session is cleared even when
// the provider call fails; that failure is logged.
func (m *Manager) Disconnect(ctx context.Context) Snapshot {
	m.mu.Lock()
	p := m.provider
	m.mu.Unlock()

	if p == nil {
		return m.Snapshot()
	}

	if err := p.Disconnect(ctx); err != nil {
		m.log.Warn("provider disconnect failed, clearing session anyway", zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.provider != nil {
		m.state = StateDisconnected
	}
	m.identity = solana.PublicKey{}
	return m.snapshotLocked()
}

// Snapshot returns the current session state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Identity returns the authorized public key while connected.
func (m *Manager) Identity() (solana.PublicKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected {
		return solana.PublicKey{}, false
	}
	return m.identity, true
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{State: m.state, Rejected: m.rejected}
	if m.state == StateConnected {
		s.Identity = m.identity
	}
	return s
}

func (m *Manager) onDisconnectEvent(from provider.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !provider.Same(from, m.provider) || m.state != StateConnected {
		return
	}
	m.state = StateDisconnected
	m.identity = solana.PublicKey{}
	m.log.Info("wallet disconnected by extension")
}

func (m *Manager) onAccountChanged(from provider.Provider, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !provider.Same(from, m.provider) || m.state != StateConnected {
		return
	}

	key, ok := payload.(solana.PublicKey)
	if !ok || key == (solana.PublicKey{}) {
		m.state = StateDisconnected
		m.identity = solana.PublicKey{}
		m.log.Info("wallet account removed")
		return
	}
	m.identity = key
	m.log.Info("wallet account changed", zap.Stringer("identity", key))
}
