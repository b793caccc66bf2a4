package session

import (
	"context"
	"errors"
	"testing"

	"github.com/chinmay1088/lumen/provider"
	"github.com/chinmay1088/lumen/provider/providertest"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttached(t *testing.T) (*Manager, *providertest.Mock) {
	t.Helper()
	mock := providertest.New(solana.NewWallet().PublicKey())
	m := NewManager(nil)
	snap := m.Attach(mock)
	require.Equal(t, StateDisconnected, snap.State)
	return m, mock
}

func TestConnectWithoutProviderIsNoop(t *testing.T) {
	m := NewManager(nil)

	snap := m.Connect(context.Background())
	assert.Equal(t, StateNoProvider, snap.State)
	assert.False(t, snap.Connected())

	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestConnectAccepted(t *testing.T) {
	m, mock := newAttached(t)

	snap := m.Connect(context.Background())
	assert.Equal(t, StateConnected, snap.State)
	assert.Equal(t, mock.Key, snap.Identity)
	assert.False(t, snap.Rejected)

	id, ok := m.Identity()
	assert.True(t, ok)
	assert.Equal(t, mock.Key, id)
	assert.True(t, mock.IsConnected())
}

func TestConnectRejectedIsAbsorbed(t *testing.T) {
	m, mock := newAttached(t)
	mock.Reject = true

	snap := m.Connect(context.Background())
	assert.Equal(t, StateDisconnected, snap.State)
	assert.True(t, snap.Rejected)
	assert.Equal(t, solana.PublicKey{}, snap.Identity)

	mock.Reject = false
	snap = m.Connect(context.Background())
	assert.Equal(t, StateConnected, snap.State)
	assert.False(t, snap.Rejected)
}

func TestConnectFailureIsAbsorbed(t *testing.T) {
	m, mock := newAttached(t)
	mock.ConnectErr = errors.New("extension crashed")

	snap := m.Connect(context.Background())
	assert.Equal(t, StateDisconnected, snap.State)
	assert.False(t, snap.Rejected)
}

func TestDisconnectAlwaysClears(t *testing.T) {
	for _, failing := range []bool{false, true} {
		m, mock := newAttached(t)
		require.True(t, m.Connect(context.Background()).Connected())
		if failing {
			mock.DisconnectErr = errors.New("extension unreachable")
		}

		snap := m.Disconnect(context.Background())
		assert.Equal(t, StateDisconnected, snap.State)
		assert.Equal(t, 1, mock.DisconnectCalls)

		_, ok := m.Identity()
		assert.False(t, ok)
	}
}

func TestConnectedIffLastTerminalWasSuccessfulConnect(t *testing.T) {
	m, mock := newAttached(t)
	ctx := context.Background()

	steps := []struct {
		action string
		reject bool
		want   bool
	}{
		{"connect", false, true},
		{"connect", false, true},
		{"disconnect", false, false},
		{"connect", true, false},
		{"disconnect", false, false},
		{"connect", false, true},
		{"connect", true, true},
		{"disconnect", false, false},
	}

	for i, s := range steps {
		mock.Reject = s.reject
		var snap Snapshot
		if s.action == "connect" {
			snap = m.Connect(ctx)
		} else {
			snap = m.Disconnect(ctx)
		}
		assert.Equal(t, s.want, snap.Connected(), "step %d (%s)", i, s.action)
		if snap.Connected() {
			assert.True(t, mock.IsConnected(), "step %d: session connected but provider is not", i)
		}
	}
}

func TestExtensionEvents(t *testing.T) {
	m, mock := newAttached(t)
	require.True(t, m.Connect(context.Background()).Connected())

	next := solana.NewWallet().PublicKey()
	mock.Emit(provider.EventAccountChanged, next)
	id, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, next, id)

	mock.Emit(provider.EventAccountChanged, nil)
	assert.Equal(t, StateDisconnected, m.Snapshot().State)

	require.True(t, m.Connect(context.Background()).Connected())
	mock.Emit(provider.EventDisconnect, nil)
	assert.Equal(t, StateDisconnected, m.Snapshot().State)
}

func TestAttachNilResets(t *testing.T) {
	m, _ := newAttached(t)
	require.True(t, m.Connect(context.Background()).Connected())

	snap := m.Attach(nil)
	assert.Equal(t, StateNoProvider, snap.State)
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestStaleProviderEventsIgnored(t *testing.T) {
	m, old := newAttached(t)
	fresh := providertest.New(solana.NewWallet().PublicKey())
	m.Attach(fresh)
	require.True(t, m.Connect(context.Background()).Connected())

	old.Emit(provider.EventDisconnect, nil)
	assert.True(t, m.Snapshot().Connected())
}

func TestReattachDoesNotStackHandlers(t *testing.T) {
	m, mock := newAttached(t)
	other := providertest.New(solana.NewWallet().PublicKey())

	for i := 0; i < 3; i++ {
		m.Attach(nil)
		m.Attach(mock)
		m.Attach(other)
		m.Attach(mock)
	}
	assert.Equal(t, 1, mock.Handlers(provider.EventDisconnect))
	assert.Equal(t, 1, mock.Handlers(provider.EventAccountChanged))
	assert.Equal(t, 1, other.Handlers(provider.EventDisconnect))

	// the single handler still serves the re-attached provider
	require.True(t, m.Connect(context.Background()).Connected())
	mock.Emit(provider.EventDisconnect, nil)
	assert.Equal(t, StateDisconnected, m.Snapshot().State)
}

func TestEventsFollowCurrentProvider(t *testing.T) {
	m, old := newAttached(t)
	fresh := providertest.New(solana.NewWallet().PublicKey())
	m.Attach(fresh)
	m.Attach(old)
	require.True(t, m.Connect(context.Background()).Connected())

	fresh.Emit(provider.EventDisconnect, nil)
	assert.True(t, m.Snapshot().Connected(), "replaced provider is ignored")

	old.Emit(provider.EventDisconnect, nil)
	assert.False(t, m.Snapshot().Connected())
}
