package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chinmay1088/lumen/account"
	"github.com/chinmay1088/lumen/config"
	"github.com/chinmay1088/lumen/errno"
	"github.com/chinmay1088/lumen/network"
	"github.com/chinmay1088/lumen/network/networktest"
	"github.com/chinmay1088/lumen/provider"
	"github.com/chinmay1088/lumen/provider/providertest"
	"github.com/chinmay1088/lumen/session"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app    *App
	host   *provider.Host
	ledger *networktest.Ledger
	dials  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{host: provider.NewHost(), ledger: networktest.NewLedger()}
	f.app = New(provider.NewLocator(f.host), Config{}, WithNetworkFactory(func() *network.Client {
		f.dials++
		return network.NewClientWithRPC(f.ledger, network.WithPollInterval(time.Millisecond))
	}))
	return f
}

func (f *fixture) inject(t *testing.T) *providertest.Mock {
	t.Helper()
	mock := providertest.New(solana.NewWallet().PublicKey())
	f.host.Inject(provider.DefaultName, mock)
	require.True(t, f.app.LocateProvider())
	return mock
}

func TestProviderAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.app.LocateProvider())

	snap := f.app.ConnectWallet(ctx)
	assert.Equal(t, session.StateNoProvider, snap.State)
	assert.False(t, snap.Connected())

	acct, err := f.app.CreateFundedAccount(ctx)
	assert.NoError(t, err)
	assert.Nil(t, acct)

	sig, err := f.app.Transfer(ctx, solana.NewWallet().PublicKey(), 1, nil)
	assert.NoError(t, err)
	assert.Equal(t, solana.Signature{}, sig)

	_, ok := f.app.Balance(ctx, solana.NewWallet().PublicKey())
	assert.False(t, ok)

	v := f.app.View()
	assert.False(t, v.ProviderFound)
	assert.Nil(t, v.Account)
	assert.Zero(t, f.dials)
	assert.Zero(t, f.ledger.Airdrops)
}

func TestConnectReturnsProviderIdentity(t *testing.T) {
	f := newFixture(t)
	mock := f.inject(t)

	snap := f.app.ConnectWallet(context.Background())
	assert.True(t, snap.Connected())
	assert.Equal(t, mock.Key, snap.Identity)
	assert.Equal(t, mock.Key, f.app.View().Session.Identity)

	snap = f.app.DisconnectWallet(context.Background())
	assert.Equal(t, session.StateDisconnected, snap.State)
}

func TestConnectRejectedShowsInState(t *testing.T) {
	f := newFixture(t)
	mock := f.inject(t)
	mock.Reject = true

	snap := f.app.ConnectWallet(context.Background())
	assert.False(t, snap.Connected())
	assert.True(t, snap.Rejected)
}

func TestNetworkHandleCreatedOnce(t *testing.T) {
	f := newFixture(t)
	f.inject(t)
	assert.True(t, f.app.LocateProvider())
	assert.True(t, f.app.LocateProvider())
	assert.Equal(t, 1, f.dials)

	f.host.Remove(provider.DefaultName)
	assert.False(t, f.app.LocateProvider())
	assert.False(t, f.app.View().ProviderFound)

	f.inject(t)
	assert.Equal(t, 1, f.dials)
}

type taggedProvider struct {
	*providertest.Mock
	tags []string
}

func TestLocateProviderWithUncomparableProvider(t *testing.T) {
	f := newFixture(t)
	mock := providertest.New(solana.NewWallet().PublicKey())
	f.host.Inject(provider.DefaultName, taggedProvider{Mock: mock, tags: []string{"beta"}})

	require.True(t, f.app.LocateProvider())
	require.True(t, f.app.ConnectWallet(context.Background()).Connected())

	assert.NotPanics(t, func() {
		assert.True(t, f.app.LocateProvider())
		assert.True(t, f.app.LocateProvider())
	})
	assert.True(t, f.app.View().Session.Connected(), "re-locating the same provider keeps the session")
	assert.Equal(t, 1, f.dials)
}

func TestCreateFundedAccount(t *testing.T) {
	f := newFixture(t)
	f.inject(t)

	acct, err := f.app.CreateFundedAccount(context.Background())
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, uint64(2*solana.LAMPORTS_PER_SOL), acct.Balance)

	v := f.app.View()
	require.NotNil(t, v.Account)
	assert.Equal(t, acct.PublicKey(), v.Account.PublicKey())
}

func TestCreateFundedAccountTimeoutIsAbsence(t *testing.T) {
	f := newFixture(t)
	f.inject(t)
	f.ledger.Drop = true
	f.ledger.ValidFor = 3

	done := make(chan struct{})
	var (
		acct *account.ManagedAccount
		err  error
	)
	go func() {
		defer close(done)
		acct, err = f.app.CreateFundedAccount(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("CreateFundedAccount did not resolve")
	}
	assert.Nil(t, acct)
	assert.ErrorIs(t, err, errno.ErrFundingTimeout)
	assert.Nil(t, f.app.View().Account)
}

func TestTransferToWalletRoundTrip(t *testing.T) {
	f := newFixture(t)
	mock := f.inject(t)
	ctx := context.Background()

	require.True(t, f.app.ConnectWallet(ctx).Connected())
	acct, err := f.app.CreateFundedAccount(ctx)
	require.NoError(t, err)

	before, ok := f.app.Balance(ctx, mock.Key)
	require.True(t, ok)

	sig, err := f.app.TransferToWallet(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, solana.Signature{}, sig)

	after, ok := f.app.Balance(ctx, mock.Key)
	require.True(t, ok)
	assert.Equal(t, WalletTransfer, after-before)

	// source paid the amount plus one signature's fee, and the view shows it
	want := 2*solana.LAMPORTS_PER_SOL - WalletTransfer - networktest.DefaultFee
	assert.Equal(t, want, acct.Balance)
	assert.Equal(t, want, f.app.View().Account.Balance)
}

// gatedLedger blocks GetBalance once armed, until released.
type gatedLedger struct {
	*networktest.Ledger
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedLedger) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.Ledger.GetBalance(ctx, account, commitment)
}

func TestViewNotBlockedByBalanceRefresh(t *testing.T) {
	gated := &gatedLedger{
		Ledger:  networktest.NewLedger(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	host := provider.NewHost()
	a := New(provider.NewLocator(host), Config{}, WithNetworkFactory(func() *network.Client {
		return network.NewClientWithRPC(gated, network.WithPollInterval(time.Millisecond))
	}))
	host.Inject(provider.DefaultName, providertest.New(solana.NewWallet().PublicKey()))
	require.True(t, a.LocateProvider())

	ctx := context.Background()
	require.True(t, a.ConnectWallet(ctx).Connected())
	_, err := a.CreateFundedAccount(ctx)
	require.NoError(t, err)

	gated.armed.Store(true)
	sent := make(chan error, 1)
	go func() {
		_, err := a.TransferToWallet(ctx)
		sent <- err
	}()

	select {
	case <-gated.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("balance refresh never started")
	}

	viewed := make(chan View, 1)
	go func() { viewed <- a.View() }()
	select {
	case v := <-viewed:
		require.NotNil(t, v.Account)
		assert.Equal(t, uint64(2*solana.LAMPORTS_PER_SOL), v.Account.Balance, "old balance until the refresh lands")
	case <-time.After(2 * time.Second):
		t.Fatal("View blocked while the balance was being refreshed")
	}

	close(gated.release)
	require.NoError(t, <-sent)
	want := 2*solana.LAMPORTS_PER_SOL - WalletTransfer - networktest.DefaultFee
	assert.Equal(t, want, a.View().Account.Balance)
}

func TestTransferToWalletWithoutAccount(t *testing.T) {
	f := newFixture(t)
	f.inject(t)

	sig, err := f.app.TransferToWallet(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, solana.Signature{}, sig)
	assert.Zero(t, f.ledger.Sends)
}

func TestTransferWithoutConnectedWallet(t *testing.T) {
	f := newFixture(t)
	f.inject(t)
	ctx := context.Background()

	_, err := f.app.CreateFundedAccount(ctx)
	require.NoError(t, err)

	_, err = f.app.TransferToWallet(ctx)
	assert.ErrorIs(t, err, errno.ErrNoDestination)
	assert.Zero(t, f.ledger.Sends)
}

func TestTransferFromAccountToAddress(t *testing.T) {
	f := newFixture(t)
	f.inject(t)
	ctx := context.Background()

	_, err := f.app.CreateFundedAccount(ctx)
	require.NoError(t, err)

	dest := solana.NewWallet().PublicKey()
	_, err = f.app.TransferFromAccount(ctx, dest, 1500)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), f.ledger.Balance(dest))

	_, err = f.app.TransferFromAccount(ctx, dest, 0)
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)
}

func TestWireParsesFunding(t *testing.T) {
	cfg := &config.Config{}
	cfg.Funding.AmountSOL = "0.5"

	a, err := Wire(cfg, provider.NewHost(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(solana.LAMPORTS_PER_SOL/2), a.funding)

	cfg.Funding.AmountSOL = "lots"
	_, err = Wire(cfg, provider.NewHost(), nil)
	assert.Error(t, err)
}
