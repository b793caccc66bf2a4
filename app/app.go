package app

import (
	"context"
	"sync"

	"github.com/chinmay1088/lumen/account"
	"github.com/chinmay1088/lumen/network"
	"github.com/chinmay1088/lumen/provider"
	"github.com/chinmay1088/lumen/session"
	"github.com/chinmay1088/lumen/transfer"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// WalletTransfer is what TransferToWallet moves to the connected wallet.
const WalletTransfer uint64 = solana.LAMPORTS_PER_SOL

// Locator finds the wallet extension in the host environment.
type Locator interface {
	Locate() (provider.Provider, bool)
}

// NetworkFactory creates the network handle. It is called at most once.
type NetworkFactory func() *network.Client

type Option func(*App)

// WithNetworkFactory replaces the RPC-backed client, e.g. with one over an
// in-memory ledger.
func WithNetworkFactory(f NetworkFactory) Option {
	return func(a *App) {
		if f != nil {
			a.dial = f
		}
	}
}

// View is the state the shell renders.
type View struct {
	ProviderFound bool
	Session       session.Snapshot
	// Account is a copy of the most recently created account, nil before
	// the first successful CreateFundedAccount.
	Account  *account.ManagedAccount
	Endpoint string
}

type App struct {
	locator Locator
	dial    NetworkFactory
	funding uint64
	log     *zap.Logger

	session *session.Manager

	mu        sync.Mutex
	provider  provider.Provider
	network   *network.Client
	accounts  *account.Factory
	transfers *transfer.Service
	created   *account.ManagedAccount
}

func New(locator Locator, cfg Config, opts ...Option) *App {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	a := &App{
		locator: locator,
		funding: cfg.Funding,
		log:     cfg.Logger,
		session: session.NewManager(cfg.Logger.Named("session")),
	}
	a.dial = cfg.dialer()
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LocateProvider looks for the wallet extension and attaches it to the
// session. The first successful call also creates the network handle, which
// is kept for the rest of the process. Absence is a normal outcome.
func (a *App) LocateProvider() bool {
	p, ok := a.locator.Locate()

	a.mu.Lock()
	defer a.mu.Unlock()

	if !ok {
		if a.provider != nil {
			a.log.Info("wallet provider went away")
			a.provider = nil
			a.session.Attach(nil)
		}
		return false
	}

	if !provider.Same(p, a.provider) {
		a.provider = p
		a.session.Attach(p)
		a.log.Debug("wallet provider attached")
	}

	if a.network == nil {
		a.network = a.dial()
		a.accounts = account.NewFactory(a.network, a.log.Named("account"))
		a.transfers = transfer.NewService(a.network, a.session, a.log.Named("transfer"))
		a.log.Debug("network handle created", zap.String("endpoint", a.network.Endpoint()))
	}
	return true
}

// ConnectWallet asks the extension to authorize this app. It never fails;
// the outcome is in the returned snapshot.
func (a *App) ConnectWallet(ctx context.Context) session.Snapshot {
	return a.session.Connect(ctx)
}

func (a *App) DisconnectWallet(ctx context.Context) session.Snapshot {
	return a.session.Disconnect(ctx)
}

// CreateFundedAccount creates and funds a throwaway account, remembering it
// as the source for TransferToWallet. Without a network handle it returns
// nil, nil.
func (a *App) CreateFundedAccount(ctx context.Context) (*account.ManagedAccount, error) {
	accounts, _ := a.services()
	if accounts == nil {
		return nil, nil
	}

	acct, err := accounts.CreateFunded(ctx, a.funding)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.created = acct
	a.mu.Unlock()
	return acct, nil
}

// Transfer moves lamports from source to destination. A zero destination
// means the connected wallet. Without a network handle or a source it is a
// no-op.
func (a *App) Transfer(ctx context.Context, destination solana.PublicKey, lamports uint64, source *account.ManagedAccount) (solana.Signature, error) {
	_, transfers := a.services()
	if transfers == nil {
		return solana.Signature{}, nil
	}
	return transfers.Transfer(ctx, destination, lamports, source)
}

// TransferToWallet sends 1 SOL from the created account to the connected
// wallet.
func (a *App) TransferToWallet(ctx context.Context) (solana.Signature, error) {
	return a.TransferFromAccount(ctx, solana.PublicKey{}, WalletTransfer)
}

// TransferFromAccount sends lamports from the created account and refreshes
// its balance on success. A zero destination means the connected wallet.
func (a *App) TransferFromAccount(ctx context.Context, destination solana.PublicKey, lamports uint64) (solana.Signature, error) {
	a.mu.Lock()
	source := a.created
	a.mu.Unlock()

	sig, err := a.Transfer(ctx, destination, lamports, source)
	if err != nil || sig == (solana.Signature{}) {
		return sig, err
	}

	// refresh a copy so View and Balance are not blocked on the query
	accounts, _ := a.services()
	fresh := *source
	balance := accounts.Refresh(ctx, &fresh)

	a.mu.Lock()
	source.Balance = balance
	a.mu.Unlock()
	return sig, nil
}

// Balance is best-effort; ok is false when there is no network handle or
// the query failed.
func (a *App) Balance(ctx context.Context, account solana.PublicKey) (uint64, bool) {
	a.mu.Lock()
	n := a.network
	a.mu.Unlock()
	if n == nil {
		return 0, false
	}
	return n.GetBalance(ctx, account)
}

func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := View{
		ProviderFound: a.provider != nil,
		Session:       a.session.Snapshot(),
	}
	if a.network != nil {
		v.Endpoint = a.network.Endpoint()
	}
	if a.created != nil {
		acct := *a.created
		v.Account = &acct
	}
	return v
}

func (a *App) services() (*account.Factory, *transfer.Service) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accounts, a.transfers
}
