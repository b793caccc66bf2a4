package provider

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// DisplayEncoding selects how a wallet renders a message for signing.
type DisplayEncoding string

const (
	DisplayUTF8 DisplayEncoding = "utf8"
	DisplayHex  DisplayEncoding = "hex"
)

// Event is a notification emitted by the wallet extension.
type Event string

const (
	EventConnect        Event = "connect"
	EventDisconnect     Event = "disconnect"
	EventAccountChanged Event = "accountChanged"
)

// Method names accepted by Provider.Request.
type Method string

const (
	MethodConnect             Method = "connect"
	MethodDisconnect          Method = "disconnect"
	MethodSignTransaction     Method = "signTransaction"
	MethodSignAllTransactions Method = "signAllTransactions"
	MethodSignMessage         Method = "signMessage"
)

// ConnectOpts mirrors the extension's connect options.
type ConnectOpts struct {
	// OnlyIfTrusted connects silently when the user approved this app
	// before, and fails with ErrUserRejected otherwise.
	OnlyIfTrusted bool
}

// Handler receives an event payload. For connect and accountChanged the
// payload is a solana.PublicKey, or nil when the account went away.
type Handler func(payload any)

// MessageSignature is the result of SignMessage.
type MessageSignature struct {
	PublicKey solana.PublicKey
	Signature solana.Signature
}

// Provider is the capability surface of an injected wallet extension.
type Provider interface {
	// IsPhantom is how the extension identifies itself to the locator.
	IsPhantom() bool
	PublicKey() (solana.PublicKey, bool)
	IsConnected() bool

	Connect(ctx context.Context, opts ConnectOpts) (solana.PublicKey, error)
	Disconnect(ctx context.Context) error

	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
	SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error)
	SignMessage(ctx context.Context, message []byte, display DisplayEncoding) (*MessageSignature, error)

	On(event Event, handler Handler)
	Request(ctx context.Context, method Method, params any) (any, error)
}
