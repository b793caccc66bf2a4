package errno

import "errors"

// Errno is a comparable error value carrying a stable code. Wrap it with
// fmt.Errorf("%w: ...") to attach a cause; errors.Is still matches.
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode extracts the code and message of the outermost Errno in err's chain.
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}

	return Internal.Code, err.Error()
}

// Common
var (
	OK       = Errno{Code: 0, Message: "success"}
	Internal = Errno{Code: 10001, Message: "internal error"}
)

// Wallet provider. 4001 is the code wallet extensions use for a declined request.
var (
	ErrProviderAbsent = Errno{Code: 20101, Message: "no wallet provider found"}
	ErrUserRejected   = Errno{Code: 4001, Message: "user rejected the request"}
	ErrNotConnected   = Errno{Code: 20102, Message: "wallet is not connected"}
)

// Network
var (
	ErrBalanceQueryFailed = Errno{Code: 30101, Message: "balance query failed"}
	ErrFundingRejected    = Errno{Code: 30201, Message: "funding request rejected"}
	ErrFundingTimeout     = Errno{Code: 30202, Message: "funding not confirmed before blockhash expiry"}
	ErrFundingUnverified  = Errno{Code: 30203, Message: "funded balance could not be verified"}
	ErrTransferRejected   = Errno{Code: 30301, Message: "transfer rejected"}
	ErrTransferTimeout    = Errno{Code: 30302, Message: "transfer not confirmed before blockhash expiry"}
)

// Requests
var (
	ErrInvalidAmount = Errno{Code: 40001, Message: "amount must be greater than zero"}
	ErrNoDestination = Errno{Code: 40002, Message: "no destination and no connected wallet"}
)
