package network

import (
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// DevnetRPC is the public Solana test network.
const DevnetRPC = rpc.DevNet_RPC

// Commitment is fixed for every query and confirmation this client makes.
const Commitment = rpc.CommitmentConfirmed

const DefaultPollInterval = 500 * time.Millisecond
