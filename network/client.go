package network

// Network Client-
//
// Files:
//   config.go    - RPC endpoint and commitment constants
//   types.go     - RPC surface the client depends on
//   base.go      - Client struct, NewClient, options
//   solana.go    - balance, funding and transfer submission
//   confirm.go   - confirmation wait bounded by blockhash expiry
//
// Usage:
//   client := network.NewClient(network.DevnetRPC, network.WithLogger(log))
//   sig, err := client.RequestFunding(ctx, pubkey, 2*solana.LAMPORTS_PER_SOL)
//   lamports, ok := client.GetBalance(ctx, pubkey)
//   sig, err = client.SubmitTransfer(ctx, tx, signer)
