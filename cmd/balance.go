package cmd

import (
	"context"
	"fmt"

	"github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/logger"
	"github.com/chinmay1088/lumen/network"
	sol "github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Check a Solana balance",
	Long: `Check the balance of any Solana address on the configured cluster.
Without an address the local wallet's own balance is shown.

Examples:
  lumen balance                                      # Your wallet
  lumen balance 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	var (
		address sol.PublicKey
		err     error
	)
	if len(args) == 1 {
		address, err = solana.ParseAddress(args[0])
		if err != nil {
			return err
		}
	} else {
		ks := openKeystore()
		if err := unlockKeystore(ks); err != nil {
			return err
		}
		address, err = ks.Address()
		ks.Lock()
		if err != nil {
			return fmt.Errorf("failed to get address: %w", err)
		}
	}

	client := network.NewClient(cfg.Network.RPCURL, network.WithLogger(logger.Named("network")))

	fmt.Println("💰 Balance")
	fmt.Printf("🌐 Network: %s\n", clusterName(client.Endpoint()))
	fmt.Println()

	balance, ok := client.GetBalance(context.Background(), address)
	if !ok {
		fmt.Println("❌ Solana: balance unavailable, try again in a moment")
		fmt.Printf("   📍 Address: %s\n", address)
		return nil
	}

	fmt.Printf("🟣 Solana: %s\n", solana.FormatBalance(balance))
	if balance == 0 {
		fmt.Printf("   ℹ️ Note: This account doesn't exist on-chain yet. Send SOL to this address to activate it.\n")
	}
	fmt.Printf("   📍 Address: %s\n", address)
	return nil
}
