package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show wallet address",
	Long: `Show the Solana address of the local wallet extension.

Example:
  lumen address`,
	Args: cobra.NoArgs,
	RunE: runAddress,
}

func runAddress(cmd *cobra.Command, args []string) error {
	ks := openKeystore()
	if err := unlockKeystore(ks); err != nil {
		return err
	}
	defer ks.Lock()

	address, err := ks.Address()
	if err != nil {
		return fmt.Errorf("failed to get Solana address: %w", err)
	}

	fmt.Println("🔑 Your wallet address:")
	fmt.Printf("🌐 Network: %s\n", clusterName(cfg.Network.RPCURL))
	fmt.Println()
	fmt.Printf("🟣 Solana: %s\n", address)
	return nil
}
