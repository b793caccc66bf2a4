package cmd

import (
	"fmt"
	"strings"

	"github.com/chinmay1088/lumen/config"
	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
)

// clusters lumen can be pointed at. Mainnet is left out on purpose: funding
// relies on airdrops.
var clusters = map[string]string{
	"devnet":   rpc.DevNet_RPC,
	"testnet":  rpc.TestNet_RPC,
	"localnet": rpc.LocalNet_RPC,
}

var networkCmd = &cobra.Command{
	Use:   "network [devnet|testnet|localnet|<rpc-url>]",
	Short: "Show or change the Solana cluster",
	Long: `Show the configured cluster or switch to another one. The choice is
saved as network.rpc_url in ~/.lumen/lumen.yaml; LUMEN_NETWORK_RPC_URL still
overrides it.

Examples:
  lumen network                          # Show current cluster
  lumen network testnet                  # Switch to testnet
  lumen network http://127.0.0.1:8899    # Use a custom RPC endpoint`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	// If no arguments provided, show current network
	if len(args) == 0 {
		fmt.Printf("🌐 Current network: %s\n", color.GreenString(clusterName(cfg.Network.RPCURL)))
		fmt.Printf("   RPC: %s\n", cfg.Network.RPCURL)
		return nil
	}

	target := strings.ToLower(args[0])
	url, ok := clusters[target]
	switch {
	case ok:
	case target == "mainnet" || target == "mainnet-beta":
		return fmt.Errorf("mainnet is not supported: lumen funds accounts with airdrops")
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		url = args[0]
	default:
		return fmt.Errorf("invalid network: %s. Use devnet, testnet, localnet or an RPC URL", args[0])
	}

	path, err := config.SaveRPCURL(url)
	if err != nil {
		return err
	}

	fmt.Printf("🌐 Switched to %s\n", color.GreenString(clusterName(url)))
	fmt.Printf("   RPC: %s\n", url)
	fmt.Printf("💡 Saved to %s\n", path)
	return nil
}

// clusterName maps a known RPC endpoint back to its cluster name.
func clusterName(url string) string {
	for name, known := range clusters {
		if url == known {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	if url == rpc.MainNetBeta_RPC {
		return "Mainnet"
	}
	return url
}
