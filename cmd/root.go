package cmd

import (
	"fmt"

	"github.com/chinmay1088/lumen/config"
	"github.com/chinmay1088/lumen/logger"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "A Solana devnet wallet session playground",
	Long: `Lumen connects a local wallet extension, creates funded throwaway
accounts on the Solana devnet and moves SOL between them.

Features:
  • Local wallet extension with a BIP-39 recovery phrase
  • AES-256-GCM encrypted vault storage
  • Wallet connect/disconnect sessions with explicit approval
  • Airdrop-funded throwaway accounts, kept in memory only
  • Transfers confirmed before blockhash expiry

Examples:
  lumen init                      # Create the local wallet extension
  lumen address                   # Show the wallet address
  lumen balance <address>         # Check any devnet balance
  lumen network testnet           # Point lumen at another cluster
  lumen run                       # Start an interactive session`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		level := cfg.App.LogLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			level = "error"
		}
		return logger.Init(cfg.App.Env, level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Lumen v%s\n", version)
	},
}
