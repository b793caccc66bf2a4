package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local wallet extension",
	Long: `Initialize the local wallet extension with a secure recovery phrase.

This command will:
  - Generate a new 24-word recovery phrase
  - Create an encrypted vault
  - Derive your Solana account (m/44'/501'/0'/0')`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ks := openKeystore()

	// Check if wallet already exists
	if ks.Exists() {
		return fmt.Errorf("wallet already exists. Remove %s to create a new wallet", cfg.Wallet.VaultPath)
	}

	fmt.Println("🚀 Initializing Lumen Wallet")
	fmt.Println()

	password, err := readNewPassword()
	if err != nil {
		return err
	}

	fmt.Println("Generating wallet...")
	mnemonic, err := ks.Initialize(password)
	if err != nil {
		return fmt.Errorf("failed to initialize wallet: %w", err)
	}

	address, err := ks.Address()
	if err != nil {
		return fmt.Errorf("failed to derive address: %w", err)
	}

	fmt.Println("✅ Wallet initialized successfully!")
	fmt.Println()
	fmt.Println("🔐 Recovery Phrase (24 words):")
	fmt.Println()
	fmt.Printf("   %s\n", mnemonic)
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT:")
	fmt.Println("   - Write down this recovery phrase and store it securely")
	fmt.Println("   - Anyone with this phrase can access your funds")
	fmt.Println("   - This is the only way to recover your wallet")
	fmt.Println()
	fmt.Printf("🟣 Solana address: %s\n", address)
	fmt.Println()
	fmt.Println("🔑 Next steps:")
	fmt.Println("   - Run 'lumen run' to start a session")
	fmt.Println("   - Run 'lumen balance' to check your balance")

	return nil
}
