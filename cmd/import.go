package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the wallet from a recovery phrase",
	Long: `Restore the local wallet extension from an existing BIP-39 recovery
phrase (12 or 24 words) and seal it under a new password.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ks := openKeystore()

	if ks.Exists() {
		return fmt.Errorf("wallet already exists. Remove %s first", cfg.Wallet.VaultPath)
	}

	fmt.Println("📝 Import Wallet from Recovery Phrase")
	fmt.Println()

	fmt.Print("Enter recovery phrase: ")
	reader := bufio.NewReader(os.Stdin)
	mnemonic, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read mnemonic: %w", err)
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")

	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("invalid recovery phrase")
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}

	if err := ks.Import(mnemonic, password); err != nil {
		return fmt.Errorf("failed to import wallet: %w", err)
	}

	address, err := ks.Address()
	if err != nil {
		return fmt.Errorf("failed to derive address: %w", err)
	}

	fmt.Println("✅ Wallet imported successfully!")
	fmt.Printf("🟣 Solana address: %s\n", address)

	return nil
}
