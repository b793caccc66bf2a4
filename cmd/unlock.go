package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/chinmay1088/lumen/wallet"
	"golang.org/x/term"
)

const minPasswordLen = 8

func openKeystore() *wallet.Keystore {
	return wallet.NewKeystore(cfg.Wallet.VaultPath)
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// readNewPassword asks twice and enforces the minimum length.
func readNewPassword() (string, error) {
	password, err := readPassword("Enter a password for your wallet: ")
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// unlockKeystore prompts for the vault password. Keys stay in memory for
// the lifetime of this process only.
func unlockKeystore(ks *wallet.Keystore) error {
	if !ks.Exists() {
		return fmt.Errorf("no wallet found. Run 'lumen init' to create a new wallet")
	}
	if ks.Unlocked() {
		return nil
	}

	password, err := readPassword("Enter your wallet password: ")
	if err != nil {
		return err
	}

	if err := ks.Unlock(password); err != nil {
		if errors.Is(err, wallet.ErrNoVault) {
			return fmt.Errorf("no wallet found. Run 'lumen init' to create a new wallet")
		}
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}
	return nil
}
