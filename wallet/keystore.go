package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chinmay1088/lumen/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrVaultExists = errors.New("wallet already exists")
	ErrNoVault     = errors.New("no wallet found")
	ErrLocked      = errors.New("wallet is locked")
)

// Keystore is the extension's own key storage: one mnemonic sealed in a
// vault file. Keys live in memory only while unlocked.
type Keystore struct {
	vaultPath string

	mu  sync.RWMutex
	key solana.PrivateKey
}

func NewKeystore(vaultPath string) *Keystore {
	return &Keystore{vaultPath: vaultPath}
}

// Exists checks if a vault file exists
func (k *Keystore) Exists() bool {
	_, err := os.Stat(k.vaultPath)
	return err == nil
}

// Initialize creates a vault around a fresh 24-word mnemonic, leaves the
// keystore unlocked and returns the mnemonic for the user to write down.
func (k *Keystore) Initialize(password string) (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	if err := k.Import(mnemonic, password); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// Import seals an existing mnemonic into a new vault.
func (k *Keystore) Import(mnemonic, password string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("invalid mnemonic")
	}
	if k.Exists() {
		return ErrVaultExists
	}

	vault, err := crypto.Seal(mnemonic, password)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	if err := k.saveVault(vault); err != nil {
		return err
	}
	return k.load(mnemonic)
}

// Unlock opens the vault with password.
func (k *Keystore) Unlock(password string) error {
	vault, err := k.loadVault()
	if err != nil {
		return err
	}

	mnemonic, err := vault.Open(password)
	if err != nil {
		return err
	}
	return k.load(mnemonic)
}

// Lock drops key material from memory.
func (k *Keystore) Lock() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.key {
		k.key[i] = 0
	}
	k.key = nil
}

func (k *Keystore) Unlocked() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.key != nil
}

// SolanaKey returns the derived account key.
func (k *Keystore) SolanaKey() (solana.PrivateKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.key == nil {
		return nil, ErrLocked
	}
	return k.key, nil
}

// Address returns the derived account's public key.
func (k *Keystore) Address() (solana.PublicKey, error) {
	key, err := k.SolanaKey()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

func (k *Keystore) load(mnemonic string) error {
	seed := bip39.NewSeed(mnemonic, "")
	key, err := deriveSolanaKey(seed, SolDerivationPath)
	if err != nil {
		return fmt.Errorf("failed to derive Solana key: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.key = key
	return nil
}

func (k *Keystore) saveVault(vault *crypto.Vault) error {
	data, err := json.Marshal(vault)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(k.vaultPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(k.vaultPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	return nil
}

func (k *Keystore) loadVault() (*crypto.Vault, error) {
	data, err := os.ReadFile(k.vaultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoVault
		}
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	var vault crypto.Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vault: %w", err)
	}
	return &vault, nil
}
