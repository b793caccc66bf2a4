package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	ScryptN = 32768 // 2^15
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32 // AES-256 key length

	saltLen      = 32
	vaultVersion = 1
)

// ErrBadPassword is returned when a vault cannot be opened with a password.
var ErrBadPassword = errors.New("invalid password")

// Vault is a password-sealed mnemonic as stored on disk.
type Vault struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`

	// scrypt cost, recorded so older vaults stay readable if defaults change
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

type payload struct {
	Mnemonic string `json:"mnemonic"`
}

// Seal encrypts mnemonic under a key derived from password.
func Seal(mnemonic, password string) (*Vault, error) {
	v := &Vault{Version: vaultVersion, N: ScryptN, R: ScryptR, P: ScryptP}

	v.Salt = make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, v.Salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := v.aead(password)
	if err != nil {
		return nil, err
	}

	v.Nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, v.Nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	data, err := json.Marshal(payload{Mnemonic: mnemonic})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vault data: %w", err)
	}
	defer clearBytes(data)

	v.Data = aead.Seal(nil, v.Nonce, data, v.additionalData())
	return v, nil
}

// Open decrypts the mnemonic. A wrong password yields ErrBadPassword.
func (v *Vault) Open(password string) (string, error) {
	if v.Version != vaultVersion {
		return "", fmt.Errorf("unsupported vault version %d", v.Version)
	}

	aead, err := v.aead(password)
	if err != nil {
		return "", err
	}

	plain, err := aead.Open(nil, v.Nonce, v.Data, v.additionalData())
	if err != nil {
		return "", ErrBadPassword
	}
	defer clearBytes(plain)

	var p payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return "", fmt.Errorf("failed to deserialize vault data: %w", err)
	}
	return p.Mnemonic, nil
}

func (v *Vault) aead(password string) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(password), v.Salt, v.N, v.R, v.P, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// additionalData binds the ciphertext to the header fields.
func (v *Vault) additionalData() []byte {
	return []byte(fmt.Sprintf("lumen-vault:v%d:%d:%d:%d", v.Version, v.N, v.R, v.P))
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
