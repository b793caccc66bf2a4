package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// SolDerivationPath is the account path Solana wallets derive by default.
const SolDerivationPath = "m/44'/501'/0'/0'"

const hardenedOffset = 0x80000000

// deriveSolanaKey derives an ed25519 key from a BIP-39 seed along a fully
// hardened SLIP-10 path.
func deriveSolanaKey(seed []byte, path string) (solana.PrivateKey, error) {
	indexes, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	sum := hmacSHA512([]byte("ed25519 seed"), seed)
	key, chainCode := sum[:32], sum[32:]

	for _, index := range indexes {
		data := make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, index)

		sum = hmacSHA512(chainCode, data)
		key, chainCode = sum[:32], sum[32:]
	}

	return solana.PrivateKey(ed25519.NewKeyFromSeed(key)), nil
}

// parsePath accepts only hardened segments; ed25519 has no public derivation.
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid derivation path %q", path)
	}

	indexes := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if !strings.HasSuffix(part, "'") {
			return nil, fmt.Errorf("derivation path %q: segment %q must be hardened", path, part)
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(part, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("derivation path %q: %w", path, err)
		}
		indexes = append(indexes, uint32(n)+hardenedOffset)
	}
	return indexes, nil
}

func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}
