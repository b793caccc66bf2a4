package crypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSealOpen(t *testing.T) {
	v, err := Seal(testMnemonic, "correct horse")
	require.NoError(t, err)

	got, err := v.Open("correct horse")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got)
}

func TestOpenWrongPassword(t *testing.T) {
	v, err := Seal(testMnemonic, "correct horse")
	require.NoError(t, err)

	_, err = v.Open("battery staple")
	assert.ErrorIs(t, err, ErrBadPassword)
}

func TestVaultSurvivesJSON(t *testing.T) {
	v, err := Seal(testMnemonic, "pw")
	require.NoError(t, err)

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var loaded Vault
	require.NoError(t, json.Unmarshal(raw, &loaded))

	got, err := loaded.Open("pw")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got)
}

func TestTamperedHeaderFails(t *testing.T) {
	v, err := Seal(testMnemonic, "pw")
	require.NoError(t, err)

	v.P = 2
	_, err = v.Open("pw")
	assert.Error(t, err)
}
