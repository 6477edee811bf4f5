package service

import (
	"encoding/hex"
	"math/big"
	"testing"

	"ether-payment-gateway/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *VaultService {
	t.Helper()
	vault, err := NewVaultService(config.VaultConfig{
		Passphrase: "test-passphrase",
		Salt:       "test-salt",
	})
	require.NoError(t, err)
	return vault
}

func TestNewVaultService_RequiresPassphrase(t *testing.T) {
	_, err := NewVaultService(config.VaultConfig{Salt: "s"})
	assert.Error(t, err)

	_, err = NewVaultService(config.VaultConfig{Passphrase: "p"})
	assert.Error(t, err)
}

func TestVaultService_EncryptDecrypt(t *testing.T) {
	vault := newTestVault(t)

	plaintext := "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	sealed, err := vault.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := vault.decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestVaultService_Encrypt_NonDeterministic(t *testing.T) {
	vault := newTestVault(t)

	a, err := vault.Encrypt("same input")
	require.NoError(t, err)
	b, err := vault.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per seal")
}

func TestVaultService_Decrypt_WrongKey(t *testing.T) {
	vault := newTestVault(t)
	other, err := NewVaultService(config.VaultConfig{
		Passphrase: "different-passphrase",
		Salt:       "test-salt",
	})
	require.NoError(t, err)

	sealed, err := vault.Encrypt("secret")
	require.NoError(t, err)

	_, err = other.decrypt(sealed)
	assert.Error(t, err)
}

func TestVaultService_SignTransaction(t *testing.T) {
	vault := newTestVault(t)

	privateKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(privateKey.PublicKey)

	sealed, err := vault.Encrypt(hex.EncodeToString(ethcrypto.FromECDSA(privateKey)))
	require.NoError(t, err)

	chainID := big.NewInt(11155111)
	tx := types.NewTransaction(
		0,
		common.HexToAddress("0x0000000000000000000000000000000000000042"),
		big.NewInt(1_000_000_000_000_000),
		21000,
		big.NewInt(2_000_000_000),
		nil,
	)

	signed, err := vault.SignTransaction(sealed, tx, chainID)
	require.NoError(t, err)

	sender, err := types.Sender(types.NewEIP155Signer(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, address, sender)
}

func TestVaultService_SignTransaction_BadCiphertext(t *testing.T) {
	vault := newTestVault(t)

	tx := types.NewTransaction(0, common.Address{}, big.NewInt(1), 21000, big.NewInt(1), nil)
	_, err := vault.SignTransaction("not-hex", tx, big.NewInt(1))
	assert.Error(t, err)
}
