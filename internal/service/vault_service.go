package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"ether-payment-gateway/config"
	"ether-payment-gateway/pkg/apperror"

	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/scrypt"
)

// VaultService implements ports.KeyVault. Custodial private keys are sealed
// with AES-256-GCM under a scrypt-derived key; plaintext key material exists
// only inside SignTransaction.
type VaultService struct {
	key []byte // 32-byte AES-256 key
}

// scrypt parameters, interactive-login strength. The derivation runs once at
// startup, not per request.
const (
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

// NewVaultService derives the vault key from the configured passphrase and
// salt.
func NewVaultService(cfg config.VaultConfig) (*VaultService, error) {
	if cfg.Passphrase == "" {
		return nil, fmt.Errorf("vault passphrase is required")
	}
	if cfg.Salt == "" {
		return nil, fmt.Errorf("vault salt is required")
	}

	key, err := scrypt.Key([]byte(cfg.Passphrase), []byte(cfg.Salt), scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("deriving vault key: %w", err)
	}
	return &VaultService{key: key}, nil
}

// Encrypt seals plaintext with AES-256-GCM.
// Returns hex-encoded: nonce + ciphertext.
func (s *VaultService) Encrypt(plaintext string) (string, error) {
	aesGCM, err := s.aead()
	if err != nil {
		return "", apperror.ErrVaultFailure(err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", apperror.ErrVaultFailure(fmt.Errorf("generating nonce: %w", err))
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// SignTransaction unseals the wallet key, signs the transaction for the given
// chain (EIP-155) and discards the key material before returning.
func (s *VaultService) SignTransaction(encryptedKey string, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	keyHex, err := s.decrypt(encryptedKey)
	if err != nil {
		return nil, apperror.ErrVaultFailure(err)
	}

	privateKey, err := ethcrypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, apperror.ErrVaultFailure(fmt.Errorf("parsing private key: %w", err))
	}
	defer privateKey.D.SetInt64(0)

	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), privateKey)
	if err != nil {
		return nil, apperror.ErrVaultFailure(fmt.Errorf("signing transaction: %w", err))
	}
	return signed, nil
}

// decrypt opens a hex-encoded AES-256-GCM ciphertext.
func (s *VaultService) decrypt(ciphertextHex string) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}

	aesGCM, err := s.aead()
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("opening ciphertext: %w", err)
	}
	return string(plaintext), nil
}

func (s *VaultService) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aesGCM, nil
}
