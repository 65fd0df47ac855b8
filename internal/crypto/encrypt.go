package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	sealedVersion = 1
	saltLen       = 32
	nonceLen      = 12
	keyLen        = 32
)

// Params are the scrypt cost parameters.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams are used for wallets at rest.
// Security is prioritized over performance
//
// N=2^18 (~256MB RAM, 0.5-2s) - optimal balance:
//   - Maximum security while remaining compatible with mobile devices
//   - Brute-force attacks remain extremely expensive
//
// Note: N=2^20 (~1GB) offers the highest security but fails on memory-limited hosts
var DefaultParams = Params{N: 1 << 18, R: 8, P: 1}

// Seal encrypts plaintext with a key derived from password.
// password must be []byte for security (caller should zero it after use)
func Seal(plaintext, password []byte, params Params) ([]byte, error) {
	if len(password) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return nil, err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	record := model.SealedRecord{
		Version:    sealedVersion,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	out, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sealed record: %w", err)
	}
	return out, nil
}

// newGCM derives the key from password and builds AES-GCM
func newGCM(password, salt []byte, params Params) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, keyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
