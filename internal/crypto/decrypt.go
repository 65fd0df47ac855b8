package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/model"
)

// ErrInvalidPassword is returned when authentication of the ciphertext fails
var ErrInvalidPassword = errors.New("invalid password")

// Open decrypts a record produced by Seal.
// password must be []byte for security (caller should zero it after use).
// The caller owns the returned plaintext and should clear it when done.
func Open(sealed, password []byte, params Params) ([]byte, error) {
	var record model.SealedRecord
	if err := json.Unmarshal(sealed, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sealed record: %w", err)
	}
	if record.Version != sealedVersion {
		return nil, fmt.Errorf("unsupported sealed record version %d", record.Version)
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(record.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(record.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(record.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt, params)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	return plaintext, nil
}
