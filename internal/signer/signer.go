// Package signer produces detached signatures and co-signed transactions
// for the wallet. It holds no state; key material is decoded per call and
// wiped afterwards.
package signer

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var (
	// ErrKeyDecode is returned when the encoded secret key is malformed
	ErrKeyDecode = errors.New("secret key decode failed")

	// ErrInvalidPayload is returned when there is nothing to sign
	ErrInvalidPayload = errors.New("payload must be a non-empty byte sequence")

	// ErrTransactionDecode is returned when the payload is not a transaction envelope
	ErrTransactionDecode = errors.New("payload is not a valid transaction")

	// ErrSignerMismatch is returned when the wallet is not a required signer of the transaction
	ErrSignerMismatch = errors.New("wallet is not a required signer of the transaction")
)

// SignedTransaction is the result of SignTransaction
type SignedTransaction struct {
	Serialized []byte           // wire transaction with the wallet's signature in place
	Signature  solana.Signature // the wallet's signature
}

// Service is the signing service
type Service struct{}

// New creates a signing service
func New() *Service {
	return &Service{}
}

// Sign produces a detached ed25519 signature over payload.
// The signature is deterministic for a given payload and key.
func (s *Service) Sign(payload []byte, w *model.Wallet) (solana.Signature, error) {
	if len(payload) == 0 {
		return solana.Signature{}, ErrInvalidPayload
	}

	key, err := decodeKey(w)
	if err != nil {
		return solana.Signature{}, err
	}
	defer clear(key) // Always clear private key from memory

	sig, err := key.Sign(payload)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign payload: %w", err)
	}
	return sig, nil
}

// SignTransaction decodes payload as a wire transaction, adds the wallet's
// signature in its slot and re-serializes. Other signers' slots are kept as is.
func (s *Service) SignTransaction(payload []byte, w *model.Wallet) (*SignedTransaction, error) {
	if len(payload) == 0 {
		return nil, ErrInvalidPayload
	}

	tx, err := DecodeTransaction(payload)
	if err != nil {
		return nil, err
	}

	key, err := decodeKey(w)
	if err != nil {
		return nil, err
	}
	defer clear(key) // Always clear private key from memory

	owner := key.PublicKey()
	if !tx.IsSigner(owner) {
		return nil, ErrSignerMismatch
	}

	_, err = tx.PartialSign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(owner) {
			return &key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	serialized, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	out := &SignedTransaction{Serialized: serialized}
	for i, pub := range tx.Message.Signers() {
		if pub.Equals(owner) && i < len(tx.Signatures) {
			out.Signature = tx.Signatures[i]
			break
		}
	}
	return out, nil
}

// DecodeTransaction parses a wire transaction and rejects trailing bytes
func DecodeTransaction(payload []byte) (*solana.Transaction, error) {
	decoder := bin.NewBinDecoder(payload)
	tx, err := solana.TransactionFromDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionDecode, err)
	}
	if decoder.HasRemaining() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrTransactionDecode, decoder.Remaining())
	}
	if tx.Message.Header.NumRequiredSignatures == 0 {
		return nil, fmt.Errorf("%w: no required signatures", ErrTransactionDecode)
	}
	return tx, nil
}

// decodeKey reconstructs the keypair from the wallet record
func decodeKey(w *model.Wallet) (solana.PrivateKey, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: no wallet", ErrKeyDecode)
	}

	raw, err := base58.Decode(w.SecretKeyEncoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDecode, err)
	}

	key := solana.PrivateKey(raw)
	if err := key.Validate(); err != nil {
		clear(raw)
		return nil, fmt.Errorf("%w: %v", ErrKeyDecode, err)
	}
	return key, nil
}
