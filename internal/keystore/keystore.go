// Package keystore owns the one local keypair.
package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gagliardetto/solana-go"
)

// WalletKey is the fixed store key of the wallet record
const WalletKey = "wallet"

var (
	// ErrNoWallet is returned by operations that need a wallet when none exists
	ErrNoWallet = errors.New("wallet not created yet")

	// ErrCorruptWallet is returned when the stored address does not match the secret key
	ErrCorruptWallet = errors.New("stored wallet is inconsistent")
)

// KeyStore is the custody capability. Local keeps the key in a kvstore;
// other implementations (encrypted, hardware backed) satisfy the same contract.
type KeyStore interface {
	// Generate creates a fresh keypair and replaces any existing wallet.
	Generate(ctx context.Context) (*model.Wallet, error)
	// Load returns the wallet; found is false when none exists.
	Load(ctx context.Context) (w *model.Wallet, found bool, err error)
	// Address returns only the public address; found is false when none exists.
	Address(ctx context.Context) (address string, found bool, err error)
	// Delete removes the wallet. Idempotent.
	Delete(ctx context.Context) error
}

// Local is a KeyStore over a kvstore.Store
type Local struct {
	store kvstore.Store
}

// NewLocal creates a Local key store
func NewLocal(store kvstore.Store) *Local {
	return &Local{store: store}
}

// Generate generates a new Solana keypair and persists it with a single write.
func (k *Local) Generate(ctx context.Context) (*model.Wallet, error) {
	// Generate new Solana keypair
	wallet := solana.NewWallet()
	defer clear(wallet.PrivateKey)

	w := &model.Wallet{
		Address:          wallet.PublicKey().String(),
		SecretKeyEncoded: wallet.PrivateKey.String(),
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}
	defer clear(data)

	if err := k.store.Set(ctx, WalletKey, data); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return w, nil
}

// Load reads the wallet and checks that address and secret key agree
func (k *Local) Load(ctx context.Context) (*model.Wallet, bool, error) {
	data, err := k.store.Get(ctx, WalletKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read wallet: %w", err)
	}
	defer clear(data)

	var w model.Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	if err := Verify(&w); err != nil {
		return nil, false, err
	}
	return &w, true, nil
}

// Address reads only the address field so the secret never becomes a Go value here
func (k *Local) Address(ctx context.Context) (string, bool, error) {
	data, err := k.store.Get(ctx, WalletKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read wallet: %w", err)
	}
	defer clear(data)

	var rec struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}
	if _, err := solana.PublicKeyFromBase58(rec.Address); err != nil {
		return "", false, fmt.Errorf("%w: invalid address: %v", ErrCorruptWallet, err)
	}
	return rec.Address, true, nil
}

// Delete removes the wallet record unconditionally
func (k *Local) Delete(ctx context.Context) error {
	if err := k.store.Delete(ctx, WalletKey); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return nil
}

// Verify checks that w.Address is the public key embedded in w.SecretKeyEncoded
func Verify(w *model.Wallet) error {
	privateKey, err := solana.PrivateKeyFromBase58(w.SecretKeyEncoded)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptWallet, err)
	}
	defer clear(privateKey)

	address, err := solana.PublicKeyFromBase58(w.Address)
	if err != nil {
		return fmt.Errorf("%w: invalid address: %v", ErrCorruptWallet, err)
	}

	if !privateKey.PublicKey().Equals(address) {
		return fmt.Errorf("%w: private key does not match address", ErrCorruptWallet)
	}
	return nil
}
