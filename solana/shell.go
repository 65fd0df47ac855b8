// Package solana holds the wallet shell use cases: wallet lifecycle,
// balance and token display, and SOL transfers.
package solana

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/client"
	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrNoWallet is returned when an operation needs a wallet and none exists
	ErrNoWallet = keystore.ErrNoWallet

	// ErrInvalidAddress is returned for a malformed recipient
	ErrInvalidAddress = errors.New("invalid Solana address")

	// ErrInvalidAmount is returned for a non-positive or unparsable amount
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when balance does not cover amount plus rent exemption
	ErrInsufficientFunds = errors.New("insufficient SOL balance")

	// ErrNetwork wraps failures of the ledger collaborator
	ErrNetwork = errors.New("ledger request failed")

	// ErrCooldownActive is matched by CooldownError
	ErrCooldownActive = errors.New("cooldown active")

	// ErrSecretExportDisabled is returned by ExportSecret unless enabled in config
	ErrSecretExportDisabled = errors.New("secret export is disabled")
)

// CooldownError is returned when a transfer comes too soon after the previous one
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, please wait %v", e.Remaining.Round(time.Second))
}

// Is makes errors.Is(err, ErrCooldownActive) hold
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// IsCooldownError checks if error is CooldownError
func IsCooldownError(err error) bool {
	var ce *CooldownError
	return errors.As(err, &ce)
}

// Ledger is the balance, token and transfer collaborator
type Ledger interface {
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	GetTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]client.TokenAccount, error)
	GetMinimumRentExemption(ctx context.Context) (uint64, error)
	SubmitTransfer(ctx context.Context, from solana.PrivateKey, to solana.PublicKey, lamports uint64) (solana.Signature, error)
}

// MetadataSource supplies the token registry
type MetadataSource interface {
	FetchMetadata(ctx context.Context) (map[string]model.TokenMetadata, error)
}

// PriceSource supplies the SOL fiat rate
type PriceSource interface {
	GetSOLRate(ctx context.Context, currency string) (string, error)
}

// Config tunes the shell
type Config struct {
	Cluster           string        // explorer cluster query, e.g. devnet
	Currency          string        // fiat currency, empty disables fiat display
	Cooldown          time.Duration // minimum time between transfers, 0 disables
	AllowSecretExport bool
}

// Shell is the primary wallet page
type Shell struct {
	keys     keystore.KeyStore
	ledger   Ledger
	metadata MetadataSource
	prices   PriceSource
	cfg      Config

	metaMu        sync.RWMutex
	tokenMetadata map[string]model.TokenMetadata

	payMu       sync.Mutex
	lastPayTime time.Time
	now         func() time.Time
}

// NewShell wires the shell. metadata and prices may be nil.
func NewShell(keys keystore.KeyStore, ledger Ledger, metadata MetadataSource, prices PriceSource, cfg Config) *Shell {
	return &Shell{
		keys:          keys,
		ledger:        ledger,
		metadata:      metadata,
		prices:        prices,
		cfg:           cfg,
		tokenMetadata: map[string]model.TokenMetadata{},
		now:           time.Now,
	}
}

// owner returns the wallet address as a public key
func (s *Shell) owner(ctx context.Context) (solana.PublicKey, error) {
	address, found, err := s.keys.Address(ctx)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !found {
		return solana.PublicKey{}, ErrNoWallet
	}
	return solana.PublicKeyFromBase58(address)
}

// isValidSolanaAddress validates a Solana address
func isValidSolanaAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}
