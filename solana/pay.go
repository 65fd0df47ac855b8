package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/common"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gagliardetto/solana-go"
)

// SendTransfer sends amount SOL to toAddress. The amount is validated before
// any network call; the balance must cover amount plus the rent-exempt minimum.
func (s *Shell) SendTransfer(ctx context.Context, toAddress, amount string) (*model.TransferResponse, error) {
	w, found, err := s.keys.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if !found {
		return nil, ErrNoWallet
	}

	// Validate recipient address
	if !isValidSolanaAddress(toAddress) {
		return nil, ErrInvalidAddress
	}
	toPubkey := solana.MustPublicKeyFromBase58(toAddress)

	// Convert amount to lamports (string-based, no float precision loss)
	lamports, err := common.PositiveSOLToLamports(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	// Check cooldown
	s.payMu.Lock()
	defer s.payMu.Unlock()

	if !s.lastPayTime.IsZero() && s.cfg.Cooldown > 0 {
		if elapsed := s.now().Sub(s.lastPayTime); elapsed < s.cfg.Cooldown {
			return nil, &CooldownError{Remaining: s.cfg.Cooldown - elapsed}
		}
	}

	privateKey, err := solana.PrivateKeyFromBase58(w.SecretKeyEncoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	// Always clear private key from memory
	defer clear(privateKey)
	owner := privateKey.PublicKey()

	balance, err := s.ledger.GetBalance(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	rentExempt, err := s.ledger.GetMinimumRentExemption(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	// Check SOL sufficiency (amount + rent exemption)
	if lamports > balance || balance-lamports < rentExempt {
		return nil, &InsufficientFundsError{Balance: balance, RentExempt: rentExempt}
	}

	sig, err := s.ledger.SubmitTransfer(ctx, privateKey, toPubkey, lamports)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	// Save transaction time
	s.lastPayTime = s.now()

	return &model.TransferResponse{Signature: sig.String()}, nil
}

// InsufficientFundsError tells the user how much can be sent at most
type InsufficientFundsError struct {
	Balance    uint64
	RentExempt uint64
}

func (e *InsufficientFundsError) Error() string {
	var maxLamports uint64
	if e.Balance > e.RentExempt {
		maxLamports = e.Balance - e.RentExempt
	}
	return fmt.Sprintf("insufficient SOL balance. Rent exempt minimum: %s SOL. Max you can send: %s SOL",
		common.LamportsToSOL(e.RentExempt), common.LamportsToSOL(maxLamports))
}

// Is makes errors.Is(err, ErrInsufficientFunds) hold
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// IsInsufficientFundsError checks if error is InsufficientFundsError
func IsInsufficientFundsError(err error) bool {
	var ie *InsufficientFundsError
	return errors.As(err, &ie)
}
