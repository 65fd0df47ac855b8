package handshake

import (
	"context"
	"errors"

	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/internal/signer"
)

var (
	// ErrNotFound is returned for an unknown or expired session id
	ErrNotFound = errors.New("handshake not found")

	// ErrHandshakeClosed is returned for any action after the terminal state
	ErrHandshakeClosed = errors.New("handshake is closed")

	// ErrApprovalDenied is returned when a wallet-side action lacks the session's approval token
	ErrApprovalDenied = errors.New("approval token missing or invalid")

	// ErrNotReady is returned when approving a sign request before its payload arrived
	ErrNotReady = errors.New("handshake is not awaiting a decision")

	// ErrInvalidRequest is returned when the opener's request cannot be served
	ErrInvalidRequest = errors.New("invalid handshake request")

	// ErrNoPayload is returned by a payload source that gave up waiting
	ErrNoPayload = errors.New("no payload was delivered")

	// ErrInvalidPayload is returned by a payload source for a malformed delivery
	ErrInvalidPayload = errors.New("malformed payload delivery")
)

// ReasonFor maps an error to the reason reported to the opener
func ReasonFor(err error) model.Reason {
	switch {
	case errors.Is(err, keystore.ErrNoWallet):
		return model.ReasonNoWallet
	case errors.Is(err, keystore.ErrCorruptWallet), errors.Is(err, signer.ErrKeyDecode):
		return model.ReasonKeyDecode
	case errors.Is(err, signer.ErrInvalidPayload), errors.Is(err, ErrInvalidPayload):
		return model.ReasonInvalidPayload
	case errors.Is(err, signer.ErrTransactionDecode):
		return model.ReasonTransactionDecode
	case errors.Is(err, signer.ErrSignerMismatch):
		return model.ReasonSignerMismatch
	case errors.Is(err, ErrNoPayload), errors.Is(err, context.DeadlineExceeded):
		return model.ReasonNoPayload
	}
	return model.ReasonInternal
}
