package handshake

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/internal/signer"

	"github.com/gagliardetto/solana-go"
)

// DefaultPayloadTimeout bounds payload acquisition
const DefaultPayloadTimeout = 30 * time.Second

// WalletLoader loads the stored wallet
type WalletLoader interface {
	Load(ctx context.Context) (*model.Wallet, bool, error)
}

// Signer is the signing capability a sign handshake needs
type Signer interface {
	Sign(payload []byte, w *model.Wallet) (solana.Signature, error)
	SignTransaction(payload []byte, w *model.Wallet) (*signer.SignedTransaction, error)
}

// SignDeps are the collaborators of a sign handshake
type SignDeps struct {
	Source  PayloadSource
	Wallets WalletLoader
	Signer  Signer
	// Timeout bounds payload acquisition, DefaultPayloadTimeout when zero
	Timeout time.Duration
}

// Sign asks the owner to sign a payload supplied by the opener.
type Sign struct {
	session
	deps SignDeps

	payload  *model.PendingPayload
	rendered string

	stopAcquire context.CancelFunc
	ready       chan struct{}
}

// NewSign creates the session in AwaitingPayload and starts acquisition.
// Acquisition outlives ctx's cancellation but keeps its values.
func NewSign(ctx context.Context, opts Options, deps SignDeps) (*Sign, error) {
	if deps.Source == nil || deps.Wallets == nil || deps.Signer == nil {
		return nil, fmt.Errorf("%w: sign handshake requires a payload source, wallet loader and signer", ErrInvalidRequest)
	}
	if err := opts.Dapp.Normalize(model.PermissionRequestSignature); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultPayloadTimeout
	}

	s := &Sign{
		deps:  deps,
		ready: make(chan struct{}),
	}
	s.init(model.HandshakeSign, opts)

	acquireCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deps.Timeout)
	s.stopAcquire = cancel
	s.state = model.StateAwaitingPayload

	go s.acquire(acquireCtx)
	return s, nil
}

// Ready is closed once acquisition has finished, whatever the outcome
func (s *Sign) Ready() <-chan struct{} {
	return s.ready
}

func (s *Sign) acquire(ctx context.Context) {
	defer close(s.ready)
	defer s.stopAcquire()

	p, err := s.deps.Source.Acquire(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}
	if err != nil {
		log := logger.FromContext(ctx)
		if errors.Is(err, context.Canceled) {
			return
		}
		reason := ReasonFor(err)
		log.Info().Err(err).Str("handshake_id", s.id).Str("reason", string(reason)).Msg("Payload acquisition failed")
		s.finish(ctx, model.StateFailed, reason, model.Failed(reason))
		return
	}

	s.payload = p
	s.rendered = Render(p)
	s.state = model.StateAwaitingUserChoice
}

// View is what the approval page shows
func (s *Sign) View() model.HandshakeView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.baseView()
	if s.payload != nil {
		v.PayloadKind = s.payload.Kind
		v.Payload = s.rendered
	}
	return v
}

// Approve signs in the mode the payload was tagged with and posts the result.
// Signing errors end the session in Failed; they are never retried.
func (s *Sign) Approve(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return ErrHandshakeClosed
	}
	if s.state != model.StateAwaitingUserChoice {
		return ErrNotReady
	}

	w, found, err := s.deps.Wallets.Load(ctx)
	if err != nil && !errors.Is(err, keystore.ErrCorruptWallet) {
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	if err == nil && !found {
		err = keystore.ErrNoWallet
	}
	if err != nil {
		reason := ReasonFor(err)
		s.finish(ctx, model.StateFailed, reason, model.Failed(reason))
		return nil
	}

	env, err := s.sign(w)
	if err != nil {
		reason := ReasonFor(err)
		logger.FromContext(ctx).Info().Err(err).Str("handshake_id", s.id).Msg("Signing failed")
		s.finish(ctx, model.StateFailed, reason, model.Failed(reason))
		return nil
	}

	s.finish(ctx, model.StateSigned, "", env)
	return nil
}

func (s *Sign) sign(w *model.Wallet) (model.Envelope, error) {
	switch s.payload.Kind {
	case model.PayloadTransaction:
		signed, err := s.deps.Signer.SignTransaction(s.payload.Data, w)
		if err != nil {
			return model.Envelope{}, err
		}
		return model.Envelope{
			Status:            model.StatusSigned,
			SignedTransaction: base64.StdEncoding.EncodeToString(signed.Serialized),
			Signature:         signed.Signature.String(),
		}, nil
	case model.PayloadMessage:
		sig, err := s.deps.Signer.Sign(s.payload.Data, w)
		if err != nil {
			return model.Envelope{}, err
		}
		return model.Envelope{Status: model.StatusSigned, Signature: sig.String()}, nil
	}
	return model.Envelope{}, fmt.Errorf("%w: unknown payload kind %q", ErrInvalidPayload, s.payload.Kind)
}

// Cancel posts Cancelled and aborts a pending acquisition.
func (s *Sign) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return ErrHandshakeClosed
	}
	s.stopAcquire()
	s.finish(ctx, model.StateCancelled, "", model.Cancelled())
	return nil
}
