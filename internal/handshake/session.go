// Package handshake implements the connect and sign approval flows. Each
// session is opened by a requester (the opener), inspected and decided by
// the wallet owner, and ends with exactly one envelope posted to the opener.
package handshake

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/channel"
	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"
)

// Handshake is the behaviour shared by connect and sign sessions
type Handshake interface {
	ID() string
	Type() model.HandshakeType
	Origin() string
	Mailbox() *channel.Mailbox
	View() model.HandshakeView
	Approve(ctx context.Context) error
	Cancel(ctx context.Context) error
	// ClosedAt is zero until the session reached a terminal state
	ClosedAt() time.Time
}

// FinishFunc observes terminal transitions
type FinishFunc func(t model.HandshakeType, state model.HandshakeState, reason model.Reason)

// Options are common to both session types
type Options struct {
	ID      string
	Dapp    model.DappRequestContext
	Origin  string
	Mailbox *channel.Mailbox
	// OnFinish is called once, with the session lock held
	OnFinish FinishFunc
}

type session struct {
	id       string
	kind     model.HandshakeType
	origin   string
	dapp     model.DappRequestContext
	mailbox  *channel.Mailbox
	onFinish FinishFunc

	mu       sync.Mutex
	state    model.HandshakeState
	reason   model.Reason
	notice   string
	closedAt time.Time
}

func (s *session) init(kind model.HandshakeType, opts Options) {
	s.id = opts.ID
	s.kind = kind
	s.origin = opts.Origin
	s.dapp = opts.Dapp
	s.mailbox = opts.Mailbox
	if s.mailbox == nil {
		s.mailbox = channel.NewMailbox()
	}
	s.onFinish = opts.OnFinish
	s.state = model.StateInit
}

func (s *session) ID() string { return s.id }

func (s *session) Type() model.HandshakeType { return s.kind }

func (s *session) Origin() string { return s.origin }

func (s *session) Mailbox() *channel.Mailbox { return s.mailbox }

func (s *session) ClosedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closedAt
}

// State returns the current state
func (s *session) State() model.HandshakeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reason returns the terminal reason, if any
func (s *session) Reason() model.Reason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// baseView must be called with s.mu held
func (s *session) baseView() model.HandshakeView {
	return model.HandshakeView{
		ID:       s.id,
		Type:     s.kind,
		State:    s.state,
		Dapp:     s.dapp,
		DappName: s.dapp.DisplayName(),
		Notice:   s.notice,
		Reason:   s.reason,
	}
}

// finish moves to a terminal state, posts env and closes the mailbox.
// When the opener is gone the session ends Cancelled{NoOpener} and nothing
// is surfaced to the caller. Must be called with s.mu held.
func (s *session) finish(ctx context.Context, state model.HandshakeState, reason model.Reason, env model.Envelope) {
	s.state = state
	s.reason = reason
	s.closedAt = time.Now()

	if err := s.mailbox.Post(ctx, env); err != nil {
		log := logger.FromContext(ctx)
		if errors.Is(err, channel.ErrNoOpener) {
			log.Warn().Str("handshake_id", s.id).Str("status", string(env.Status)).Msg("Opener is gone, result not delivered")
			s.state = model.StateCancelled
			s.reason = model.ReasonNoOpener
		} else {
			log.Error().Err(err).Str("handshake_id", s.id).Msg("Failed to post handshake result")
		}
	}
	s.mailbox.Close()

	if s.onFinish != nil {
		s.onFinish(s.kind, s.state, s.reason)
	}
}
