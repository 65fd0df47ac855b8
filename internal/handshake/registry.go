package handshake

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/channel"
	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an undecided session may stay open
	DefaultTTL = 10 * time.Minute

	// closedRetention keeps finished sessions around so the opener can pick up the result
	closedRetention = time.Minute
)

// Source selects the PayloadSource adapter of a sign session
type Source string

const (
	SourceStore   Source = "store"
	SourceURL     Source = "url"
	SourceMessage Source = "message"
)

// ParseSource validates a source name; empty means SourceMessage
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "":
		return SourceMessage, nil
	case SourceStore, SourceURL, SourceMessage:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: unknown payload source %q", ErrInvalidRequest, s)
}

// SignRequest is what an opener supplies to open a sign session
type SignRequest struct {
	Dapp   model.DappRequestContext
	Origin string
	Source Source
	// Kind and Payload are only used by SourceURL
	Kind    string
	Payload string
}

// KeyReader is the read side of the key store
type KeyReader interface {
	AddressReader
	WalletLoader
}

// Deps are the collaborators shared by all sessions
type Deps struct {
	Keys   KeyReader
	Signer Signer
	// Store backs SourceStore
	Store kvstore.Store
}

// Config tunes the registry
type Config struct {
	TTL            time.Duration
	PayloadTimeout time.Duration
	PollInterval   time.Duration
	OnFinish       FinishFunc
}

// Registry is the table of live sessions
type Registry struct {
	deps Deps
	cfg  Config

	mu       sync.Mutex
	sessions map[string]entry
}

type entry struct {
	handshake Handshake
	openedAt  time.Time
	// token authorizes the wallet side; the opener never sees it
	token string
	// dismissed sessions are gone for the wallet side but still hold
	// their envelope for the opener until retention passes
	dismissed bool
}

// NewRegistry creates an empty registry
func NewRegistry(deps Deps, cfg Config) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.PayloadTimeout <= 0 {
		cfg.PayloadTimeout = DefaultPayloadTimeout
	}
	return &Registry{
		deps:     deps,
		cfg:      cfg,
		sessions: make(map[string]entry),
	}
}

// OpenConnect opens a connect session
func (r *Registry) OpenConnect(ctx context.Context, dapp model.DappRequestContext, origin string) (*Connect, error) {
	token, err := newApprovalToken()
	if err != nil {
		return nil, err
	}
	c, err := NewConnect(ctx, r.options(dapp, origin, nil), r.deps.Keys)
	if err != nil {
		return nil, err
	}
	r.add(c, token)
	return c, nil
}

// OpenSign opens a sign session with the adapter named by req.Source
func (r *Registry) OpenSign(ctx context.Context, req SignRequest) (*Sign, error) {
	token, err := newApprovalToken()
	if err != nil {
		return nil, err
	}
	mb := channel.NewMailbox()

	var source PayloadSource
	switch req.Source {
	case SourceStore:
		if r.deps.Store == nil {
			return nil, fmt.Errorf("%w: shared store is not configured", ErrInvalidRequest)
		}
		source = &StoreSource{Store: r.deps.Store, Interval: r.cfg.PollInterval}
	case SourceURL:
		source = &URLSource{Kind: req.Kind, Payload: req.Payload}
	case SourceMessage, "":
		source = &MessageSource{Inbound: mb.Inbound(), Done: mb.Done()}
	default:
		return nil, fmt.Errorf("%w: unknown payload source %q", ErrInvalidRequest, req.Source)
	}

	s, err := NewSign(ctx, r.options(req.Dapp, req.Origin, mb), SignDeps{
		Source:  source,
		Wallets: r.deps.Keys,
		Signer:  r.deps.Signer,
		Timeout: r.cfg.PayloadTimeout,
	})
	if err != nil {
		return nil, err
	}
	r.add(s, token)
	return s, nil
}

func (r *Registry) options(dapp model.DappRequestContext, origin string, mb *channel.Mailbox) Options {
	return Options{
		ID:       uuid.NewString(),
		Dapp:     dapp,
		Origin:   origin,
		Mailbox:  mb,
		OnFinish: r.cfg.OnFinish,
	}
}

func (r *Registry) add(h Handshake, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.ID()] = entry{handshake: h, openedAt: time.Now(), token: token}
}

func newApprovalToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("failed to generate approval token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Get returns a session for its opener. Dismissed sessions stay reachable
// until retention passes so a held envelope can still be picked up.
func (r *Registry) Get(id string) (Handshake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.handshake, nil
}

// Authorize returns a session for the wallet side. token must be the one
// minted when the session was opened.
func (r *Registry) Authorize(id, token string) (Handshake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.dismissed {
		return nil, ErrNotFound
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(e.token)) != 1 {
		return nil, ErrApprovalDenied
	}
	return e.handshake, nil
}

// ApprovalToken returns the wallet-side token of a session
func (r *Registry) ApprovalToken(id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.dismissed {
		return "", ErrNotFound
	}
	return e.token, nil
}

// Close handles popup closure: an undecided session is cancelled and the
// session is dismissed. It is dropped once retention passes.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok || e.dismissed {
		return ErrNotFound
	}

	if err := e.handshake.Cancel(ctx); err != nil && !errors.Is(err, ErrHandshakeClosed) {
		return err
	}

	r.mu.Lock()
	if e, ok := r.sessions[id]; ok {
		e.dismissed = true
		r.sessions[id] = e
	}
	r.mu.Unlock()
	return nil
}

// Len returns the number of sessions in the table
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep cancels sessions older than the TTL and drops finished ones
// whose retention has passed. It returns how many sessions it expired or dropped.
func (r *Registry) Sweep(ctx context.Context, now time.Time) int {
	r.mu.Lock()
	var expired, finished []string
	for id, e := range r.sessions {
		closedAt := e.handshake.ClosedAt()
		switch {
		case !closedAt.IsZero() && now.Sub(closedAt) >= closedRetention:
			finished = append(finished, id)
		case closedAt.IsZero() && now.Sub(e.openedAt) >= r.cfg.TTL:
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		logger.FromContext(ctx).Info().Str("handshake_id", id).Msg("Handshake expired")
		if err := r.Close(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Error().Err(err).Str("handshake_id", id).Msg("Failed to close expired handshake")
		}
	}

	r.mu.Lock()
	for _, id := range finished {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	return len(expired) + len(finished)
}

// Run sweeps every interval until ctx is done, then cancels whatever is still open.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.Sweep(ctx, now)
		case <-ctx.Done():
			r.shutdown(context.WithoutCancel(ctx))
			return
		}
	}
}

func (r *Registry) shutdown(ctx context.Context) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		_ = r.Close(ctx, id)
	}

	r.mu.Lock()
	clear(r.sessions)
	r.mu.Unlock()
}
