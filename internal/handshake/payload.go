package handshake

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"
)

// PendingPayloadKey is the shared store key an opener writes a payload under
const PendingPayloadKey = "pendingPayload"

// DefaultPollInterval is how often StoreSource checks the shared store
const DefaultPollInterval = 250 * time.Millisecond

// PayloadSource delivers the payload a sign handshake asks the owner to approve.
// Acquire blocks until a payload arrives or ctx is done.
type PayloadSource interface {
	Acquire(ctx context.Context) (*model.PendingPayload, error)
}

// StoreSource reads the record the opener left in the shared store and consumes it.
type StoreSource struct {
	Store    kvstore.Store
	Interval time.Duration
}

// Acquire polls until the record appears
func (s *StoreSource) Acquire(ctx context.Context) (*model.PendingPayload, error) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		data, err := s.Store.Get(ctx, PendingPayloadKey)
		switch {
		case err == nil:
			// read at most once
			if err := s.Store.Delete(ctx, PendingPayloadKey); err != nil {
				return nil, fmt.Errorf("failed to consume pending payload: %w", err)
			}
			return decodePending(data)
		case !errors.Is(err, kvstore.ErrNotFound):
			return nil, fmt.Errorf("failed to read pending payload: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// StorePending validates p and writes it for a StoreSource to pick up
func StorePending(ctx context.Context, store kvstore.Store, p model.PendingPayload) error {
	if err := validatePending(&p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pending payload: %w", err)
	}
	if err := store.Set(ctx, PendingPayloadKey, data); err != nil {
		return fmt.Errorf("failed to store pending payload: %w", err)
	}
	return nil
}

func decodePending(data []byte) (*model.PendingPayload, error) {
	var p model.PendingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validatePending(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func validatePending(p *model.PendingPayload) error {
	kind, err := model.ParsePayloadKind(string(p.Kind))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(p.Data) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidPayload)
	}
	p.Kind = kind
	return nil
}

// URLSource carries a payload passed as base64 in the opening URL.
type URLSource struct {
	Kind    string
	Payload string
}

// Acquire decodes the URL parameters; it never waits
func (s *URLSource) Acquire(_ context.Context) (*model.PendingPayload, error) {
	if s.Payload == "" {
		return nil, ErrNoPayload
	}
	data, err := decodeBase64(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	p := &model.PendingPayload{Kind: model.PayloadKind(s.Kind), Data: data}
	if err := validatePending(p); err != nil {
		return nil, err
	}
	return p, nil
}

// decodeBase64 accepts standard and URL alphabets, padded or not
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	encodings := []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// MessageSource waits for a signTransaction or signMessage message from the opener.
type MessageSource struct {
	Inbound <-chan model.OpenerMessage
	Done    <-chan struct{}
}

// Acquire returns the first sign message; other message types are ignored
func (s *MessageSource) Acquire(ctx context.Context) (*model.PendingPayload, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.Done:
			return nil, ErrNoPayload
		case msg := <-s.Inbound:
			var kind model.PayloadKind
			switch msg.Type {
			case model.MessageSignTransaction:
				kind = model.PayloadTransaction
			case model.MessageSignMessage:
				kind = model.PayloadMessage
			default:
				logger.FromContext(ctx).Debug().Str("type", msg.Type).Msg("Ignoring opener message")
				continue
			}

			p := &model.PendingPayload{Kind: kind, Data: msg.Data}
			if err := validatePending(p); err != nil {
				return nil, err
			}
			return p, nil
		}
	}
}
