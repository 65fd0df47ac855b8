package handshake

import (
	"context"
	"testing"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, cfg Config) (*Registry, *fakeKeys, kvstore.Store) {
	t.Helper()
	keys := newFakeKeys(t)
	store := kvstore.NewMemoryStore()
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 5 * time.Millisecond
	}
	r := NewRegistry(Deps{Keys: keys, Signer: newSpySigner(), Store: store}, cfg)
	return r, keys, store
}

func TestRegistryOpenAndGet(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(t, Config{})

	c, err := r.OpenConnect(ctx, model.DappRequestContext{Name: "Jupiter"}, "https://jup.ag")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "https://jup.ag", c.Origin())

	h, err := r.Get(c.ID())
	require.NoError(t, err)
	assert.Equal(t, model.HandshakeConnect, h.Type())

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryAuthorize(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(t, Config{})

	c, err := r.OpenConnect(ctx, model.DappRequestContext{}, "https://jup.ag")
	require.NoError(t, err)
	other, err := r.OpenConnect(ctx, model.DappRequestContext{}, "https://jup.ag")
	require.NoError(t, err)

	token, err := r.ApprovalToken(c.ID())
	require.NoError(t, err)
	assert.Len(t, token, 43)
	otherToken, err := r.ApprovalToken(other.ID())
	require.NoError(t, err)
	assert.NotEqual(t, token, otherToken)

	h, err := r.Authorize(c.ID(), token)
	require.NoError(t, err)
	assert.Equal(t, c.ID(), h.ID())

	_, err = r.Authorize(c.ID(), "")
	assert.ErrorIs(t, err, ErrApprovalDenied)
	_, err = r.Authorize(c.ID(), otherToken)
	assert.ErrorIs(t, err, ErrApprovalDenied)
	_, err = r.Authorize("nope", token)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.ApprovalToken("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryCloseCancels(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(t, Config{})

	c, err := r.OpenConnect(ctx, model.DappRequestContext{}, "")
	require.NoError(t, err)
	envelopes := subscribe(t, c.Mailbox())

	token, err := r.ApprovalToken(c.ID())
	require.NoError(t, err)

	require.NoError(t, r.Close(ctx, c.ID()))
	assert.Equal(t, model.Cancelled(), receive(t, envelopes))
	assert.ErrorIs(t, r.Close(ctx, c.ID()), ErrNotFound)
	_, err = r.Authorize(c.ID(), token)
	assert.ErrorIs(t, err, ErrNotFound)

	// kept for the opener until retention passes
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, r.Sweep(ctx, time.Now().Add(2*closedRetention)))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryCloseKeepsHeldEnvelope(t *testing.T) {
	ctx := context.Background()
	r, keys, _ := newTestRegistry(t, Config{})
	keys.remove()

	// finishes at once with nobody attached yet
	c, err := r.OpenConnect(ctx, model.DappRequestContext{}, "")
	require.NoError(t, err)
	require.False(t, c.ClosedAt().IsZero())

	require.NoError(t, r.Close(ctx, c.ID()))

	h, err := r.Get(c.ID())
	require.NoError(t, err)
	envelopes := subscribe(t, h.Mailbox())
	assert.Equal(t, model.Cancelled(), receive(t, envelopes))
	assert.Equal(t, model.ReasonNoWallet, c.Reason())
}

func TestRegistryCloseAfterTerminal(t *testing.T) {
	ctx := context.Background()
	r, keys, _ := newTestRegistry(t, Config{})
	keys.remove()

	c, err := r.OpenConnect(ctx, model.DappRequestContext{}, "")
	require.NoError(t, err)
	envelopes := subscribe(t, c.Mailbox())

	// dismissing the no-wallet notice sends nothing more
	require.NoError(t, r.Close(ctx, c.ID()))
	assert.Equal(t, model.Cancelled(), receive(t, envelopes))
	assert.Empty(t, envelopes)
}

func TestRegistrySignFromStore(t *testing.T) {
	ctx := context.Background()
	r, _, store := newTestRegistry(t, Config{PayloadTimeout: time.Second})

	require.NoError(t, StorePending(ctx, store, model.PendingPayload{Kind: model.PayloadMessage, Data: []byte("gm")}))
	s, err := r.OpenSign(ctx, SignRequest{Source: SourceStore})
	require.NoError(t, err)
	waitReady(t, s)

	assert.Equal(t, model.StateAwaitingUserChoice, s.State())
	_, err = store.Get(ctx, PendingPayloadKey)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestRegistrySignFromMessage(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(t, Config{PayloadTimeout: time.Second})

	s, err := r.OpenSign(ctx, SignRequest{Source: SourceMessage})
	require.NoError(t, err)
	envelopes := subscribe(t, s.Mailbox())

	require.NoError(t, s.Mailbox().Deliver(model.OpenerMessage{Type: model.MessageSignMessage, Data: model.Bytes("gm")}))
	waitReady(t, s)
	require.NoError(t, s.Approve(ctx))
	assert.Equal(t, model.StatusSigned, receive(t, envelopes).Status)
}

func TestRegistryUnknownSource(t *testing.T) {
	r, _, _ := newTestRegistry(t, Config{})
	_, err := r.OpenSign(context.Background(), SignRequest{Source: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ParseSource("carrier-pigeon")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	src, err := ParseSource("")
	require.NoError(t, err)
	assert.Equal(t, SourceMessage, src)
}

func TestRegistrySweep(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(t, Config{TTL: time.Minute})

	open, err := r.OpenConnect(ctx, model.DappRequestContext{}, "")
	require.NoError(t, err)
	envelopes := subscribe(t, open.Mailbox())

	done, err := r.OpenConnect(ctx, model.DappRequestContext{}, "")
	require.NoError(t, err)
	require.NoError(t, done.Approve(ctx))

	assert.Equal(t, 0, r.Sweep(ctx, time.Now()))
	assert.Equal(t, 2, r.Len())

	assert.Equal(t, 2, r.Sweep(ctx, time.Now().Add(2*time.Minute)))
	assert.Equal(t, model.Cancelled(), receive(t, envelopes))

	// the expired session is retained like any other finished one
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, r.Sweep(ctx, time.Now().Add(3*time.Minute)))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryRunCancelsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, _, _ := newTestRegistry(t, Config{})

	c, err := r.OpenConnect(ctx, model.DappRequestContext{}, "")
	require.NoError(t, err)
	envelopes := subscribe(t, c.Mailbox())

	stopped := make(chan struct{})
	go func() {
		r.Run(ctx, time.Hour)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.Equal(t, model.Cancelled(), receive(t, envelopes))
	assert.Equal(t, 0, r.Len())
}
