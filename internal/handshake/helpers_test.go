package handshake

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/channel"
	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/internal/signer"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

type fakeKeys struct {
	mu     sync.Mutex
	wallet *model.Wallet
	err    error
}

func newFakeKeys(t *testing.T) *fakeKeys {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return &fakeKeys{wallet: &model.Wallet{
		Address:          key.PublicKey().String(),
		SecretKeyEncoded: key.String(),
	}}
}

func (k *fakeKeys) Address(context.Context) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return "", false, k.err
	}
	if k.wallet == nil {
		return "", false, nil
	}
	return k.wallet.Address, true, nil
}

func (k *fakeKeys) Load(context.Context) (*model.Wallet, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return nil, false, k.err
	}
	if k.wallet == nil {
		return nil, false, nil
	}
	w := *k.wallet
	return &w, true, nil
}

func (k *fakeKeys) remove() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.wallet = nil
}

// spySigner records calls and delegates to the real signer
type spySigner struct {
	mu    sync.Mutex
	calls int
	real  *signer.Service
}

func newSpySigner() *spySigner {
	return &spySigner{real: signer.New()}
}

func (s *spySigner) Sign(payload []byte, w *model.Wallet) (solana.Signature, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.real.Sign(payload, w)
}

func (s *spySigner) SignTransaction(payload []byte, w *model.Wallet) (*signer.SignedTransaction, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.real.SignTransaction(payload, w)
}

func (s *spySigner) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// staticSource hands out a fixed result, optionally after a gate opens
type staticSource struct {
	payload *model.PendingPayload
	err     error
	gate    chan struct{}
}

func (s *staticSource) Acquire(ctx context.Context) (*model.PendingPayload, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.payload, s.err
}

// subscribe attaches a test opener to mb
func subscribe(t *testing.T, mb *channel.Mailbox) <-chan model.Envelope {
	t.Helper()
	envelopes, detach, err := mb.Subscribe()
	require.NoError(t, err)
	t.Cleanup(detach)
	return envelopes
}

func receive(t *testing.T, envelopes <-chan model.Envelope) model.Envelope {
	t.Helper()
	select {
	case env := <-envelopes:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no envelope delivered")
	}
	return model.Envelope{}
}

func waitReady(t *testing.T, s *Sign) {
	t.Helper()
	select {
	case <-s.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("payload acquisition did not finish")
	}
}
