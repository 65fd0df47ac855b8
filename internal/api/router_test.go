package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/client"
	"github.com/AlexZinkM/wallet-connect/internal/handler"
	"github.com/AlexZinkM/wallet-connect/internal/handshake"
	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/metrics"
	"github.com/AlexZinkM/wallet-connect/internal/middleware"
	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/internal/signer"
	"github.com/AlexZinkM/wallet-connect/pkg/connect"
	walletsolana "github.com/AlexZinkM/wallet-connect/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLedger struct{}

func (nopLedger) GetBalance(context.Context, solana.PublicKey) (uint64, error) { return 0, nil }

func (nopLedger) GetTokenAccounts(context.Context, solana.PublicKey) ([]client.TokenAccount, error) {
	return nil, nil
}

func (nopLedger) GetMinimumRentExemption(context.Context) (uint64, error) { return 0, nil }

func (nopLedger) SubmitTransfer(context.Context, solana.PrivateKey, solana.PublicKey, uint64) (solana.Signature, error) {
	return solana.Signature{}, nil
}

type agent struct {
	srv      *httptest.Server
	wallet   *model.Wallet
	registry *handshake.Registry
}

func newAgent(t *testing.T, limiter *middleware.RateLimiter) *agent {
	t.Helper()

	var router http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	store := kvstore.NewMemoryStore()
	keys := keystore.NewLocal(store)
	w, err := keys.Generate(context.Background())
	require.NoError(t, err)

	m := metrics.New()
	registry := handshake.NewRegistry(
		handshake.Deps{Keys: keys, Signer: signer.New(), Store: store},
		handshake.Config{PayloadTimeout: 5 * time.Second, PollInterval: 10 * time.Millisecond, OnFinish: m.HandshakeFinished},
	)

	router = SetupRouter(Deps{
		Wallet:     handler.NewWalletHandler(walletsolana.NewShell(keys, nopLedger{}, nil, nil, walletsolana.Config{})),
		Handshakes: handler.NewHandshakeHandler(registry, store, handler.HandshakeConfig{PublicURL: srv.URL}),
		Metrics:    m,
		Limiter:    limiter,
		PublicURL:  srv.URL,
	})

	return &agent{srv: srv, wallet: w, registry: registry}
}

// owner is the wallet side of request id, holding its approval token
func (a *agent) owner(t *testing.T, id string) *connect.Approval {
	t.Helper()
	token, err := a.registry.ApprovalToken(id)
	require.NoError(t, err)
	return connect.New(a.srv.URL).Approval(id, token)
}

func (a *agent) post(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Post(a.srv.URL+path, "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *agent) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(a.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *agent) waitState(t *testing.T, id string, want model.HandshakeState) {
	t.Helper()
	owner := a.owner(t, id)
	require.Eventually(t, func() bool {
		v, err := owner.View(context.Background())
		return err == nil && v.State == want
	}, 5*time.Second, 20*time.Millisecond)
}

func (a *agent) send(t *testing.T, method, path, contentType, body string, header ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestConnectEndToEnd(t *testing.T) {
	a := newAgent(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := connect.New(a.srv.URL, connect.WithOrigin("https://dapp.example"))
	s, err := c.Connect(ctx, model.DappRequestContext{Name: "End To End"})
	require.NoError(t, err)
	defer s.Close()

	_, err = a.owner(t, s.ID).Approve(ctx)
	require.NoError(t, err)

	env, err := s.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Connected(a.wallet.Address), env)
}

func TestSignTransactionEndToEnd(t *testing.T) {
	a := newAgent(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payer := solana.MustPublicKeyFromBase58(a.wallet.Address)
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1000, payer, solana.NewWallet().PublicKey()).Build()},
		solana.Hash{7},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	c := connect.New(a.srv.URL)
	s, err := c.Sign(ctx, model.DappRequestContext{Name: "Swap"}, connect.SignOptions{
		Kind:    model.PayloadTransaction,
		Payload: raw,
	})
	require.NoError(t, err)
	defer s.Close()

	a.waitState(t, s.ID, model.StateAwaitingUserChoice)
	_, err = a.owner(t, s.ID).Approve(ctx)
	require.NoError(t, err)

	env, err := s.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, model.StatusSigned, env.Status)

	signed, err := base64.StdEncoding.DecodeString(env.SignedTransaction)
	require.NoError(t, err)
	decoded, err := solana.TransactionFromBytes(signed)
	require.NoError(t, err)
	require.NoError(t, decoded.VerifySignatures())
	assert.Equal(t, decoded.Signatures[0].String(), env.Signature)
}

func TestSignCancelledFromStore(t *testing.T) {
	a := newAgent(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := connect.New(a.srv.URL)
	s, err := c.Sign(ctx, model.DappRequestContext{}, connect.SignOptions{
		Source:  connect.SourceStore,
		Kind:    model.PayloadMessage,
		Payload: []byte("log in"),
	})
	require.NoError(t, err)
	defer s.Close()

	a.waitState(t, s.ID, model.StateAwaitingUserChoice)
	_, err = a.owner(t, s.ID).Cancel(ctx)
	require.NoError(t, err)

	env, err := s.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Cancelled(), env)

	body, err := io.ReadAll(a.get(t, "/metrics").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `walletd_handshakes_total{reason="",state="cancelled",type="sign"} 1`)
}

func TestAmbientRoutes(t *testing.T) {
	a := newAgent(t, nil)

	resp := a.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp = a.get(t, "/swagger/doc.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.get(t, "/no-such-route")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(a.get(t, "/metrics").Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `walletd_http_requests_total{code="200",route="GET /healthz"} 1`)
	assert.Contains(t, string(body), `route="unmatched"`)
}

func TestOpenersAreRateLimited(t *testing.T) {
	a := newAgent(t, middleware.NewRateLimiter(1, 1))

	assert.Equal(t, http.StatusCreated, a.post(t, "/connect").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, a.post(t, "/connect").StatusCode)

	// the popup endpoints are not limited
	assert.Equal(t, http.StatusOK, a.get(t, "/healthz").StatusCode)
	assert.Equal(t, http.StatusOK, a.get(t, "/wallet").StatusCode)
}

func TestOpenerCannotApproveItself(t *testing.T) {
	const origin = "https://evil.example"
	a := newAgent(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := connect.New(a.srv.URL, connect.WithOrigin(origin))
	s, err := c.Sign(ctx, model.DappRequestContext{Name: "Drainer"}, connect.SignOptions{
		Source:  connect.SourceURL,
		Kind:    model.PayloadMessage,
		Payload: []byte("transfer everything"),
	})
	require.NoError(t, err)
	defer s.Close()
	a.waitState(t, s.ID, model.StateAwaitingUserChoice)

	// the opener knows the id and its own origin, nothing else
	resp := a.send(t, http.MethodPost, "/handshakes/"+s.ID+"/approve", "", "", "Origin", origin)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = a.send(t, http.MethodPost, "/handshakes/"+s.ID+"/approve", "", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = a.send(t, http.MethodGet, "/handshakes/"+s.ID, "", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// even a stolen token is refused from the opener's page
	token, err := a.registry.ApprovalToken(s.ID)
	require.NoError(t, err)
	resp = a.send(t, http.MethodPost, "/handshakes/"+s.ID+"/approve", "", "", "Origin", origin, handler.ApprovalTokenHeader, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	v, err := a.owner(t, s.ID).View(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StateAwaitingUserChoice, v.State)

	_, err = a.owner(t, s.ID).Cancel(ctx)
	require.NoError(t, err)
	env, err := s.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Cancelled(), env)
}

func TestWalletRejectsCrossSiteRequests(t *testing.T) {
	a := newAgent(t, nil)
	to := solana.NewWallet().PublicKey().String()
	transfer := `{"toAddress":"` + to + `","amount":"0.5"}`

	resp := a.send(t, http.MethodPost, "/wallet", "", "", "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = a.send(t, http.MethodPost, "/wallet/transfer", "text/plain", transfer, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = a.send(t, http.MethodDelete, "/wallet", "", "", "Origin", "null")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the key was left alone
	resp = a.get(t, "/wallet")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.WalletResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, a.wallet.Address, got.Address)

	// a form post from the wallet's own page still has to be JSON
	resp = a.send(t, http.MethodPost, "/wallet/transfer", "text/plain", transfer, "Origin", a.srv.URL)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp = a.send(t, http.MethodGet, "/wallet", "", "", "Origin", a.srv.URL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
