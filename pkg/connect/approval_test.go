package connect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApproval(t *testing.T) {
	a, err := ParseApproval("http://127.0.0.1:8080/agent/handshakes/abc?token=s3cret")
	require.NoError(t, err)
	assert.Equal(t, "abc", a.ID())
	assert.Equal(t, "http://127.0.0.1:8080/agent", a.client.baseURL)
	assert.Equal(t, "s3cret", a.token)

	for _, link := range []string{
		"http://127.0.0.1:8080/handshakes/abc",
		"http://127.0.0.1:8080/handshakes/?token=x",
		"http://127.0.0.1:8080/handshakes/abc/approve?token=x",
		"/handshakes/abc?token=x",
		"http://127.0.0.1:8080/wallet?token=x",
	} {
		_, err := ParseApproval(link)
		assert.ErrorIs(t, err, ErrInvalidApprovalURL, link)
	}
}

func TestApprovalSendsToken(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get("X-Approval-Token"))
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.HandshakeView{ID: "abc", State: model.StateApproved})
	}))
	defer srv.Close()

	ctx := context.Background()
	a := New(srv.URL).Approval("abc", "s3cret")

	v, err := a.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", v.ID)
	_, err = a.Approve(ctx)
	require.NoError(t, err)
	_, err = a.Cancel(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Dismiss(ctx))

	assert.Equal(t, []string{
		"GET /handshakes/abc",
		"POST /handshakes/abc/approve",
		"POST /handshakes/abc/cancel",
		"DELETE /handshakes/abc",
	}, calls)
}

func TestApprovalDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "approval token missing or invalid", Code: "ApprovalDenied"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Approval("abc", "wrong").Approve(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "ApprovalDenied", apiErr.Code)
}
