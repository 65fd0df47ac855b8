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

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://dapp.example", r.Header.Get("Origin"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "unknown permission", Code: "InvalidRequest"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithOrigin("https://dapp.example"))
	_, err := c.Connect(context.Background(), model.DappRequestContext{Name: "x"})
	require.Error(t, err)
	assert.True(t, IsAPIError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "InvalidRequest", apiErr.Code)
}

func TestPutPendingPayload(t *testing.T) {
	var got model.PendingPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/pending-payload", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New(srv.URL).PutPendingPayload(context.Background(), model.PendingPayload{Kind: model.PayloadMessage, Data: []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, model.PayloadMessage, got.Kind)
	assert.Equal(t, model.Bytes("hi"), got.Data)
}

func TestSignRejectsUnknownKind(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Sign(context.Background(), model.DappRequestContext{}, SignOptions{Kind: "blob", Payload: []byte{1}})
	require.Error(t, err)
	assert.False(t, IsAPIError(err))
}
