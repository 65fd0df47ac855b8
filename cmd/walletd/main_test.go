package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/pkg/connect"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"wallet", "create"},
		{"wallet", "show"},
		{"wallet", "balance"},
		{"wallet", "delete"},
		{"rekey"},
		{"request", "connect"},
		{"request", "sign"},
		{"approve"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestReadPayload(t *testing.T) {
	raw, err := readPayload(base64.StdEncoding.EncodeToString([]byte("hi")), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), raw)

	file := filepath.Join(t.TempDir(), "tx.bin")
	require.NoError(t, os.WriteFile(file, []byte{1, 2, 3}, 0o600))
	raw, err = readPayload("", file)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	_, err = readPayload("", "")
	assert.Error(t, err)
	_, err = readPayload("aGk=", file)
	assert.Error(t, err)
	_, err = readPayload("not base64!", "")
	assert.Error(t, err)
}

func fakeApprovalServer(t *testing.T, state model.HandshakeState) (*httptest.Server, *[]string) {
	t.Helper()
	var decisions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get("X-Approval-Token"))
		v := model.HandshakeView{ID: "abc", Type: model.HandshakeSign, State: state, DappName: "Orca", PayloadKind: model.PayloadMessage, Payload: "Sign in to Orca"}
		switch {
		case strings.HasSuffix(r.URL.Path, "/approve"):
			decisions = append(decisions, "approve")
			v.State = model.StateSigned
		case strings.HasSuffix(r.URL.Path, "/cancel"):
			decisions = append(decisions, "cancel")
			v.State = model.StateCancelled
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(srv.Close)
	return srv, &decisions
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		yes     bool
		decline bool
		want    string
	}{
		{"answered yes", "y\n", false, false, "approve"},
		{"answered no", "n\n", false, false, "cancel"},
		{"no answer", "", false, false, "cancel"},
		{"flag yes", "", true, false, "approve"},
		{"flag decline", "", false, true, "cancel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, decisions := fakeApprovalServer(t, model.StateAwaitingUserChoice)
			cmd := &cobra.Command{}
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetIn(strings.NewReader(tt.input))
			cmd.SetContext(context.Background())

			require.NoError(t, decide(cmd, connect.New(srv.URL).Approval("abc", "tok"), tt.yes, tt.decline))
			assert.Equal(t, []string{tt.want}, *decisions)
			assert.Contains(t, out.String(), "Sign in to Orca")
		})
	}
}

func TestDecideFinishedRequest(t *testing.T) {
	srv, decisions := fakeApprovalServer(t, model.StateSigned)
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	err := decide(cmd, connect.New(srv.URL).Approval("abc", "tok"), true, false)
	assert.ErrorContains(t, err, "nothing to decide")
	assert.Empty(t, *decisions)
}
