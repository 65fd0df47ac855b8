package handshake

import (
	"context"
	"errors"
	"testing"

	"github.com/AlexZinkM/wallet-connect/internal/channel"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectApprove(t *testing.T) {
	ctx := context.Background()
	keys := newFakeKeys(t)
	mb := channel.NewMailbox()
	envelopes := subscribe(t, mb)

	c, err := NewConnect(ctx, Options{ID: "c1", Mailbox: mb, Dapp: model.DappRequestContext{Name: "Orca"}}, keys)
	require.NoError(t, err)

	v := c.View()
	assert.Equal(t, model.StateAwaitingUserChoice, v.State)
	assert.Equal(t, "Orca", v.DappName)
	assert.Equal(t, []model.Permission{model.PermissionViewAddress, model.PermissionViewBalance}, v.Dapp.Permissions)

	require.NoError(t, c.Approve(ctx))
	assert.Equal(t, model.Connected(keys.wallet.Address), receive(t, envelopes))
	assert.Equal(t, model.StateApproved, c.State())
	assert.False(t, c.ClosedAt().IsZero())

	assert.ErrorIs(t, c.Approve(ctx), ErrHandshakeClosed)
	assert.ErrorIs(t, c.Cancel(ctx), ErrHandshakeClosed)
	assert.Empty(t, envelopes)
}

func TestConnectCancel(t *testing.T) {
	ctx := context.Background()
	mb := channel.NewMailbox()
	envelopes := subscribe(t, mb)

	c, err := NewConnect(ctx, Options{Mailbox: mb}, newFakeKeys(t))
	require.NoError(t, err)
	assert.Equal(t, "Unknown DApp", c.View().DappName)

	require.NoError(t, c.Cancel(ctx))
	assert.Equal(t, model.Cancelled(), receive(t, envelopes))
	assert.Equal(t, model.StateCancelled, c.State())
}

func TestConnectWithoutWallet(t *testing.T) {
	ctx := context.Background()
	keys := &fakeKeys{}
	mb := channel.NewMailbox()
	envelopes := subscribe(t, mb)

	c, err := NewConnect(ctx, Options{Mailbox: mb}, keys)
	require.NoError(t, err)

	v := c.View()
	assert.Equal(t, model.StateCancelled, v.State)
	assert.Equal(t, model.ReasonNoWallet, v.Reason)
	assert.NotEmpty(t, v.Notice)
	assert.Empty(t, v.Address)

	assert.Equal(t, model.Cancelled(), receive(t, envelopes))
	assert.ErrorIs(t, c.Approve(ctx), ErrHandshakeClosed)
}

func TestConnectWalletDeletedBeforeApprove(t *testing.T) {
	ctx := context.Background()
	keys := newFakeKeys(t)
	mb := channel.NewMailbox()
	envelopes := subscribe(t, mb)

	c, err := NewConnect(ctx, Options{Mailbox: mb}, keys)
	require.NoError(t, err)

	keys.remove()
	require.NoError(t, c.Approve(ctx))

	env := receive(t, envelopes)
	assert.NotEqual(t, model.StatusConnected, env.Status)
	assert.Empty(t, env.Address)
	assert.Equal(t, model.ReasonNoWallet, c.Reason())
}

func TestConnectOpenerGone(t *testing.T) {
	ctx := context.Background()
	mb := channel.NewMailbox()
	_, detach, err := mb.Subscribe()
	require.NoError(t, err)

	c, err := NewConnect(ctx, Options{Mailbox: mb}, newFakeKeys(t))
	require.NoError(t, err)

	detach()
	require.NoError(t, c.Approve(ctx))
	assert.Equal(t, model.StateCancelled, c.State())
	assert.Equal(t, model.ReasonNoOpener, c.Reason())
}

func TestConnectStoreError(t *testing.T) {
	ctx := context.Background()
	keys := newFakeKeys(t)

	c, err := NewConnect(ctx, Options{}, keys)
	require.NoError(t, err)

	keys.err = errors.New("disk on fire")
	assert.Error(t, c.Approve(ctx))
	assert.Equal(t, model.StateAwaitingUserChoice, c.State())

	keys.err = nil
	require.NoError(t, c.Approve(ctx))
	assert.Equal(t, model.StateApproved, c.State())
}

func TestConnectUnknownPermission(t *testing.T) {
	dapp := model.DappRequestContext{Permissions: []model.Permission{"drainWallet"}}
	_, err := NewConnect(context.Background(), Options{Dapp: dapp}, newFakeKeys(t))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestConnectFinishHook(t *testing.T) {
	var got []model.HandshakeState
	hook := func(_ model.HandshakeType, state model.HandshakeState, _ model.Reason) {
		got = append(got, state)
	}

	c, err := NewConnect(context.Background(), Options{OnFinish: hook}, newFakeKeys(t))
	require.NoError(t, err)
	require.NoError(t, c.Approve(context.Background()))

	assert.Equal(t, []model.HandshakeState{model.StateApproved}, got)
}
