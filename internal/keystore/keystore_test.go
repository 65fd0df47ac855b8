package keystore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	ks := NewLocal(kvstore.NewMemoryStore())

	w, err := ks.Generate(ctx)
	require.NoError(t, err)

	t.Run("address is base58 of 32 bytes", func(t *testing.T) {
		assert.GreaterOrEqual(t, len(w.Address), 32)
		assert.LessOrEqual(t, len(w.Address), 44)
		raw, err := base58.Decode(w.Address)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("secret decodes to 64 bytes", func(t *testing.T) {
		raw, err := base58.Decode(w.SecretKeyEncoded)
		require.NoError(t, err)
		assert.Len(t, raw, 64)
	})

	t.Run("secret derives address", func(t *testing.T) {
		pk, err := solana.PrivateKeyFromBase58(w.SecretKeyEncoded)
		require.NoError(t, err)
		assert.Equal(t, w.Address, pk.PublicKey().String())
	})

	t.Run("load returns the same wallet", func(t *testing.T) {
		loaded, found, err := ks.Load(ctx)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, w, loaded)

		addr, found, err := ks.Address(ctx)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, w.Address, addr)
	})
}

func TestGenerateReplacesExisting(t *testing.T) {
	ctx := context.Background()
	ks := NewLocal(kvstore.NewMemoryStore())

	first, err := ks.Generate(ctx)
	require.NoError(t, err)
	second, err := ks.Generate(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Address, second.Address)

	loaded, found, err := ks.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.Address, loaded.Address)
}

func TestRoundTripManyWallets(t *testing.T) {
	ctx := context.Background()
	ks := NewLocal(kvstore.NewMemoryStore())

	for i := 0; i < 20; i++ {
		w, err := ks.Generate(ctx)
		require.NoError(t, err)
		require.NoError(t, Verify(w))
	}
}

func TestDeleteThenLoadIsAbsent(t *testing.T) {
	ctx := context.Background()
	ks := NewLocal(kvstore.NewMemoryStore())

	// delete without a wallet is fine
	require.NoError(t, ks.Delete(ctx))

	_, err := ks.Generate(ctx)
	require.NoError(t, err)
	require.NoError(t, ks.Delete(ctx))
	require.NoError(t, ks.Delete(ctx))

	w, found, err := ks.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, w)

	addr, found, err := ks.Address(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, addr)
}

func TestLoadRejectsInconsistentRecord(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	ks := NewLocal(store)

	a, err := ks.Generate(ctx)
	require.NoError(t, err)
	b, err := ks.Generate(ctx)
	require.NoError(t, err)

	mixed, err := json.Marshal(model.Wallet{Address: a.Address, SecretKeyEncoded: b.SecretKeyEncoded})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, WalletKey, mixed))

	_, _, err = ks.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptWallet)
}

func TestLoadRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	ks := NewLocal(store)

	require.NoError(t, store.Set(ctx, WalletKey, []byte("{")))
	_, _, err := ks.Load(ctx)
	assert.Error(t, err)

	require.NoError(t, store.Set(ctx, WalletKey, []byte(`{"address":"x","secretKeyEncoded":"0OIl"}`)))
	_, _, err = ks.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptWallet)
}

func TestWalletJSONShape(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	ks := NewLocal(store)

	_, err := ks.Generate(ctx)
	require.NoError(t, err)

	raw, err := store.Get(ctx, WalletKey)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "address")
	assert.Contains(t, fields, "secretKeyEncoded")
}
