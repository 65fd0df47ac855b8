package signer

import (
	"testing"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWallet(t *testing.T) (*model.Wallet, solana.PrivateKey) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return &model.Wallet{
		Address:          key.PublicKey().String(),
		SecretKeyEncoded: key.String(),
	}, key
}

// unsignedTransfer serializes a transfer from payer to a random recipient without signatures
func unsignedTransfer(t *testing.T, payer solana.PublicKey, extraSigner *solana.PublicKey) []byte {
	t.Helper()
	instructions := []solana.Instruction{
		system.NewTransferInstruction(1000, payer, solana.NewWallet().PublicKey()).Build(),
	}
	if extraSigner != nil {
		instructions = append(instructions,
			system.NewTransferInstruction(1, *extraSigner, payer).Build())
	}

	tx, err := solana.NewTransaction(
		instructions,
		solana.Hash{1, 2, 3},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestSign(t *testing.T) {
	s := New()
	w, key := newWallet(t)
	payload := []byte("hello dapp")

	t.Run("verifies against the address", func(t *testing.T) {
		sig, err := s.Sign(payload, w)
		require.NoError(t, err)
		assert.True(t, key.PublicKey().Verify(payload, sig))
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := s.Sign(payload, w)
		require.NoError(t, err)
		b, err := s.Sign(payload, w)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := s.Sign(nil, w)
		assert.ErrorIs(t, err, ErrInvalidPayload)
		_, err = s.Sign([]byte{}, w)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("malformed secret key", func(t *testing.T) {
		bad := &model.Wallet{Address: w.Address, SecretKeyEncoded: "not-base58-0OIl"}
		_, err := s.Sign(payload, bad)
		assert.ErrorIs(t, err, ErrKeyDecode)

		short := &model.Wallet{Address: w.Address, SecretKeyEncoded: "3mJr7AoUXx2Wqd"}
		_, err = s.Sign(payload, short)
		assert.ErrorIs(t, err, ErrKeyDecode)

		_, err = s.Sign(payload, nil)
		assert.ErrorIs(t, err, ErrKeyDecode)
	})
}

func TestSignTransaction(t *testing.T) {
	s := New()
	w, key := newWallet(t)

	t.Run("signs as fee payer", func(t *testing.T) {
		payload := unsignedTransfer(t, key.PublicKey(), nil)

		signed, err := s.SignTransaction(payload, w)
		require.NoError(t, err)

		tx, err := DecodeTransaction(signed.Serialized)
		require.NoError(t, err)
		require.NoError(t, tx.VerifySignatures())
		assert.Equal(t, tx.Signatures[0], signed.Signature)
	})

	t.Run("partial sign keeps other slots", func(t *testing.T) {
		other := solana.NewWallet().PublicKey()
		payload := unsignedTransfer(t, key.PublicKey(), &other)

		signed, err := s.SignTransaction(payload, w)
		require.NoError(t, err)

		tx, err := DecodeTransaction(signed.Serialized)
		require.NoError(t, err)
		require.Len(t, tx.Signatures, 2)

		msg, err := tx.Message.MarshalBinary()
		require.NoError(t, err)
		assert.True(t, key.PublicKey().Verify(msg, tx.Signatures[0]))
		assert.True(t, tx.Signatures[1].IsZero())
	})

	t.Run("wallet is not a signer", func(t *testing.T) {
		payload := unsignedTransfer(t, solana.NewWallet().PublicKey(), nil)
		_, err := s.SignTransaction(payload, w)
		assert.ErrorIs(t, err, ErrSignerMismatch)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := s.SignTransaction([]byte("definitely not a transaction"), w)
		assert.ErrorIs(t, err, ErrTransactionDecode)

		_, err = s.SignTransaction([]byte{0x01, 0x02, 0x03}, w)
		assert.ErrorIs(t, err, ErrTransactionDecode)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		payload := append(unsignedTransfer(t, key.PublicKey(), nil), 0xff)
		_, err := s.SignTransaction(payload, w)
		assert.ErrorIs(t, err, ErrTransactionDecode)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := s.SignTransaction(nil, w)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("decode error wins over key error", func(t *testing.T) {
		bad := &model.Wallet{SecretKeyEncoded: "0OIl"}
		_, err := s.SignTransaction([]byte{0x01}, bad)
		assert.ErrorIs(t, err, ErrTransactionDecode)

		_, err = s.SignTransaction(unsignedTransfer(t, key.PublicKey(), nil), bad)
		assert.ErrorIs(t, err, ErrKeyDecode)
	})
}
