package crypto

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
)

// SealedStore encrypts every value before it reaches the underlying store.
// It lets the key store keep secret material off disk in plaintext without
// changing its own contract.
type SealedStore struct {
	inner    kvstore.Store
	password []byte
	params   Params
}

// NewSealedStore wraps inner. The password is copied; the caller may zero its slice.
func NewSealedStore(inner kvstore.Store, password []byte, params Params) (*SealedStore, error) {
	if len(password) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return &SealedStore{
		inner:    inner,
		password: append([]byte(nil), password...),
		params:   params,
	}, nil
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plaintext, err := Open(sealed, s.password, s.params)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", key, err)
	}
	return plaintext, nil
}

func (s *SealedStore) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := Seal(value, s.password, s.params)
	if err != nil {
		return fmt.Errorf("failed to seal %q: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close wipes the password and closes the inner store
func (s *SealedStore) Close() error {
	clear(s.password)
	return s.inner.Close()
}

// Reseal re-encrypts the value under key with a new password, in place.
func Reseal(ctx context.Context, store kvstore.Store, key string, oldPassword, newPassword []byte, params Params) error {
	sealed, err := store.Get(ctx, key)
	if err != nil {
		return err
	}

	plaintext, err := Open(sealed, oldPassword, params)
	if err != nil {
		return err
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	resealed, err := Seal(plaintext, newPassword, params)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, resealed)
}
