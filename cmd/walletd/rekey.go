package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/config"
	"github.com/AlexZinkM/wallet-connect/internal/crypto"
	"github.com/AlexZinkM/wallet-connect/internal/handler"
	"github.com/AlexZinkM/wallet-connect/internal/handshake"
	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/internal/kvstore"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRekeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rekey",
		Short: "Re-encrypt the sealed wallet under a new password",
		Long: "Re-encrypts the wallet record of a STORE_ENCRYPT store in place. " +
			"Transient requester records sealed with the old password are dropped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()
			if !cfg.StoreEncrypt {
				return errors.New("rekey needs STORE_ENCRYPT=true")
			}

			store, err := kvstore.Open(cmd.Context(), kvstore.Options{
				Driver:    cfg.StoreDriver,
				Path:      cfg.StorePath,
				RedisAddr: cfg.RedisAddr,
				RedisDB:   cfg.RedisDB,
			})
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close()

			oldPassword, err := config.ReadPassword("Current password: ")
			if err != nil {
				return err
			}
			defer clear(oldPassword)

			newPassword, err := config.ReadPassword("New password: ")
			if err != nil {
				return err
			}
			defer clear(newPassword)

			confirm, err := config.ReadPassword("Repeat new password: ")
			if err != nil {
				return err
			}
			defer clear(confirm)

			if !bytes.Equal(newPassword, confirm) {
				return errors.New("passwords do not match")
			}

			err = crypto.Reseal(cmd.Context(), store, keystore.WalletKey, oldPassword, newPassword, crypto.DefaultParams)
			if errors.Is(err, kvstore.ErrNotFound) {
				return errors.New("no wallet to re-encrypt")
			}
			if err != nil {
				return fmt.Errorf("failed to re-encrypt wallet: %w", err)
			}

			for _, key := range []string{handshake.PendingPayloadKey, handler.DappDetailsKey} {
				if err := store.Delete(cmd.Context(), key); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("Failed to drop record sealed with the old password")
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Wallet re-encrypted")
			return nil
		},
	}
}
