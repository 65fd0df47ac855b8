// @title           Wallet Connect API
// @version         1.0
// @description     Local Solana key custody agent: wallet shell and connect/sign approval flows.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlexZinkM/wallet-connect/internal/config"
	"github.com/AlexZinkM/wallet-connect/internal/crypto"
	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "walletd",
		Short:        "Local Solana wallet agent with connect and sign approvals",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			cfg := config.Get()
			return logger.Init(cfg.LogLevel, cfg.LogPretty)
		},
	}

	root.AddCommand(
		newServeCommand(),
		newWalletCommand(),
		newRekeyCommand(),
		newRequestCommand(),
		newApproveCommand(),
	)
	return root
}

// openStore opens the configured backend, sealed with the prompted password when STORE_ENCRYPT is set
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	store, err := kvstore.Open(ctx, kvstore.Options{
		Driver:    cfg.StoreDriver,
		Path:      cfg.StorePath,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if !cfg.StoreEncrypt {
		return store, nil
	}

	if err := config.PromptForPassword("Store password: "); err != nil {
		store.Close()
		return nil, err
	}
	password, err := config.GetStorePasswordBytes()
	if err != nil {
		store.Close()
		return nil, err
	}
	defer clear(password)

	sealed, err := crypto.NewSealedStore(store, password, crypto.DefaultParams)
	if err != nil {
		store.Close()
		return nil, err
	}
	return sealed, nil
}
