package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/api"
	"github.com/AlexZinkM/wallet-connect/internal/client"
	"github.com/AlexZinkM/wallet-connect/internal/config"
	"github.com/AlexZinkM/wallet-connect/internal/handler"
	"github.com/AlexZinkM/wallet-connect/internal/handshake"
	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/internal/metrics"
	"github.com/AlexZinkM/wallet-connect/internal/middleware"
	"github.com/AlexZinkM/wallet-connect/internal/signer"
	"github.com/AlexZinkM/wallet-connect/solana"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	sweepInterval   = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the wallet agent HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	keys := keystore.NewLocal(store)
	m := metrics.New()

	var prices solana.PriceSource
	if cfg.PriceCurrency != "" {
		prices = client.NewCoinGeckoClient(cfg.CoinGeckoURL)
	}
	shell := solana.NewShell(
		keys,
		client.NewSolanaClient(config.GetSolanaRPCURL(), m),
		client.NewMetadataClient(cfg.TokenRegistryURL),
		prices,
		solana.Config{
			Cluster:           cfg.SolanaCluster,
			Currency:          cfg.PriceCurrency,
			Cooldown:          time.Duration(config.GetPayCooldown()) * time.Minute,
			AllowSecretExport: cfg.AllowSecretExport,
		},
	)

	registry := handshake.NewRegistry(
		handshake.Deps{Keys: keys, Signer: signer.New(), Store: store},
		handshake.Config{
			TTL:            cfg.HandshakeTTL,
			PayloadTimeout: cfg.SignPayloadTimeout,
			OnFinish:       m.HandshakeFinished,
		},
	)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		shell.LoadMetadata(ctx)
	}()
	go func() {
		defer wg.Done()
		registry.Run(ctx, sweepInterval)
	}()
	go func() {
		defer wg.Done()
		limiter.Run(ctx)
	}()

	srv := &http.Server{
		Addr: ":" + config.GetPort(),
		Handler: api.SetupRouter(api.Deps{
			Wallet: handler.NewWalletHandler(shell),
			Handshakes: handler.NewHandshakeHandler(registry, store, handler.HandshakeConfig{
				PublicURL:      cfg.PublicURL,
				AllowedOrigins: cfg.AllowedOrigins,
			}),
			Metrics:   m,
			Limiter:   limiter,
			PublicURL: cfg.PublicURL,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("public_url", cfg.PublicURL).Str("store", cfg.StoreDriver).Msg("Wallet agent listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	// open sessions are cancelled first so attached openers still get their envelope
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
