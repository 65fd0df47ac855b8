package main

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/client"
	"github.com/AlexZinkM/wallet-connect/internal/config"
	"github.com/AlexZinkM/wallet-connect/internal/keystore"
	"github.com/AlexZinkM/wallet-connect/solana"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

func newWalletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the local wallet without running the server",
	}
	cmd.AddCommand(
		newWalletCreateCommand(),
		newWalletShowCommand(),
		newWalletBalanceCommand(),
		newWalletDeleteCommand(),
	)
	return cmd
}

// withShell opens the store and runs fn against a shell backed by it
func withShell(cmd *cobra.Command, fn func(*solana.Shell) error) error {
	cfg := config.Get()
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	shell := solana.NewShell(
		keystore.NewLocal(store),
		client.NewSolanaClient(config.GetSolanaRPCURL(), nil),
		nil,
		nil,
		solana.Config{Cluster: cfg.SolanaCluster},
	)
	return fn(shell)
}

func newWalletCreateCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a new keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withShell(cmd, func(shell *solana.Shell) error {
				if _, err := shell.GetWallet(cmd.Context()); err == nil && !force {
					return errors.New("a wallet already exists, pass --force to replace it")
				} else if err != nil && !errors.Is(err, solana.ErrNoWallet) {
					return err
				}

				resp, err := shell.CreateWallet(cmd.Context())
				if err != nil {
					return err
				}
				return printAddress(cmd, resp.Address)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing wallet")
	return cmd
}

func newWalletShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the wallet address and its QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withShell(cmd, func(shell *solana.Shell) error {
				resp, err := shell.GetWallet(cmd.Context())
				if err != nil {
					return err
				}
				return printAddress(cmd, resp.Address)
			})
		},
	}
}

func newWalletBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the SOL balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withShell(cmd, func(shell *solana.Shell) error {
				resp, err := shell.GetBalance(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s SOL (%d lamports)\n", resp.SOL, resp.Lamports)
				return nil
			})
		},
	}
}

func newWalletDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the wallet. The key is gone for good",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete the wallet without --yes")
			}
			return withShell(cmd, func(shell *solana.Shell) error {
				resp, err := shell.DeleteWallet(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func printAddress(cmd *cobra.Command, address string) error {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), qr.ToSmallString(false))
	fmt.Fprintln(cmd.OutOrStdout(), address)
	return nil
}
