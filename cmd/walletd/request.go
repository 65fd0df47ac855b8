package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/config"
	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/pkg/connect"

	"github.com/spf13/cobra"
)

// requestFlags are shared by the requester subcommands
type requestFlags struct {
	agent       string
	origin      string
	name        string
	icon        string
	description string
	permissions string
	timeout     time.Duration
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.agent, "agent", "", "wallet agent URL (default PUBLIC_URL)")
	cmd.Flags().StringVar(&f.origin, "origin", "", "Origin header to present")
	cmd.Flags().StringVar(&f.name, "name", "walletd CLI", "requester name shown to the owner")
	cmd.Flags().StringVar(&f.icon, "icon", "", "requester icon URL")
	cmd.Flags().StringVar(&f.description, "description", "", "requester description")
	cmd.Flags().StringVar(&f.permissions, "permissions", "", "comma separated permissions")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "how long to wait for the decision (default HANDSHAKE_TTL)")
}

func (f *requestFlags) client() *connect.Client {
	agent := f.agent
	if agent == "" {
		agent = config.Get().PublicURL
	}
	return connect.New(agent, connect.WithOrigin(f.origin))
}

func (f *requestFlags) dapp() model.DappRequestContext {
	return model.DappRequestContext{
		Name:        f.name,
		IconURL:     f.icon,
		Description: f.description,
		Permissions: model.ParsePermissions(f.permissions),
	}
}

func (f *requestFlags) deadline(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := f.timeout
	if timeout <= 0 {
		timeout = config.Get().HandshakeTTL
	}
	return context.WithTimeout(parent, timeout)
}

func newRequestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Act as a requester against a running agent",
	}
	cmd.AddCommand(newRequestConnectCommand(), newRequestSignCommand())
	return cmd
}

func newRequestConnectCommand() *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Ask the owner for the wallet address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := flags.deadline(cmd.Context())
			defer cancel()

			s, err := flags.client().Connect(ctx, flags.dapp())
			if err != nil {
				return err
			}
			defer s.Close()

			return awaitEnvelope(ctx, cmd, s)
		},
	}
	flags.register(cmd)
	return cmd
}

func newRequestSignCommand() *cobra.Command {
	var (
		flags  requestFlags
		source string
		kind   string
		data   string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Ask the owner to sign a message or transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payloadKind, err := model.ParsePayloadKind(kind)
			if err != nil {
				return err
			}
			payload, err := readPayload(data, file)
			if err != nil {
				return err
			}

			ctx, cancel := flags.deadline(cmd.Context())
			defer cancel()

			s, err := flags.client().Sign(ctx, flags.dapp(), connect.SignOptions{
				Source:  source,
				Kind:    payloadKind,
				Payload: payload,
			})
			if err != nil {
				return err
			}
			defer s.Close()

			return awaitEnvelope(ctx, cmd, s)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&source, "source", connect.SourceMessage, "how the payload reaches the agent: message, url or store")
	cmd.Flags().StringVar(&kind, "kind", string(model.PayloadMessage), "message or transaction")
	cmd.Flags().StringVar(&data, "data", "", "payload as base64")
	cmd.Flags().StringVar(&file, "file", "", "read the raw payload from a file")
	return cmd
}

func readPayload(data, file string) ([]byte, error) {
	switch {
	case data != "" && file != "":
		return nil, errors.New("use either --data or --file")
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		return raw, nil
	case data != "":
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode --data: %w", err)
		}
		return raw, nil
	}
	return nil, errors.New("a payload is required (--data or --file)")
}

func awaitEnvelope(ctx context.Context, cmd *cobra.Command, s *connect.Session) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for the wallet owner to decide on request %s\n", s.ID)

	env, err := s.Wait(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return err
	}
	if env.Status == model.StatusFailed {
		return fmt.Errorf("request failed: %s", env.Reason)
	}
	return nil
}
