package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/pkg/connect"

	"github.com/spf13/cobra"
)

func newApproveCommand() *cobra.Command {
	var yes, decline bool
	cmd := &cobra.Command{
		Use:   "approve <approval-url>",
		Short: "Review a pending request and decide on it",
		Long: "Review a pending connect or sign request. The approval URL, with its token, " +
			"is logged by walletd serve when the request opens.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes && decline {
				return errors.New("use either --yes or --decline")
			}
			approval, err := connect.ParseApproval(args[0])
			if err != nil {
				return err
			}
			return decide(cmd, approval, yes, decline)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "approve without asking")
	cmd.Flags().BoolVar(&decline, "decline", false, "cancel without asking")
	return cmd
}

func decide(cmd *cobra.Command, approval *connect.Approval, yes, decline bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	v, err := approval.View(ctx)
	if err != nil {
		return err
	}
	printView(cmd, v)
	if v.State != model.StateAwaitingUserChoice {
		return fmt.Errorf("request is %s, nothing to decide", v.State)
	}

	approve := yes
	if !yes && !decline {
		fmt.Fprint(out, "Approve? [y/N]: ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		approve = answer == "y" || answer == "yes"
	}

	if approve {
		v, err = approval.Approve(ctx)
	} else {
		v, err = approval.Cancel(ctx)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Request %s is %s\n", v.ID, v.State)
	return nil
}

func printView(cmd *cobra.Command, v model.HandshakeView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s request from %s\n", v.Type, v.DappName)
	if v.Dapp.Description != "" {
		fmt.Fprintln(out, v.Dapp.Description)
	}
	for _, p := range v.Dapp.Permissions {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	if v.Address != "" {
		fmt.Fprintf(out, "Wallet: %s\n", v.Address)
	}
	if v.Payload != "" {
		fmt.Fprintf(out, "%s to sign:\n%s\n", v.PayloadKind, v.Payload)
	}
	if v.Notice != "" {
		fmt.Fprintln(out, v.Notice)
	}
}
