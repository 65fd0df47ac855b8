package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// Observer receives the latency and outcome of every ledger call
type Observer interface {
	ObserveLedgerCall(method string, started time.Time, err error)
}

// SolanaClient is a client for working with Solana RPC
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
	observer  Observer
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint.
// observer may be nil.
func NewSolanaClient(rpcURL string, observer Observer) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
		observer:  observer,
	}
}

// TokenAccount is one SPL token holding of an owner
type TokenAccount struct {
	Address        string
	Mint           string
	Amount         string // raw base units
	Decimals       int
	UiAmountString string
}

// parsedTokenAccount is the jsonParsed data of an SPL token account
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint,omitempty"`
			Owner       string `json:"owner,omitempty"`
			TokenAmount struct {
				Amount         string `json:"amount,omitempty"`
				Decimals       int    `json:"decimals,omitempty"`
				UiAmountString string `json:"uiAmountString,omitempty"`
			} `json:"tokenAmount,omitempty"`
		} `json:"info,omitempty"`
		Type string `json:"type,omitempty"`
	} `json:"parsed,omitempty"`
	Program string `json:"program,omitempty"`
}

func (c *SolanaClient) observe(method string, started time.Time, err error) {
	if c.observer != nil {
		c.observer.ObserveLedgerCall(method, started, err)
	}
}

// GetBalance gets SOL balance in lamports
func (c *SolanaClient) GetBalance(ctx context.Context, owner solana.PublicKey) (lamports uint64, err error) {
	defer func(started time.Time) { c.observe("getBalance", started, err) }(time.Now())

	balance, err := c.rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return balance.Value, nil
}

// GetTokenAccounts lists the SPL token accounts owned by owner
func (c *SolanaClient) GetTokenAccounts(ctx context.Context, owner solana.PublicKey) (accounts []TokenAccount, err error) {
	defer func(started time.Time) { c.observe("getTokenAccountsByOwner", started, err) }(time.Now())

	programID := solana.TokenProgramID
	out, err := c.rpcClient.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &programID},
		&rpc.GetTokenAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingJSONParsed,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get token accounts: %w", err)
	}

	accounts = make([]TokenAccount, 0, len(out.Value))
	for _, acc := range out.Value {
		if acc == nil || acc.Account.Data == nil {
			continue
		}

		var info parsedTokenAccount
		if err := json.Unmarshal(acc.Account.Data.GetRawJSON(), &info); err != nil {
			return nil, fmt.Errorf("failed to parse token account %s: %w", acc.Pubkey, err)
		}
		if info.Parsed.Info.Mint == "" {
			continue
		}

		amount := info.Parsed.Info.TokenAmount
		accounts = append(accounts, TokenAccount{
			Address:        acc.Pubkey.String(),
			Mint:           info.Parsed.Info.Mint,
			Amount:         amount.Amount,
			Decimals:       amount.Decimals,
			UiAmountString: amount.UiAmountString,
		})
	}
	return accounts, nil
}

// GetMinimumRentExemption gets the rent exempt minimum for an account without data
func (c *SolanaClient) GetMinimumRentExemption(ctx context.Context) (lamports uint64, err error) {
	defer func(started time.Time) { c.observe("getMinimumBalanceForRentExemption", started, err) }(time.Now())

	lamports, err = c.rpcClient.GetMinimumBalanceForRentExemption(ctx, 0, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to get rent exemption: %w", err)
	}
	return lamports, nil
}

// SubmitTransfer creates, signs and sends a SOL transfer.
// from must be the full 64-byte key (caller should zero it after use)
func (c *SolanaClient) SubmitTransfer(ctx context.Context, from solana.PrivateKey, to solana.PublicKey, lamports uint64) (sig solana.Signature, err error) {
	defer func(started time.Time) { c.observe("sendTransaction", started, err) }(time.Now())

	owner := from.PublicKey()

	// Get latest blockhash
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		lamports,
		owner,
		to,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(owner),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if owner.Equals(key) {
			return &from
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err = c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false, // Transaction validation before node
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}
