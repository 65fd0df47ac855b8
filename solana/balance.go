package solana

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AlexZinkM/wallet-connect/internal/common"
	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"
)

const (
	unknownToken = "Unknown"
	explorerURL  = "https://explorer.solana.com/account/"
)

// GetBalance gets wallet balance with an optional fiat value
func (s *Shell) GetBalance(ctx context.Context) (*model.BalanceResponse, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	lamports, err := s.ledger.GetBalance(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	resp := &model.BalanceResponse{
		Address:  owner.String(),
		Lamports: lamports,
		SOL:      common.LamportsToSOL(lamports),
	}

	if s.prices == nil || s.cfg.Currency == "" {
		return resp, nil
	}

	// the rate is display only, a failure leaves the fiat fields empty
	rate, err := s.prices.GetSOLRate(ctx, s.cfg.Currency)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Failed to get SOL rate")
		return resp, nil
	}

	// Calculate fiat (use float only for display, not for critical operations)
	solFloat, _ := strconv.ParseFloat(resp.SOL, 64)
	rateFloat, _ := strconv.ParseFloat(rate, 64)
	resp.Rate = rate
	resp.Fiat = fmt.Sprintf("%.2f", solFloat*rateFloat)
	resp.Currency = s.cfg.Currency
	return resp, nil
}

// GetTokens lists SPL token holdings enriched with registry metadata
func (s *Shell) GetTokens(ctx context.Context) (*model.TokensResponse, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.ledger.GetTokenAccounts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	tokens := make([]model.Token, 0, len(accounts))
	for _, acc := range accounts {
		meta, ok := s.tokenMetadata[acc.Mint]
		if !ok {
			meta = model.TokenMetadata{Symbol: unknownToken, Name: unknownToken, Image: unknownToken}
		}

		amount := acc.UiAmountString
		if amount == "" {
			amount = acc.Amount
		}

		tokens = append(tokens, model.Token{
			Mint:        acc.Mint,
			Amount:      amount,
			Symbol:      orUnknown(meta.Symbol),
			Name:        orUnknown(meta.Name),
			Image:       orUnknown(meta.Image),
			ExplorerURL: s.explorerURL(acc.Mint),
		})
	}

	return &model.TokensResponse{
		Address: owner.String(),
		Tokens:  tokens,
	}, nil
}

// LoadMetadata fetches the token registry once. A failure is only logged;
// tokens are then shown with placeholders.
func (s *Shell) LoadMetadata(ctx context.Context) {
	if s.metadata == nil {
		return
	}

	registry, err := s.metadata.FetchMetadata(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Failed to fetch token metadata")
		return
	}

	s.metaMu.Lock()
	s.tokenMetadata = registry
	s.metaMu.Unlock()

	logger.FromContext(ctx).Info().Int("tokens", len(registry)).Msg("Token metadata loaded")
}

func (s *Shell) explorerURL(mint string) string {
	u := explorerURL + url.PathEscape(mint)
	if s.cfg.Cluster != "" && s.cfg.Cluster != "mainnet-beta" {
		u += "?cluster=" + url.QueryEscape(s.cfg.Cluster)
	}
	return u
}

func orUnknown(s string) string {
	if s == "" {
		return unknownToken
	}
	return s
}
