package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	SOL      string `json:"sol"`
	Rate     string `json:"rate,omitempty"`
	Fiat     string `json:"fiat,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// TokenMetadata is one entry of the token registry keyed by mint
type TokenMetadata struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  string `json:"image"`
}

// Token is a token holding enriched with registry metadata
type Token struct {
	Mint        string `json:"mint"`
	Amount      string `json:"amount"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	ExplorerURL string `json:"explorerUrl"`
}

// TokensResponse represents response for GET /wallet/tokens
type TokensResponse struct {
	Address string  `json:"address"`
	Tokens  []Token `json:"tokens"`
}
