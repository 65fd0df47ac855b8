package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	solanaCoinID = "solana"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client; an empty baseURL means the public API
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PriceResponse response from CoinGecko API: coin id -> currency -> price
type PriceResponse map[string]map[string]float64

// GetSOLRate gets the SOL price in currency (e.g. "usd")
func (c *CoinGeckoClient) GetSOLRate(ctx context.Context, currency string) (string, error) {
	currency = strings.ToLower(currency)
	query := url.Values{}
	query.Set("ids", solanaCoinID)
	query.Set("vs_currencies", currency)
	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp PriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return "", fmt.Errorf("failed to decode rate: %w", err)
	}

	price, ok := priceResp[solanaCoinID][currency]
	if !ok {
		return "", fmt.Errorf("failed to get rate: no %s price for %s", currency, solanaCoinID)
	}

	rate := strconv.FormatFloat(price, 'f', 2, 64)
	return rate, nil
}
