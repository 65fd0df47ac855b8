package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AlexZinkM/wallet-connect/internal/model"
)

// MetadataClient fetches the token registry: a JSON object keyed by mint
type MetadataClient struct {
	registryURL string
	client      *http.Client
}

// NewMetadataClient creates a new registry client
func NewMetadataClient(registryURL string) *MetadataClient {
	return &MetadataClient{
		registryURL: registryURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchMetadata downloads the whole registry
func (c *MetadataClient) FetchMetadata(ctx context.Context) (map[string]model.TokenMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.registryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get token metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get token metadata: status %d", resp.StatusCode)
	}

	var registry map[string]model.TokenMetadata
	if err := json.NewDecoder(resp.Body).Decode(&registry); err != nil {
		return nil, fmt.Errorf("failed to decode token metadata: %w", err)
	}
	return registry, nil
}
