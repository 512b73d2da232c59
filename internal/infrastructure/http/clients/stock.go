package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/domain/interfaces"
	"github.com/jwhande57/zimutilityxpress/internal/domain/models"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
)

type stockClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewStockClient builds the catalog lookup client. Stock checks are a
// single attempt: a failure propagates to the caller, which owns the
// user-facing messaging.
func NewStockClient(cfg config.UpstreamConfig, logger zerolog.Logger) interfaces.StockClient {
	return &stockClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

func (c *stockClient) FetchAvailable(ctx context.Context, productID int) ([]models.StockItem, error) {
	url := fmt.Sprintf("%s/api/check-stock/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Int("product_id", productID).Msg("Stock check request failed")
		return nil, fmt.Errorf("failed to fetch stock for %d: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Int("product_id", productID).
			Msg("Stock check returned non-2xx status")
		return nil, fmt.Errorf("failed to fetch stock for %d: HTTP %d: %s", productID, resp.StatusCode, string(body))
	}

	var stockResp models.StockResponse
	if err := json.NewDecoder(resp.Body).Decode(&stockResp); err != nil {
		return nil, fmt.Errorf("failed to decode stock response: %w", err)
	}

	return stockResp.Stock, nil
}
