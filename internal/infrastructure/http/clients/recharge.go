package clients

import (
	"bytes"
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

type rechargeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewRechargeClient builds the post-payment recharge client. Recharge is
// best effort: the orchestrator logs failures but never blocks the
// result view on them.
func NewRechargeClient(cfg config.UpstreamConfig, logger zerolog.Logger) interfaces.RechargeClient {
	return &rechargeClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

func (c *rechargeClient) ProcessRecharge(ctx context.Context, recharge models.RechargeRequest) (*models.RechargeResponse, error) {
	url := c.baseURL + "/api/recharge"

	reqBody, err := json.Marshal(recharge)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recharge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create recharge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("reference", recharge.Reference).Msg("Recharge request failed")
		return nil, fmt.Errorf("recharge request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read recharge response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("reference", recharge.Reference).
			Msg("Recharge returned non-2xx status")
		return nil, fmt.Errorf("recharge failed: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var rechargeResp models.RechargeResponse
	if err := json.Unmarshal(respBody, &rechargeResp); err != nil {
		return nil, fmt.Errorf("failed to decode recharge response: %w", err)
	}

	return &rechargeResp, nil
}
