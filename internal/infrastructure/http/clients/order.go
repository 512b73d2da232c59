package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/domain/interfaces"
	"github.com/jwhande57/zimutilityxpress/internal/domain/models"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
)

// ErrOrderRejected wraps backend-supplied rejection messages so callers
// can surface them as form-level errors.
var ErrOrderRejected = errors.New("order rejected")

const genericOrderError = "failed to initialize payment, please try again"

type orderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewOrderClient builds the order submission client. Every request
// carries an idempotency key (the payment reference) so the retry loop
// cannot create duplicate backend orders.
func NewOrderClient(cfg config.UpstreamConfig, logger zerolog.Logger) interfaces.OrderClient {
	return &orderClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryBackoffBase) * time.Second,
		logger:     logger,
	}
}

func (c *orderClient) SubmitOrder(ctx context.Context, idempotencyKey string, order models.OrderRequest) (*models.OrderResponse, error) {
	var response models.OrderResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/api/order", idempotencyKey, order, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// makeRequest posts JSON with exponential-backoff retries on network and
// server errors. Client errors are terminal and carry the backend
// message when one is present.
func (c *orderClient) makeRequest(ctx context.Context, method, endpoint, idempotencyKey string, body interface{}, response interface{}) error {
	fullURL := c.baseURL + endpoint

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(1<<(attempt-1))): // Exponential backoff
			}
		}

		var reqBody []byte
		var err error

		if body != nil {
			reqBody, err = json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(reqBody))
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}
		if idempotencyKey != "" {
			req.Header.Set("X-Idempotency-Key", idempotencyKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Str("url", fullURL).Msg("Order request failed, retrying")
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if response != nil {
				if err := json.Unmarshal(respBody, response); err != nil {
					lastErr = fmt.Errorf("failed to unmarshal response: %w", err)
					continue
				}
			}
			return nil
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(respBody))
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Str("url", fullURL).Msg("Order backend server error, retrying")
			continue
		}

		// Client errors (4xx) - don't retry. Surface the backend message
		// when it sends one, the generic fallback otherwise.
		var orderErr models.OrderErrorResponse
		if err := json.Unmarshal(respBody, &orderErr); err == nil && orderErr.Message != "" {
			return fmt.Errorf("%w: %s", ErrOrderRejected, orderErr.Message)
		}
		return fmt.Errorf("%w: %s", ErrOrderRejected, genericOrderError)
	}

	c.logger.Error().Err(lastErr).Str("url", fullURL).Int("max_retries", c.maxRetries).Msg("Order request failed after all retries")
	return fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}
