package authorizenet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"go.uber.org/zap"
)

const webhookName = "authorize-net-app"

// rest calls the webhooks REST API with basic auth
func (c *Client) rest(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &provider.ProviderError{
				Code:    "MARSHAL_ERROR",
				Message: "Failed to prepare request",
				Details: err.Error(),
			}
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.restURL+path, reader)
	if err != nil {
		return &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.SetBasicAuth(c.apiLoginID, c.transactionKey)
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, status, err := c.do(httpReq)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		var errResp struct {
			Status  int    `json:"status"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		c.logger.Error("Authorize.net webhook API error",
			zap.String("path", path),
			zap.Int("status_code", status),
			zap.String("reason", errResp.Reason))

		return providerAPIError(&provider.ProviderError{
			Code:    fmt.Sprintf("HTTP_%d", status),
			Message: errResp.Message,
			Details: string(respBody),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}
	return nil
}

// ListWebhooks returns every webhook registered for the account
func (c *Client) ListWebhooks(ctx context.Context) ([]provider.Webhook, error) {
	var webhooks []provider.Webhook
	if err := c.rest(ctx, http.MethodGet, "/webhooks", nil, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

// CreateWebhook registers url for eventTypes
func (c *Client) CreateWebhook(ctx context.Context, url string, eventTypes []string) (*provider.Webhook, error) {
	if url == "" {
		return nil, domainErrors.NewValidationError("webhook url is required", nil)
	}

	var webhook provider.Webhook
	if err := c.rest(ctx, http.MethodPost, "/webhooks", provider.Webhook{
		Name:       webhookName,
		URL:        url,
		EventTypes: eventTypes,
		Status:     "active",
	}, &webhook); err != nil {
		return nil, err
	}

	c.logger.Info("Webhook registered",
		zap.String("webhook_id", webhook.WebhookID),
		zap.String("url", webhook.URL))

	return &webhook, nil
}
