package authorizenet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	sandboxAPIURL     = "https://apitest.authorize.net/xml/v1/request.api"
	productionAPIURL  = "https://api.authorize.net/xml/v1/request.api"
	sandboxRESTURL    = "https://apitest.authorize.net/rest/v1"
	productionRESTURL = "https://api.authorize.net/rest/v1"

	resultCodeOk = "Ok"

	// Error codes the client translates
	codeProfileNotFound  = "E00040"
	codeDuplicateProfile = "E00039"
)

// Responses are prefixed with a UTF-8 byte order mark
var bom = []byte("\xef\xbb\xbf")

// Client talks to one Authorize.net merchant account
type Client struct {
	apiLoginID     string
	transactionKey string
	apiURL         string
	restURL        string
	httpClient     *http.Client
	logger         *zap.Logger
}

var _ provider.Client = (*Client)(nil)

// Option customizes a Client
type Option func(*Client)

// WithEndpoints points the client at another API host, e.g. a local mock
func WithEndpoints(apiURL, restURL string) Option {
	return func(c *Client) {
		if apiURL != "" {
			c.apiURL = apiURL
		}
		if restURL != "" {
			c.restURL = restURL
		}
	}
}

// NewClient creates a client for the account's environment
func NewClient(account *entity.ProviderAccount, httpClient *http.Client, logger *zap.Logger, opts ...Option) *Client {
	apiURL, restURL := sandboxAPIURL, sandboxRESTURL
	if account.Environment == entity.EnvironmentProduction {
		apiURL, restURL = productionAPIURL, productionRESTURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	c := &Client{
		apiLoginID:     account.APILoginID,
		transactionKey: account.TransactionKey,
		apiURL:         apiURL,
		restURL:        restURL,
		httpClient:     httpClient,
		logger:         logger.With(zap.String("provider_account", account.ID)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type merchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

func (c *Client) auth() merchantAuthentication {
	return merchantAuthentication{Name: c.apiLoginID, TransactionKey: c.transactionKey}
}

type apiMessages struct {
	ResultCode string             `json:"resultCode"`
	Message    []provider.Message `json:"message"`
}

func (m apiMessages) err() *provider.ProviderError {
	if m.ResultCode == resultCodeOk {
		return nil
	}
	perr := &provider.ProviderError{Code: "API_ERROR", Message: "Authorize.net request failed"}
	if len(m.Message) > 0 {
		perr.Code = m.Message[0].Code
		perr.Message = m.Message[0].Text
	}
	return perr
}

// call posts one JSON API request wrapped in its root element and decodes the response into out
func (c *Client) call(ctx context.Context, root string, body any, out any) error {
	jsonBody, err := json.Marshal(map[string]any{root: body})
	if err != nil {
		return &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, status, err := c.do(httpReq)
	if err != nil {
		c.logger.Error("Authorize.net request failed",
			zap.String("request", root),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Received response from Authorize.net",
		zap.String("request", root),
		zap.Int("status_code", status))

	if status != http.StatusOK {
		return domainErrors.NewProviderAPIError(fmt.Sprintf("unexpected status %d", status), &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Authorize.net returned an error status",
			Details: string(respBody),
		})
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

// do sends the request and returns the body without the byte order mark
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, domainErrors.NewNetworkError("Authorize.net API request failed", &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Authorize.net API request failed",
			Details: err.Error(),
		})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, domainErrors.NewNetworkError("failed to read Authorize.net response", &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		})
	}

	return bytes.TrimPrefix(respBody, bom), resp.StatusCode, nil
}

// providerAPIError wraps a provider-reported failure
func providerAPIError(perr *provider.ProviderError) error {
	return domainErrors.NewProviderAPIError(perr.Message, perr)
}
