package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/host"
	"go.uber.org/zap"
)

const updatePrivateMetadataMutation = `mutation UpdatePrivateMetadata($id: ID!, $input: [MetadataInput!]!) {
  updatePrivateMetadata(id: $id, input: $input) {
    errors { field message code }
  }
}`

const transactionEventReportMutation = `mutation TransactionEventReport(
  $id: ID!
  $amount: PositiveDecimal!
  $pspReference: String!
  $time: DateTime
  $type: TransactionEventTypeEnum!
  $message: String
  $availableActions: [TransactionActionEnum!]
) {
  transactionEventReport(
    id: $id
    amount: $amount
    pspReference: $pspReference
    time: $time
    type: $type
    message: $message
    availableActions: $availableActions
  ) {
    alreadyProcessed
    errors { field message code }
  }
}`

// Client calls the GraphQL API of one host tenant with its app token
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ host.Client = (*Client)(nil)

// NewClient creates a client for the tenant at apiURL
func NewClient(apiURL, token string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: httpClient,
		logger:     logger.With(zap.String("tenant", apiURL)),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type mutationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// mutationErrors joins the errors list of a mutation payload, or returns nil
func mutationErrors(errs []mutationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code))
	}
	return domainErrors.NewHostAPIError(strings.Join(msgs, "; "), nil)
}

// execute posts a GraphQL operation and decodes its data into out
func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	jsonBody, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Host request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return domainErrors.NewNetworkError("host request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainErrors.NewNetworkError("failed to read host response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Host returned an error status",
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode))
		return domainErrors.NewHostAPIError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return domainErrors.NewHostAPIError("failed to parse host response", err)
	}
	if len(envelope.Errors) > 0 {
		c.logger.Error("Host rejected operation",
			zap.String("operation", operation),
			zap.String("error", envelope.Errors[0].Message))
		return domainErrors.NewHostAPIError(envelope.Errors[0].Message, nil)
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return domainErrors.NewHostAPIError("failed to parse host response data", err)
	}
	return nil
}

// UpdatePrivateMetadata sets keys on the private metadata of a host object
func (c *Client) UpdatePrivateMetadata(ctx context.Context, id string, items []entity.MetadataItem) error {
	var data struct {
		UpdatePrivateMetadata struct {
			Errors []mutationError `json:"errors"`
		} `json:"updatePrivateMetadata"`
	}
	if err := c.execute(ctx, "UpdatePrivateMetadata", updatePrivateMetadataMutation, map[string]any{
		"id":    id,
		"input": items,
	}, &data); err != nil {
		return err
	}
	return mutationErrors(data.UpdatePrivateMetadata.Errors)
}

// ReportTransactionEvent records a provider-side event on a host transaction.
// The host ignores reports it has already processed.
func (c *Client) ReportTransactionEvent(ctx context.Context, report *entity.TransactionEventReport) error {
	variables := map[string]any{
		"id":           report.TransactionID,
		"amount":       report.Amount,
		"pspReference": report.PSPReference,
		"time":         report.Time.UTC().Format(time.RFC3339),
		"type":         report.Type,
	}
	if report.Message != "" {
		variables["message"] = report.Message
	}
	if len(report.AvailableActions) > 0 {
		variables["availableActions"] = report.AvailableActions
	}

	var data struct {
		TransactionEventReport struct {
			AlreadyProcessed bool            `json:"alreadyProcessed"`
			Errors           []mutationError `json:"errors"`
		} `json:"transactionEventReport"`
	}
	if err := c.execute(ctx, "TransactionEventReport", transactionEventReportMutation, variables, &data); err != nil {
		return err
	}
	if err := mutationErrors(data.TransactionEventReport.Errors); err != nil {
		return err
	}

	c.logger.Info("Transaction event reported",
		zap.String("transaction_id", report.TransactionID),
		zap.String("psp_reference", report.PSPReference),
		zap.String("type", string(report.Type)),
		zap.Bool("already_processed", data.TransactionEventReport.AlreadyProcessed))
	return nil
}
