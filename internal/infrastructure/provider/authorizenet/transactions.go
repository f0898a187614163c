package authorizenet

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"go.uber.org/zap"
)

type createTransactionRequest struct {
	MerchantAuthentication merchantAuthentication       `json:"merchantAuthentication"`
	TransactionRequest     *provider.TransactionRequest `json:"transactionRequest"`
}

type transactionResponse struct {
	ResponseCode     string `json:"responseCode"`
	AuthCode         string `json:"authCode"`
	TransID          string `json:"transId"`
	RefTransID       string `json:"refTransID"`
	AccountNumber    string `json:"accountNumber"`
	AccountType      string `json:"accountType"`
	SecureAcceptance *struct {
		SecureAcceptanceURL string `json:"SecureAcceptanceUrl"`
		PayerID             string `json:"PayerID"`
	} `json:"secureAcceptance"`
	Messages []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"messages"`
	Errors []struct {
		ErrorCode string `json:"errorCode"`
		ErrorText string `json:"errorText"`
	} `json:"errors"`
}

type createTransactionResponse struct {
	TransactionResponse *transactionResponse `json:"transactionResponse"`
	Messages            apiMessages          `json:"messages"`
}

// CreateTransaction submits a transaction request.
// Declines come back as a response with Errors set; only requests the gateway refused outright are errors.
func (c *Client) CreateTransaction(ctx context.Context, req *provider.TransactionRequest) (*provider.TransactionResponse, error) {
	c.logger.Info("Creating Authorize.net transaction",
		zap.String("transaction_type", string(req.TransactionType)),
		zap.String("ref_trans_id", req.RefTransID))

	var resp createTransactionResponse
	if err := c.call(ctx, "createTransactionRequest", createTransactionRequest{
		MerchantAuthentication: c.auth(),
		TransactionRequest:     req,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.TransactionResponse == nil || resp.TransactionResponse.ResponseCode == "" {
		if perr := resp.Messages.err(); perr != nil {
			c.logger.Warn("Authorize.net rejected transaction request",
				zap.String("code", perr.Code),
				zap.String("message", perr.Message))
			return nil, providerAPIError(perr)
		}
		return nil, providerAPIError(&provider.ProviderError{Code: "RESPONSE_ERROR", Message: "transaction response is missing"})
	}

	tr := resp.TransactionResponse
	result := &provider.TransactionResponse{
		ResponseCode:  tr.ResponseCode,
		TransID:       tr.TransID,
		RefTransID:    tr.RefTransID,
		AuthCode:      tr.AuthCode,
		AccountNumber: tr.AccountNumber,
		AccountType:   tr.AccountType,
	}
	if tr.SecureAcceptance != nil {
		result.SecureAcceptanceURL = tr.SecureAcceptance.SecureAcceptanceURL
	}
	for _, m := range tr.Messages {
		result.Messages = append(result.Messages, provider.Message{Code: m.Code, Text: m.Description})
	}
	for _, e := range tr.Errors {
		result.Errors = append(result.Errors, provider.Message{Code: e.ErrorCode, Text: e.ErrorText})
	}

	c.logger.Info("Authorize.net transaction created",
		zap.String("trans_id", result.TransID),
		zap.String("response_code", result.ResponseCode))

	return result, nil
}

type getTransactionDetailsRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	TransID                string                 `json:"transId"`
}

type transactionDetails struct {
	TransID           string          `json:"transId"`
	RefTransID        string          `json:"refTransId"`
	TransactionType   string          `json:"transactionType"`
	TransactionStatus string          `json:"transactionStatus"`
	ResponseCode      json.Number     `json:"responseCode"`
	AuthAmount        decimal.Decimal `json:"authAmount"`
	SettleAmount      decimal.Decimal `json:"settleAmount"`
	SubmitTimeUTC     string          `json:"submitTimeUTC"`
	Order             provider.Order  `json:"order"`
	Payment           struct {
		CreditCard *provider.CreditCard `json:"creditCard"`
		PayPal     *struct{}            `json:"payPal"`
	} `json:"payment"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type getTransactionDetailsResponse struct {
	Transaction *transactionDetails `json:"transaction"`
	Messages    apiMessages         `json:"messages"`
}

// GetTransactionDetails fetches the provider's view of a transaction
func (c *Client) GetTransactionDetails(ctx context.Context, transID string) (*provider.TransactionDetails, error) {
	var resp getTransactionDetailsResponse
	if err := c.call(ctx, "getTransactionDetailsRequest", getTransactionDetailsRequest{
		MerchantAuthentication: c.auth(),
		TransID:                transID,
	}, &resp); err != nil {
		return nil, err
	}

	if perr := resp.Messages.err(); perr != nil {
		return nil, providerAPIError(perr)
	}
	if resp.Transaction == nil {
		return nil, providerAPIError(&provider.ProviderError{Code: "RESPONSE_ERROR", Message: "transaction is missing"})
	}

	t := resp.Transaction
	details := &provider.TransactionDetails{
		TransID:           t.TransID,
		RefTransID:        t.RefTransID,
		TransactionType:   t.TransactionType,
		TransactionStatus: t.TransactionStatus,
		ResponseCode:      t.ResponseCode.String(),
		AuthAmount:        t.AuthAmount,
		SettleAmount:      t.SettleAmount,
		Order:             t.Order,
		CustomerEmail:     t.Customer.Email,
	}
	if t.Payment.CreditCard != nil {
		details.Payment.CreditCard = t.Payment.CreditCard
	}
	if t.Payment.PayPal != nil {
		details.Payment.PayPal = &provider.PayPal{}
	}
	if submitted, err := time.Parse(time.RFC3339Nano, t.SubmitTimeUTC); err == nil {
		details.SubmitTime = submitted
	} else if t.SubmitTimeUTC != "" {
		c.logger.Warn("Failed to parse transaction submit time",
			zap.String("trans_id", t.TransID),
			zap.String("submit_time", t.SubmitTimeUTC))
	}

	return details, nil
}

type hostedPaymentSetting struct {
	SettingName  string `json:"settingName"`
	SettingValue string `json:"settingValue"`
}

type getHostedPaymentPageRequest struct {
	MerchantAuthentication merchantAuthentication       `json:"merchantAuthentication"`
	TransactionRequest     *provider.TransactionRequest `json:"transactionRequest"`
	HostedPaymentSettings  *struct {
		Setting []hostedPaymentSetting `json:"setting"`
	} `json:"hostedPaymentSettings,omitempty"`
}

type getHostedPaymentPageResponse struct {
	Token    string      `json:"token"`
	Messages apiMessages `json:"messages"`
}

// GetHostedPaymentPage requests an Accept Hosted form token
func (c *Client) GetHostedPaymentPage(ctx context.Context, req *provider.HostedPaymentPageRequest) (string, error) {
	body := getHostedPaymentPageRequest{
		MerchantAuthentication: c.auth(),
		TransactionRequest:     req.Transaction,
	}
	if len(req.Settings) > 0 {
		body.HostedPaymentSettings = &struct {
			Setting []hostedPaymentSetting `json:"setting"`
		}{}
		names := make([]string, 0, len(req.Settings))
		for name := range req.Settings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			raw, err := json.Marshal(req.Settings[name])
			if err != nil {
				return "", &provider.ProviderError{Code: "MARSHAL_ERROR", Message: "Failed to prepare hosted payment settings", Details: err.Error()}
			}
			body.HostedPaymentSettings.Setting = append(body.HostedPaymentSettings.Setting, hostedPaymentSetting{
				SettingName:  name,
				SettingValue: string(raw),
			})
		}
	}

	var resp getHostedPaymentPageResponse
	if err := c.call(ctx, "getHostedPaymentPageRequest", body, &resp); err != nil {
		return "", err
	}
	if perr := resp.Messages.err(); perr != nil {
		return "", providerAPIError(perr)
	}

	return resp.Token, nil
}
