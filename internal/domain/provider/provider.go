package provider

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
)

// TransactionClient covers the Authorize.net transaction API
type TransactionClient interface {
	// CreateTransaction submits an auth, void, refund or continuation request
	CreateTransaction(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error)

	// GetTransactionDetails fetches a transaction by its provider ID
	GetTransactionDetails(ctx context.Context, transID string) (*TransactionDetails, error)

	// GetHostedPaymentPage obtains a form token for the hosted payment page
	GetHostedPaymentPage(ctx context.Context, req *HostedPaymentPageRequest) (string, error)
}

// CustomerProfileClient covers the customer information manager API
type CustomerProfileClient interface {
	// GetCustomerProfile returns ErrProfileNotFound when the profile no longer exists
	GetCustomerProfile(ctx context.Context, profileID string) (*CustomerProfile, error)

	// CreateCustomerProfile creates a profile for email and returns its ID
	CreateCustomerProfile(ctx context.Context, email string) (string, error)
}

// WebhookClient covers the webhooks REST API
type WebhookClient interface {
	ListWebhooks(ctx context.Context) ([]Webhook, error)
	CreateWebhook(ctx context.Context, url string, eventTypes []string) (*Webhook, error)
}

// Client is the full capability set of one provider account
type Client interface {
	TransactionClient
	CustomerProfileClient
	WebhookClient
}

// ClientFactory builds a client bound to one provider account's credentials
type ClientFactory interface {
	NewClient(account *entity.ProviderAccount) Client
}

// ErrProfileNotFound signals that a referenced customer profile does not exist anymore
var ErrProfileNotFound = errors.New("customer profile not found")

// TransactionType values accepted by createTransactionRequest
type TransactionType string

const (
	TransactionTypeAuthOnly         TransactionType = "authOnlyTransaction"
	TransactionTypeAuthCapture      TransactionType = "authCaptureTransaction"
	TransactionTypeVoid             TransactionType = "voidTransaction"
	TransactionTypeRefund           TransactionType = "refundTransaction"
	TransactionTypeAuthOnlyContinue TransactionType = "authOnlyContinueTransaction"
)

// Response codes of transactionResponse.responseCode
const (
	ResponseCodeApproved = "1"
	ResponseCodeDeclined = "2"
	ResponseCodeError    = "3"
	ResponseCodeHeld     = "4"
)

// TransactionRequest is the normalized charge/authorization request
type TransactionRequest struct {
	TransactionType TransactionType  `json:"transactionType"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	CurrencyCode    string           `json:"currencyCode,omitempty"`
	Payment         *Payment         `json:"payment,omitempty"`
	Profile         *ProfilePayment  `json:"profile,omitempty"`
	RefTransID      string           `json:"refTransId,omitempty"`
	Order           *Order           `json:"order,omitempty"`
	LineItems       *LineItems       `json:"lineItems,omitempty"`
	Customer        *Customer        `json:"customer,omitempty"`
	BillTo          *CustomerAddress `json:"billTo,omitempty"`
	ShipTo          *CustomerAddress `json:"shipTo,omitempty"`
}

// Payment is the payment instrument of a transaction request
type Payment struct {
	CreditCard *CreditCard `json:"creditCard,omitempty"`
	OpaqueData *OpaqueData `json:"opaqueData,omitempty"`
	PayPal     *PayPal     `json:"payPal,omitempty"`
}

// CreditCard carries masked card data for refunds
type CreditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CardType       string `json:"cardType,omitempty"`
}

// OpaqueData is a client-side tokenized payment nonce
type OpaqueData struct {
	DataDescriptor string `json:"dataDescriptor"`
	DataValue      string `json:"dataValue"`
}

// PayPal holds redirect URLs or the payer of a continuation
type PayPal struct {
	SuccessURL string `json:"successUrl,omitempty"`
	CancelURL  string `json:"cancelUrl,omitempty"`
	PayerID    string `json:"payerID,omitempty"`
}

// ProfilePayment references a stored customer profile
type ProfilePayment struct {
	CustomerProfileID string                   `json:"customerProfileId"`
	PaymentProfile    *PaymentProfileReference `json:"paymentProfile,omitempty"`
}

// PaymentProfileReference selects one stored payment profile
type PaymentProfileReference struct {
	PaymentProfileID string `json:"paymentProfileId"`
}

// Order holds the free-text fields of a transaction
type Order struct {
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Description   string `json:"description,omitempty"`
}

// LineItems wraps the line item list as the API expects
type LineItems struct {
	LineItem []LineItem `json:"lineItem"`
}

// LineItem is one itemized order line
type LineItem struct {
	ItemID      string          `json:"itemId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Customer identifies the buyer
type Customer struct {
	Email string `json:"email,omitempty"`
}

// CustomerAddress is a billing or shipping address
type CustomerAddress struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Company     string `json:"company,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// TransactionResponse is the outcome of createTransactionRequest
type TransactionResponse struct {
	ResponseCode        string
	TransID             string
	RefTransID          string
	AuthCode            string
	AccountNumber       string
	AccountType         string
	SecureAcceptanceURL string
	Messages            []Message
	Errors              []Message
}

// Approved reports whether the provider approved the request
func (r *TransactionResponse) Approved() bool {
	return r.ResponseCode == ResponseCodeApproved
}

// FailureMessage returns the first provider error text, if any
func (r *TransactionResponse) FailureMessage() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Text
	}
	if len(r.Messages) > 0 {
		return r.Messages[0].Text
	}
	return ""
}

// Message is a code/text pair reported by the provider
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// TransactionDetails is the provider's full view of a transaction
type TransactionDetails struct {
	TransID           string
	RefTransID        string
	TransactionType   string
	TransactionStatus string
	ResponseCode      string
	AuthAmount        decimal.Decimal
	SettleAmount      decimal.Decimal
	SubmitTime        time.Time
	Order             Order
	Payment           Payment
	CustomerEmail     string
}

// HostedPaymentPageRequest asks for an Accept Hosted form token
type HostedPaymentPageRequest struct {
	Transaction *TransactionRequest
	Settings    map[string]any
}

// CustomerProfile is a stored customer profile with its payment profiles
type CustomerProfile struct {
	CustomerProfileID string
	Email             string
	PaymentProfiles   []PaymentProfile
}

// PaymentProfile is one stored payment instrument
type PaymentProfile struct {
	PaymentProfileID string
	CardNumber       string
	CardType         string
	ExpirationDate   string
}

// Webhook is a registered notification endpoint
type Webhook struct {
	WebhookID  string   `json:"webhookId,omitempty"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	EventTypes []string `json:"eventTypes"`
	Status     string   `json:"status"`
}

// ProviderError is a provider-reported failure
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
