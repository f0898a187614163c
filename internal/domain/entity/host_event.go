package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MetadataItem is a key/value pair of host-side metadata
type MetadataItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Country is the host's country reference
type Country struct {
	Code string `json:"code"`
}

// Address is a host-platform postal address
type Address struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	CompanyName    string  `json:"companyName"`
	StreetAddress1 string  `json:"streetAddress1"`
	StreetAddress2 string  `json:"streetAddress2"`
	City           string  `json:"city"`
	PostalCode     string  `json:"postalCode"`
	CountryArea    string  `json:"countryArea"`
	Country        Country `json:"country"`
	Phone          string  `json:"phone"`
}

// Channel is a host sales channel reference
type Channel struct {
	Slug string `json:"slug"`
}

// User is a host user reference
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Line is one checkout or order line
type Line struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	VariantName string          `json:"variantName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// SourceObject is the checkout or order a transaction belongs to
type SourceObject struct {
	Typename        string   `json:"__typename"`
	ID              string   `json:"id"`
	Lines           []Line   `json:"lines"`
	BillingAddress  *Address `json:"billingAddress"`
	ShippingAddress *Address `json:"shippingAddress"`
	Channel         Channel  `json:"channel"`
	UserEmail       string   `json:"userEmail"`
	User            *User    `json:"user"`
}

// CustomerEmail returns the best known email of the buyer
func (s *SourceObject) CustomerEmail() string {
	if s == nil {
		return ""
	}
	if s.UserEmail != "" {
		return s.UserEmail
	}
	if s.User != nil {
		return s.User.Email
	}
	return ""
}

// TransactionAction is the amount the host asks to move
type TransactionAction struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency" validate:"required,len=3"`
	ActionType string          `json:"actionType"`
}

// Transaction is the host transaction item an event refers to
type Transaction struct {
	ID              string         `json:"id" validate:"required"`
	PSPReference    string         `json:"pspReference"`
	PrivateMetadata []MetadataItem `json:"privateMetadata"`
}

// PaymentGatewayInitializeSessionEvent asks for gateway bootstrap data
type PaymentGatewayInitializeSessionEvent struct {
	Amount       decimal.Decimal `json:"amount"`
	SourceObject SourceObject    `json:"sourceObject"`
	Data         json.RawMessage `json:"data"`
}

// TransactionSessionEvent is the payload of initialize-session and process-session events
type TransactionSessionEvent struct {
	Action            TransactionAction `json:"action"`
	SourceObject      SourceObject      `json:"sourceObject"`
	Transaction       Transaction       `json:"transaction"`
	MerchantReference string            `json:"merchantReference"`
	Data              json.RawMessage   `json:"data"`
}

// TransactionActionRequestedEvent is the payload of cancelation and refund requests
type TransactionActionRequestedEvent struct {
	Action       TransactionAction `json:"action"`
	SourceObject SourceObject      `json:"sourceObject"`
	Transaction  Transaction       `json:"transaction"`
}

// ListStoredPaymentMethodsEvent asks for the saved payment methods of a user
type ListStoredPaymentMethodsEvent struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Channel  Channel         `json:"channel"`
	User     User            `json:"user"`
}
