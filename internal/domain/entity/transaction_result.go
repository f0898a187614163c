package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResult is the host's vocabulary for the outcome of a payment step
type TransactionResult string

const (
	ResultAuthorizationSuccess        TransactionResult = "AUTHORIZATION_SUCCESS"
	ResultAuthorizationFailure        TransactionResult = "AUTHORIZATION_FAILURE"
	ResultAuthorizationRequest        TransactionResult = "AUTHORIZATION_REQUEST"
	ResultAuthorizationActionRequired TransactionResult = "AUTHORIZATION_ACTION_REQUIRED"
	ResultChargeSuccess               TransactionResult = "CHARGE_SUCCESS"
	ResultChargeFailure               TransactionResult = "CHARGE_FAILURE"
	ResultCancelSuccess               TransactionResult = "CANCEL_SUCCESS"
	ResultCancelFailure               TransactionResult = "CANCEL_FAILURE"
	ResultRefundSuccess               TransactionResult = "REFUND_SUCCESS"
	ResultRefundFailure               TransactionResult = "REFUND_FAILURE"
)

// AvailableAction is a follow-up the host may offer on a transaction
type AvailableAction string

const (
	ActionCancel AvailableAction = "CANCEL"
	ActionCharge AvailableAction = "CHARGE"
	ActionRefund AvailableAction = "REFUND"
)

// GatewayType is the discriminator of the app-defined data blob
type GatewayType string

const (
	GatewayAcceptHosted GatewayType = "acceptHosted"
	GatewayAcceptJs     GatewayType = "acceptJs"
	GatewayPayPal       GatewayType = "paypal"
	GatewayApplePay     GatewayType = "applePay"
)

// GatewayTypeOf reads the discriminator tag of a data blob without decoding the rest of it
func GatewayTypeOf(data json.RawMessage) (GatewayType, error) {
	var tag struct {
		Type GatewayType `json:"type"`
	}
	if len(data) == 0 {
		return "", nil
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return "", err
	}
	return tag.Type, nil
}

// TransactionSessionResponse answers initialize-session and process-session events
type TransactionSessionResponse struct {
	PSPReference string            `json:"pspReference,omitempty"`
	Result       TransactionResult `json:"result"`
	Amount       decimal.Decimal   `json:"amount"`
	Data         any               `json:"data,omitempty"`
	Message      string            `json:"message,omitempty"`
	Actions      []AvailableAction `json:"actions,omitempty"`
	ExternalURL  string            `json:"externalUrl,omitempty"`
	Time         *time.Time        `json:"time,omitempty"`
}

// TransactionActionResponse answers cancelation and refund requests
type TransactionActionResponse struct {
	PSPReference string            `json:"pspReference,omitempty"`
	Result       TransactionResult `json:"result"`
	Amount       decimal.Decimal   `json:"amount"`
	Message      string            `json:"message,omitempty"`
	Time         *time.Time        `json:"time,omitempty"`
}

// PaymentGatewayInitializeSessionResponse carries bootstrap data keyed by gateway type
type PaymentGatewayInitializeSessionResponse struct {
	Data map[GatewayType]any `json:"data"`
}

// PaymentMethod is a stored card exposed to the host
type PaymentMethod struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Name              string          `json:"name,omitempty"`
	SupportedFlows    []string        `json:"supportedPaymentFlows"`
	CreditCardInfo    *CreditCardInfo `json:"creditCardInfo,omitempty"`
	GatewayType       GatewayType     `json:"gateway"`
	ProviderProfileID string          `json:"-"`
}

// CreditCardInfo is the masked card data of a stored payment method
type CreditCardInfo struct {
	Brand      string `json:"brand"`
	LastDigits string `json:"lastDigits"`
	ExpMonth   int    `json:"expMonth,omitempty"`
	ExpYear    int    `json:"expYear,omitempty"`
}

// ListStoredPaymentMethodsResponse answers list-stored-payment-methods events
type ListStoredPaymentMethodsResponse struct {
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// TransactionEventReport is the mutation input reporting a provider-side event to the host
type TransactionEventReport struct {
	TransactionID    string            `json:"id"`
	Amount           decimal.Decimal   `json:"amount"`
	PSPReference     string            `json:"pspReference"`
	Time             time.Time         `json:"time"`
	Type             TransactionResult `json:"type"`
	Message          string            `json:"message,omitempty"`
	AvailableActions []AvailableAction `json:"availableActions,omitempty"`
}
