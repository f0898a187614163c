package gateway

import (
	"context"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/correlation"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

// Field limits of the provider API
const (
	maxLineItems         = 30
	maxItemIDLength      = 31
	maxItemNameLength    = 31
	maxItemDescLength    = 255
	maxNameLength        = 50
	maxAddressLength     = 60
	maxCityLength        = 40
	maxZipLength         = 20
	maxPhoneLength       = 25
	maxDescriptionLength = 255
)

// CustomerProfileResolver finds or creates the provider customer profile of an email
type CustomerProfileResolver interface {
	GetOrCreateProviderCustomerID(ctx context.Context, tenant string, client provider.CustomerProfileClient, email string) (string, error)
}

// BuildOptions selects the optional parts of a request
type BuildOptions struct {
	TransactionType provider.TransactionType

	// AttachCustomerProfile adds the buyer's customer profile when an email is known
	AttachCustomerProfile bool
}

// RequestBuilder assembles the provider request shared by all gateways
type RequestBuilder struct {
	profiles CustomerProfileResolver
	logger   *zap.Logger
}

func NewRequestBuilder(profiles CustomerProfileResolver, logger *zap.Logger) *RequestBuilder {
	return &RequestBuilder{
		profiles: profiles,
		logger:   logger,
	}
}

// Build returns a transaction request for the session's source object.
// Both addresses are required; nothing is sent to the provider when one is missing.
func (b *RequestBuilder) Build(ctx context.Context, sc *SessionContext, opts BuildOptions) (*provider.TransactionRequest, error) {
	source := sc.SourceObject
	if source.BillingAddress == nil {
		return nil, domainErrors.NewInvariantViolationError("billing address is missing on the source object")
	}
	if source.ShippingAddress == nil {
		return nil, domainErrors.NewInvariantViolationError("shipping address is missing on the source object")
	}

	description := correlation.Encode(sc.Transaction.ID)
	if len(description) > maxDescriptionLength {
		return nil, domainErrors.NewInvariantViolationError("transaction id is too long to correlate")
	}

	amount := sc.Action.Amount.Round(2)
	req := &provider.TransactionRequest{
		TransactionType: opts.TransactionType,
		Amount:          &amount,
		CurrencyCode:    sc.Action.Currency,
		Order: &provider.Order{
			Description: description,
		},
		LineItems: buildLineItems(source.Lines),
		BillTo:    buildAddress(source.BillingAddress),
		ShipTo:    buildAddress(source.ShippingAddress),
	}

	email := source.CustomerEmail()
	if email != "" {
		req.Customer = &provider.Customer{Email: email}
	}

	if opts.AttachCustomerProfile && email != "" {
		profileID, err := b.profiles.GetOrCreateProviderCustomerID(ctx, sc.Tenant, sc.Client, email)
		if err != nil {
			return nil, err
		}
		req.Profile = &provider.ProfilePayment{CustomerProfileID: profileID}
		// The profile already carries the email
		req.Customer = nil
	}

	return req, nil
}

func buildLineItems(lines []entity.Line) *provider.LineItems {
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLineItems {
		lines = lines[:maxLineItems]
	}

	items := make([]provider.LineItem, 0, len(lines))
	for i, line := range lines {
		itemID := line.ProductSKU
		if itemID == "" {
			itemID = strconv.Itoa(i + 1)
		}
		name := line.ProductName
		if name == "" {
			name = itemID
		}
		items = append(items, provider.LineItem{
			ItemID:      truncate(itemID, maxItemIDLength),
			Name:        truncate(name, maxItemNameLength),
			Description: truncate(line.VariantName, maxItemDescLength),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Round(2),
		})
	}
	return &provider.LineItems{LineItem: items}
}

func buildAddress(a *entity.Address) *provider.CustomerAddress {
	street := a.StreetAddress1
	if a.StreetAddress2 != "" {
		street += " " + a.StreetAddress2
	}
	return &provider.CustomerAddress{
		FirstName:   truncate(a.FirstName, maxNameLength),
		LastName:    truncate(a.LastName, maxNameLength),
		Company:     truncate(a.CompanyName, maxNameLength),
		Address:     truncate(street, maxAddressLength),
		City:        truncate(a.City, maxCityLength),
		State:       truncate(a.CountryArea, maxCityLength),
		Zip:         truncate(a.PostalCode, maxZipLength),
		Country:     a.Country.Code,
		PhoneNumber: truncate(a.Phone, maxPhoneLength),
	}
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
