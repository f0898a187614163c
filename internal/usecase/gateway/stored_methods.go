package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

const paymentMethodTypeCard = "card"

// listProfilePaymentMethods exposes the cards stored on the buyer's cached customer profile.
// A buyer without a cached profile simply has no stored methods.
func listProfilePaymentMethods(ctx context.Context, sc *SessionContext, gatewayType entity.GatewayType) ([]entity.PaymentMethod, error) {
	email := sc.SourceObject.CustomerEmail()
	if email == "" || sc.Config == nil {
		return []entity.PaymentMethod{}, nil
	}

	profileID, ok := sc.Config.FindCustomerProfile(email)
	if !ok {
		return []entity.PaymentMethod{}, nil
	}

	profile, err := sc.Client.GetCustomerProfile(ctx, profileID)
	if errors.Is(err, provider.ErrProfileNotFound) {
		return []entity.PaymentMethod{}, nil
	}
	if err != nil {
		return nil, err
	}

	methods := make([]entity.PaymentMethod, 0, len(profile.PaymentProfiles))
	for _, pp := range profile.PaymentProfiles {
		methods = append(methods, entity.PaymentMethod{
			ID:             pp.PaymentProfileID,
			Type:           paymentMethodTypeCard,
			SupportedFlows: []string{"INTERACTIVE"},
			CreditCardInfo: &entity.CreditCardInfo{
				Brand:      strings.ToLower(pp.CardType),
				LastDigits: lastDigits(pp.CardNumber),
			},
			GatewayType:       gatewayType,
			ProviderProfileID: profile.CustomerProfileID,
		})
	}
	return methods, nil
}

// lastDigits returns the last four characters of a masked card number such as XXXX1111
func lastDigits(masked string) string {
	if len(masked) <= 4 {
		return masked
	}
	return masked[len(masked)-4:]
}
