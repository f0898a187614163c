package authorizenet

import (
	"context"
	"regexp"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
	"go.uber.org/zap"
)

// "A duplicate record with ID 123456 already exists."
var duplicateProfileID = regexp.MustCompile(`ID\s+(\d+)`)

type getCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID      string                 `json:"customerProfileId"`
}

type getCustomerProfileResponse struct {
	Profile *struct {
		CustomerProfileID string `json:"customerProfileId"`
		Email             string `json:"email"`
		PaymentProfiles   []struct {
			CustomerPaymentProfileID string `json:"customerPaymentProfileId"`
			Payment                  struct {
				CreditCard *provider.CreditCard `json:"creditCard"`
			} `json:"payment"`
		} `json:"paymentProfiles"`
	} `json:"profile"`
	Messages apiMessages `json:"messages"`
}

// GetCustomerProfile returns provider.ErrProfileNotFound for deleted profiles
func (c *Client) GetCustomerProfile(ctx context.Context, profileID string) (*provider.CustomerProfile, error) {
	var resp getCustomerProfileResponse
	if err := c.call(ctx, "getCustomerProfileRequest", getCustomerProfileRequest{
		MerchantAuthentication: c.auth(),
		CustomerProfileID:      profileID,
	}, &resp); err != nil {
		return nil, err
	}

	if perr := resp.Messages.err(); perr != nil {
		if perr.Code == codeProfileNotFound {
			c.logger.Info("Customer profile no longer exists",
				zap.String("customer_profile_id", profileID))
			return nil, provider.ErrProfileNotFound
		}
		return nil, providerAPIError(perr)
	}
	if resp.Profile == nil {
		return nil, provider.ErrProfileNotFound
	}

	profile := &provider.CustomerProfile{
		CustomerProfileID: resp.Profile.CustomerProfileID,
		Email:             resp.Profile.Email,
	}
	for _, pp := range resp.Profile.PaymentProfiles {
		stored := provider.PaymentProfile{PaymentProfileID: pp.CustomerPaymentProfileID}
		if card := pp.Payment.CreditCard; card != nil {
			stored.CardNumber = card.CardNumber
			stored.CardType = card.CardType
			stored.ExpirationDate = card.ExpirationDate
		}
		profile.PaymentProfiles = append(profile.PaymentProfiles, stored)
	}

	return profile, nil
}

type createCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	Profile                struct {
		Email string `json:"email"`
	} `json:"profile"`
}

type createCustomerProfileResponse struct {
	CustomerProfileID string      `json:"customerProfileId"`
	Messages          apiMessages `json:"messages"`
}

// CreateCustomerProfile creates a profile and returns its ID.
// If the provider already holds a profile for email, that profile's ID is returned.
func (c *Client) CreateCustomerProfile(ctx context.Context, email string) (string, error) {
	req := createCustomerProfileRequest{MerchantAuthentication: c.auth()}
	req.Profile.Email = email

	var resp createCustomerProfileResponse
	if err := c.call(ctx, "createCustomerProfileRequest", req, &resp); err != nil {
		return "", err
	}

	if perr := resp.Messages.err(); perr != nil {
		if perr.Code == codeDuplicateProfile {
			if m := duplicateProfileID.FindStringSubmatch(perr.Message); len(m) == 2 {
				c.logger.Info("Reusing existing customer profile",
					zap.String("customer_profile_id", m[1]))
				return m[1], nil
			}
		}
		return "", providerAPIError(perr)
	}

	c.logger.Info("Customer profile created",
		zap.String("customer_profile_id", resp.CustomerProfileID))

	return resp.CustomerProfileID, nil
}
