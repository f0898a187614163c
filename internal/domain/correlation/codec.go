// Package correlation links host transaction IDs to provider transactions.
//
// The provider's reference field is too short for host IDs, so the host ID travels
// encoded in the order description instead. Decode(Encode(id)) == id for every string.
package correlation

import (
	"encoding/base64"
	"strings"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
)

// Prefix marks descriptions written by this app
const Prefix = "txn_"

// MetadataKey is the host private metadata key that holds the provider transaction ID
const MetadataKey = "authorizeTransactionId"

// Strict rejects non-zero trailing bits so every host ID has exactly one encoding
var encoding = base64.RawURLEncoding.Strict()

// Encode returns a value safe for the provider's order description field
func Encode(hostTransactionID string) string {
	return Prefix + encoding.EncodeToString([]byte(hostTransactionID))
}

// Decode reverses Encode
func Decode(field string) (string, error) {
	if field == "" {
		return "", domainErrors.NewCorrelationDecodeError(field, nil)
	}
	if !strings.HasPrefix(field, Prefix) {
		return "", domainErrors.NewCorrelationDecodeError(field, nil)
	}
	// the decoder skips line breaks
	if strings.ContainsAny(field, "\r\n") {
		return "", domainErrors.NewCorrelationDecodeError(field, nil)
	}

	raw, err := encoding.DecodeString(strings.TrimPrefix(field, Prefix))
	if err != nil {
		return "", domainErrors.NewCorrelationDecodeError(field, err)
	}
	return string(raw), nil
}

// FromMetadata returns the provider transaction ID stored in host private metadata
func FromMetadata(items []entity.MetadataItem) (string, bool) {
	for _, item := range items {
		if item.Key == MetadataKey && item.Value != "" {
			return item.Value, true
		}
	}
	return "", false
}
