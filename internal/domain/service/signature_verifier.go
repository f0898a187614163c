package service

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
)

// SignatureHeader carries the provider notification signature
const SignatureHeader = "X-ANET-Signature"

const signaturePrefix = "sha512="

// Sign returns the header value for body signed with key
func Sign(rawBody []byte, signatureKey string) string {
	mac := hmac.New(sha512.New, []byte(signatureKey))
	mac.Write(rawBody)
	return signaturePrefix + strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature checks the HMAC-SHA512 of the raw, unparsed notification body.
// The header comparison is case-insensitive.
func VerifySignature(rawBody []byte, signatureHeader, signatureKey string) error {
	if signatureKey == "" {
		return domainErrors.NewInvalidSignatureError("signature key is not configured")
	}
	if signatureHeader == "" {
		return domainErrors.NewInvalidSignatureError("signature header is missing")
	}

	header := strings.ToLower(strings.TrimSpace(signatureHeader))
	if !strings.HasPrefix(header, signaturePrefix) {
		return domainErrors.NewInvalidSignatureError("unsupported signature algorithm")
	}

	expected := strings.ToLower(Sign(rawBody, signatureKey))
	if !hmac.Equal([]byte(header), []byte(expected)) {
		return domainErrors.NewInvalidSignatureError("signature mismatch")
	}
	return nil
}
