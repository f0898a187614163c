package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	pkgErrors "github.com/wekeepgrowing/authorize-net-app/pkg/errors"
)

// kindCodes maps payment error kinds to transport error codes
var kindCodes = map[domainErrors.Kind]string{
	domainErrors.KindConfiguration: pkgErrors.ErrPrecondition,
	domainErrors.KindValidation:    pkgErrors.ErrInvalidArgument,
	domainErrors.KindSignature:     pkgErrors.ErrUnauthenticated,
	domainErrors.KindCorrelation:   pkgErrors.ErrPrecondition,
	domainErrors.KindInvariant:     pkgErrors.ErrPrecondition,
	domainErrors.KindState:         pkgErrors.ErrPrecondition,
	domainErrors.KindProviderAPI:   pkgErrors.ErrUpstream,
	domainErrors.KindHostAPI:       pkgErrors.ErrUpstream,
	domainErrors.KindNetwork:       pkgErrors.ErrUpstream,
}

// toAppError classifies err for the transport layer
func toAppError(err error) error {
	var appErr *pkgErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgErrors.NewAppError(pkgErrors.ErrTimeout, "request deadline exceeded", err)
	}
	if code, ok := kindCodes[domainErrors.KindOf(err)]; ok {
		return pkgErrors.NewAppError(code, err.Error(), err)
	}
	return pkgErrors.NewAppError(pkgErrors.ErrInternal, "internal error", err)
}

// respondError logs err and writes it as a JSON error response
func respondError(c echo.Context, logger *zap.Logger, err error, msg string, fields ...zap.Field) error {
	appErr := toAppError(err)
	pkgErrors.LogError(logger, appErr, msg, fields...)

	httpErr := pkgErrors.ToHTTPError(appErr)
	body := echo.Map{"error": httpErr.Message}
	var pe *domainErrors.PaymentError
	if errors.As(err, &pe) {
		body["code"] = pe.Type
		body["message"] = pe.Message
	}
	return c.JSON(httpErr.Code, body)
}
