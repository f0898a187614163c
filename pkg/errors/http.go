package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ToHTTPError renders err for echo. AppErrors expose only their message, so
// provider and host causes stay in the logs.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return echo.NewHTTPError(ToHTTPStatus(appErr.Code()), appErr.Message())
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		return echoErr
	}
	return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// FromHTTPError turns router and middleware errors (404, 405, 413) into AppErrors
func FromHTTPError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return err
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		return NewAppError(codeForStatus(echoErr.Code), msg, echoErr.Internal)
	}

	return NewAppError(ErrInternal, http.StatusText(http.StatusInternalServerError), err)
}

// codeForStatus inverts codeMapping; statuses without a code of their own,
// such as 405 and 413, are client errors
func codeForStatus(status int) string {
	for code, pair := range codeMapping {
		if pair.HTTPStatus == status {
			return code
		}
	}
	if status >= 400 && status < 500 {
		return ErrInvalidArgument
	}
	return ErrInternal
}
