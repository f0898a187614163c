package service

import (
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
	"github.com/wekeepgrowing/authorize-net-app/internal/domain/provider"
)

// Provider transaction statuses the mapper understands
const (
	StatusAuthorizedPendingCapture = "authorizedPendingCapture"
	StatusFDSPendingReview         = "FDSPendingReview"
)

// Notification event types
const (
	EventAuthorizationCreated = "net.authorize.payment.authorization.created"
	EventAuthCaptureCreated   = "net.authorize.payment.authcapture.created"
	EventCaptureCreated       = "net.authorize.payment.capture.created"
	EventPriorAuthCapture     = "net.authorize.payment.priorAuthCapture.created"
	EventVoidCreated          = "net.authorize.payment.void.created"
	EventRefundCreated        = "net.authorize.payment.refund.created"
	EventFraudHeld            = "net.authorize.payment.fraud.held"
	EventFraudApproved        = "net.authorize.payment.fraud.approved"
	EventFraudDeclined        = "net.authorize.payment.fraud.declined"
)

// NotificationEventTypes are the event types registered for every provider account
var NotificationEventTypes = []string{
	EventAuthorizationCreated,
	EventAuthCaptureCreated,
	EventCaptureCreated,
	EventPriorAuthCapture,
	EventVoidCreated,
	EventRefundCreated,
	EventFraudHeld,
	EventFraudApproved,
	EventFraudDeclined,
}

// StatusMapping is the host-side classification of a provider state
type StatusMapping struct {
	Result  entity.TransactionResult
	Actions []entity.AvailableAction
}

// MapStatus classifies a provider transaction status
func MapStatus(status string) (StatusMapping, error) {
	switch status {
	case StatusAuthorizedPendingCapture:
		return StatusMapping{
			Result:  entity.ResultAuthorizationSuccess,
			Actions: []entity.AvailableAction{entity.ActionCancel},
		}, nil
	case StatusFDSPendingReview:
		return StatusMapping{
			Result:  entity.ResultAuthorizationRequest,
			Actions: []entity.AvailableAction{},
		}, nil
	default:
		return StatusMapping{}, domainErrors.NewUnexpectedStatusError(status)
	}
}

// MapResponseCode classifies the synchronous response code of a create-transaction call
func MapResponseCode(code string) StatusMapping {
	switch code {
	case provider.ResponseCodeApproved:
		return StatusMapping{
			Result:  entity.ResultAuthorizationSuccess,
			Actions: []entity.AvailableAction{entity.ActionCancel},
		}
	case provider.ResponseCodeHeld:
		return StatusMapping{
			Result:  entity.ResultAuthorizationRequest,
			Actions: []entity.AvailableAction{},
		}
	default:
		return StatusMapping{
			Result:  entity.ResultAuthorizationFailure,
			Actions: []entity.AvailableAction{},
		}
	}
}

// MapNotificationEvent classifies a notification by its event type and falls back
// to the transaction status for event types without a fixed outcome.
func MapNotificationEvent(eventType, transactionStatus string) (StatusMapping, error) {
	switch eventType {
	case EventAuthorizationCreated, EventFraudApproved:
		return StatusMapping{
			Result:  entity.ResultAuthorizationSuccess,
			Actions: []entity.AvailableAction{entity.ActionCancel},
		}, nil
	case EventAuthCaptureCreated, EventCaptureCreated, EventPriorAuthCapture:
		return StatusMapping{
			Result:  entity.ResultChargeSuccess,
			Actions: []entity.AvailableAction{entity.ActionRefund},
		}, nil
	case EventVoidCreated:
		return StatusMapping{Result: entity.ResultCancelSuccess, Actions: []entity.AvailableAction{}}, nil
	case EventRefundCreated:
		return StatusMapping{Result: entity.ResultRefundSuccess, Actions: []entity.AvailableAction{}}, nil
	case EventFraudHeld:
		return StatusMapping{Result: entity.ResultAuthorizationRequest, Actions: []entity.AvailableAction{}}, nil
	case EventFraudDeclined:
		return StatusMapping{Result: entity.ResultAuthorizationFailure, Actions: []entity.AvailableAction{}}, nil
	default:
		return MapStatus(transactionStatus)
	}
}
