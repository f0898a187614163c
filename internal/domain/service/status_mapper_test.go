package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/authorize-net-app/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/authorize-net-app/internal/domain/errors"
)

func TestMapStatus(t *testing.T) {
	t.Run("authorized pending capture", func(t *testing.T) {
		mapping, err := MapStatus("authorizedPendingCapture")
		require.NoError(t, err)
		assert.Equal(t, entity.ResultAuthorizationSuccess, mapping.Result)
		assert.Equal(t, []entity.AvailableAction{entity.ActionCancel}, mapping.Actions)
	})

	t.Run("held for fraud review", func(t *testing.T) {
		mapping, err := MapStatus("FDSPendingReview")
		require.NoError(t, err)
		assert.Equal(t, entity.ResultAuthorizationRequest, mapping.Result)
		assert.Empty(t, mapping.Actions)
	})

	for _, status := range []string{"", "settledSuccessfully", "declined", "voided", "AUTHORIZEDPENDINGCAPTURE"} {
		t.Run("unexpected "+status, func(t *testing.T) {
			_, err := MapStatus(status)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainErrors.ErrUnexpectedStatus)
			assert.Equal(t, domainErrors.KindState, domainErrors.KindOf(err))
		})
	}
}

func TestMapResponseCode(t *testing.T) {
	tests := []struct {
		code    string
		result  entity.TransactionResult
		actions []entity.AvailableAction
	}{
		{code: "1", result: entity.ResultAuthorizationSuccess, actions: []entity.AvailableAction{entity.ActionCancel}},
		{code: "2", result: entity.ResultAuthorizationFailure, actions: []entity.AvailableAction{}},
		{code: "3", result: entity.ResultAuthorizationFailure, actions: []entity.AvailableAction{}},
		{code: "4", result: entity.ResultAuthorizationRequest, actions: []entity.AvailableAction{}},
		{code: "", result: entity.ResultAuthorizationFailure, actions: []entity.AvailableAction{}},
	}

	for _, tt := range tests {
		t.Run("code "+tt.code, func(t *testing.T) {
			mapping := MapResponseCode(tt.code)
			assert.Equal(t, tt.result, mapping.Result)
			assert.Equal(t, tt.actions, mapping.Actions)
		})
	}
}

func TestMapNotificationEvent(t *testing.T) {
	tests := []struct {
		eventType string
		status    string
		result    entity.TransactionResult
	}{
		{eventType: EventAuthorizationCreated, result: entity.ResultAuthorizationSuccess},
		{eventType: EventAuthCaptureCreated, result: entity.ResultChargeSuccess},
		{eventType: EventCaptureCreated, result: entity.ResultChargeSuccess},
		{eventType: EventPriorAuthCapture, result: entity.ResultChargeSuccess},
		{eventType: EventVoidCreated, result: entity.ResultCancelSuccess},
		{eventType: EventRefundCreated, result: entity.ResultRefundSuccess},
		{eventType: EventFraudHeld, result: entity.ResultAuthorizationRequest},
		{eventType: EventFraudDeclined, result: entity.ResultAuthorizationFailure},
		{eventType: EventFraudApproved, result: entity.ResultAuthorizationSuccess},
		{eventType: "net.authorize.customer.created", status: "FDSPendingReview", result: entity.ResultAuthorizationRequest},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			mapping, err := MapNotificationEvent(tt.eventType, tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.result, mapping.Result)
		})
	}

	t.Run("unknown event with unknown status", func(t *testing.T) {
		_, err := MapNotificationEvent("net.authorize.customer.created", "settledSuccessfully")
		assert.ErrorIs(t, err, domainErrors.ErrUnexpectedStatus)
	})
}
