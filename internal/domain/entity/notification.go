package entity

import "time"

// NotificationPayload identifies the provider entity a notification is about
type NotificationPayload struct {
	EntityName string `json:"entityName"`
	ID         string `json:"id" validate:"required"`
}

// ProviderNotification is an asynchronous event pushed by Authorize.net
type ProviderNotification struct {
	NotificationID string              `json:"notificationId" validate:"required"`
	EventType      string              `json:"eventType" validate:"required"`
	EventDate      time.Time           `json:"eventDate"`
	WebhookID      string              `json:"webhookId"`
	Payload        NotificationPayload `json:"payload"`
}
