package notifications

import "github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"

// NotificationInterface defines the contract for operational alerting
type NotificationInterface interface {
	SendAlert(alert *models.Alert) error
}
