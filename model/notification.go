package model

import (
	"time"
)

// Notification is a derived expiry warning for an agreement nearing its end
// date. Notifications are regenerated from the agreement collection, never
// authored independently.
type Notification struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	AgreementID     string    `json:"agreement_id"`
	ClientName      string    `json:"client_name"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	Priority        string    `json:"priority"` // high, medium, low
	CreatedAt       time.Time `json:"created_at"`
	Read            bool      `json:"read"`
	ActionRequired  bool      `json:"action_required"`
}

// Notification types.
const (
	NotifyExpiryWarning = "expiry_warning"
)

// Notification priorities, lowercase unlike agreement priorities.
const (
	NotifyHigh   = "high"
	NotifyMedium = "medium"
	NotifyLow    = "low"
)
