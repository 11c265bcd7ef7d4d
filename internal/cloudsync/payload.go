package cloudsync

import (
	regmodels "basecamp/internal/registration/models"
	setmodels "basecamp/internal/settings/models"
)

// Push actions understood by the remote Apps Script webhook.
const (
	ActionNewRegistration = "NEW_REGISTRATION"
	ActionStatusUpdate    = "STATUS_UPDATE"
	ActionTestConnection  = "TEST_CONNECTION"
)

// Payload is the single JSON object sent per push. The remote service dedups
// NEW_REGISTRATION events by the registration's booking id and decides which
// emails to send from the bundled preference flags; the client never inspects
// the response.
type Payload struct {
	Action       string                        `json:"action"`
	Registration *regmodels.Registration       `json:"registration,omitempty"`
	AdminEmail   string                        `json:"adminEmail"`
	Prefs        *setmodels.NotificationPrefs  `json:"notificationPrefs,omitempty"`
	// ShouldNotify carries the status-trigger decision on STATUS_UPDATE events
	// so the remote service can decide independently whether to email the
	// participant.
	ShouldNotify *bool  `json:"shouldNotify,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}
