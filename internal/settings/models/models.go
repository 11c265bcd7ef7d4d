package models

import (
	"encoding/json"
	"fmt"
	"reflect"

	regmodels "basecamp/internal/registration/models"
)

// NotificationPrefs decides which emails the remote service is asked to send.
// StatusTriggers maps each verification status to whether a transition into it
// should notify the participant.
type NotificationPrefs struct {
	NotifyAdminOnNew bool                       `json:"notifyAdminOnNew"`
	NotifyUserOnNew  bool                       `json:"notifyUserOnNew"`
	StatusTriggers   map[regmodels.Status]bool  `json:"statusTriggers"`
}

// FormConfig is the catalog of valid trip options. The core consumes it as a
// validation reference; the form layer owns its presentation.
type FormConfig struct {
	Mountains         []string `json:"mountains"`
	TripTypes         []string `json:"tripTypes"`
	PackageCategories []string `json:"packageCategories"`
}

// BankAccount holds the payment details shown on the confirmation modal.
type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// AdminSettings is the singleton operator configuration.
type AdminSettings struct {
	AdminEmail        string `json:"adminEmail"`
	AdminUsername     string `json:"adminUsername"`
	AdminPasswordHash string `json:"-"` // never serialized to API responses
	// ScriptURL is the remote webhook endpoint. Empty disables all sync attempts.
	ScriptURL         string            `json:"scriptUrl"`
	NotificationPrefs NotificationPrefs `json:"notificationPrefs"`
	FormConfig        FormConfig        `json:"formConfig"`
	BankAccount       BankAccount       `json:"bankAccount"`
	EnableAISummary   bool              `json:"enableAiSummary"`
}

// storedSettings is the persisted shape. Pointer fields distinguish "absent"
// from zero values so Merge can backfill keys introduced by later versions.
type storedSettings struct {
	AdminEmail        *string                 `json:"adminEmail"`
	AdminUsername     *string                 `json:"adminUsername"`
	AdminPasswordHash *string                 `json:"adminPasswordHash"`
	ScriptURL         *string                 `json:"scriptUrl"`
	NotificationPrefs *storedPrefs            `json:"notificationPrefs"`
	FormConfig        *FormConfig             `json:"formConfig"`
	BankAccount       *BankAccount            `json:"bankAccount"`
	EnableAISummary   *bool                   `json:"enableAiSummary"`
}

type storedPrefs struct {
	NotifyAdminOnNew *bool                     `json:"notifyAdminOnNew"`
	NotifyUserOnNew  *bool                     `json:"notifyUserOnNew"`
	StatusTriggers   map[regmodels.Status]bool `json:"statusTriggers"`
}

// Defaults returns the hard-coded default settings. Every preference key a
// later version may read is present here, so merging a stale persisted object
// over these always yields a complete configuration.
func Defaults() AdminSettings {
	return AdminSettings{
		AdminEmail:    "jejaklangkah.nusantara.id@gmail.com",
		AdminUsername: "Jejak Langkah",
		NotificationPrefs: NotificationPrefs{
			NotifyAdminOnNew: true,
			NotifyUserOnNew:  true,
			StatusTriggers: map[regmodels.Status]bool{
				regmodels.StatusVerified:   true,
				regmodels.StatusProcessing: false,
				regmodels.StatusRejected:   true,
			},
		},
		FormConfig: FormConfig{
			Mountains: []string{
				"Gunung Semeru", "Gunung Rinjani", "Gunung Prau", "Gunung Seminung",
				"Gunung Pesagi", "Gunung Kerinci", "Gunung Merbabu", "Gunung Gede",
				"Gunung Lawu", "Gunung Slamet", "Gunung Sumbing", "Gunung Sindoro",
				"Gunung Dempo", "Gunung Tanggamus", "Gunung Pesawaran", "Gunung Ratai",
				"Gunung Kembang",
			},
			TripTypes:         []string{"Private Trip", "Open Trip", "Share Cost"},
			PackageCategories: []string{"REGULER", "Paket A", "Paket B"},
		},
		BankAccount: BankAccount{
			BankName:      "BRI",
			AccountNumber: "570401009559504",
			AccountName:   "ILHAM FADHILAH",
		},
	}
}

// Decode merges a persisted partial settings payload over Defaults. A nil or
// empty payload yields the defaults. Override rules: a top-level field present
// in the payload replaces the default wholesale, except StatusTriggers, which
// merges key-wise so triggers for statuses added after the payload was saved
// keep their default.
func Decode(payload []byte) (AdminSettings, error) {
	merged := Defaults()
	if len(payload) == 0 {
		return merged, nil
	}
	var stored storedSettings
	if err := json.Unmarshal(payload, &stored); err != nil {
		return AdminSettings{}, fmt.Errorf("decode settings: %w", err)
	}

	if stored.AdminEmail != nil {
		merged.AdminEmail = *stored.AdminEmail
	}
	if stored.AdminUsername != nil {
		merged.AdminUsername = *stored.AdminUsername
	}
	if stored.AdminPasswordHash != nil {
		merged.AdminPasswordHash = *stored.AdminPasswordHash
	}
	if stored.ScriptURL != nil {
		merged.ScriptURL = *stored.ScriptURL
	}
	if stored.NotificationPrefs != nil {
		if stored.NotificationPrefs.NotifyAdminOnNew != nil {
			merged.NotificationPrefs.NotifyAdminOnNew = *stored.NotificationPrefs.NotifyAdminOnNew
		}
		if stored.NotificationPrefs.NotifyUserOnNew != nil {
			merged.NotificationPrefs.NotifyUserOnNew = *stored.NotificationPrefs.NotifyUserOnNew
		}
		for status, trigger := range stored.NotificationPrefs.StatusTriggers {
			merged.NotificationPrefs.StatusTriggers[status] = trigger
		}
	}
	if stored.FormConfig != nil {
		merged.FormConfig = *stored.FormConfig
	}
	if stored.BankAccount != nil {
		merged.BankAccount = *stored.BankAccount
	}
	if stored.EnableAISummary != nil {
		merged.EnableAISummary = *stored.EnableAISummary
	}
	return merged, nil
}

// Encode serializes settings for persistence, including the password hash the
// API-facing JSON omits.
func Encode(s AdminSettings) ([]byte, error) {
	stored := storedSettings{
		AdminEmail:        &s.AdminEmail,
		AdminUsername:     &s.AdminUsername,
		AdminPasswordHash: &s.AdminPasswordHash,
		ScriptURL:         &s.ScriptURL,
		NotificationPrefs: &storedPrefs{
			NotifyAdminOnNew: &s.NotificationPrefs.NotifyAdminOnNew,
			NotifyUserOnNew:  &s.NotificationPrefs.NotifyUserOnNew,
			StatusTriggers:   s.NotificationPrefs.StatusTriggers,
		},
		FormConfig:      &s.FormConfig,
		BankAccount:     &s.BankAccount,
		EnableAISummary: &s.EnableAISummary,
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return payload, nil
}

// Equal reports whether two settings snapshots are structurally identical.
// It is a pure function over the two snapshots; dirty-state tracking derives
// from it rather than from an ad hoc flag.
func Equal(a, b AdminSettings) bool {
	return reflect.DeepEqual(a, b)
}
