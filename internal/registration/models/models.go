package models

import (
	"strconv"
	"strings"
	"time"
)

// Status is the verification state of a registration. The canonical values are
// the Indonesian labels shown to participants and written to the remote sheet.
type Status string

const (
	StatusPending    Status = "Menunggu Verifikasi"
	StatusVerified   Status = "Terverifikasi"
	StatusProcessing Status = "Diproses"
	StatusRejected   Status = "Dibatalkan"
)

// Statuses lists every legal status value.
func Statuses() []Status {
	return []Status{StatusPending, StatusVerified, StatusProcessing, StatusRejected}
}

// IsValid reports whether s is one of the four defined states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusProcessing, StatusRejected:
		return true
	}
	return false
}

// ParseStatus returns the Status for raw, or false when raw is not a legal value.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.IsValid()
}

// Registration is a single participant's submitted expedition application and
// its current verification state.
//
// ID doubles as the primary key and the creation instant (Unix milliseconds),
// so insertion order and chronological order coincide. Participant and trip
// fields are plain text validated at the transport boundary; the store assumes
// they arrive valid.
type Registration struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"` // human-readable creation moment, informational only

	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	WhatsApp     string `json:"whatsapp"`
	Gender       string `json:"gender,omitempty"`
	ClimberCode  string `json:"climberCode,omitempty"`
	Address      string `json:"address,omitempty"`
	MedicalNotes string `json:"medicalNotes,omitempty"`

	Mountain        string `json:"mountain"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate,omitempty"`
	TripType        string `json:"tripType"`
	PackageCategory string `json:"packageCategory"`

	// IdentityFile carries the participant's identity document as an inline
	// data URI. Optional; absence is legal.
	IdentityFile string `json:"identityFile,omitempty"`

	Status   Status `json:"status"`
	IsSynced bool   `json:"isSynced"`
}

// BookingID derives the stable human-readable booking identifier from the
// registration id. It is a pure function of ID and is the natural key the
// remote service dedups on. Two ids sharing their last six digits collide;
// this is an accepted limitation.
func (r Registration) BookingID() string {
	digits := strconv.FormatInt(r.ID, 10)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}
	return "JL-" + strings.ToUpper(digits)
}

// NewID returns the registration id for a record created at now.
func NewID(now time.Time) int64 {
	return now.UnixMilli()
}

// FormatTimestamp renders the informational creation moment the way the
// participant-facing ticket shows it.
func FormatTimestamp(now time.Time) string {
	return now.Format("02/01/2006, 15.04.05")
}
