package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	regmodels "basecamp/internal/registration/models"
)

func TestDecodeEmptyPayloadYieldsDefaults(t *testing.T) {
	settings, err := Decode(nil)
	require.NoError(t, err)
	assert.True(t, Equal(settings, Defaults()))
	assert.Len(t, settings.FormConfig.Mountains, 17)
	assert.Empty(t, settings.ScriptURL)
}

func TestDecodeOverridesTopLevelFields(t *testing.T) {
	payload := []byte(`{"adminEmail":"ops@example.com","scriptUrl":"https://script.google.com/macros/s/abc/exec"}`)
	settings, err := Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", settings.AdminEmail)
	assert.Equal(t, "https://script.google.com/macros/s/abc/exec", settings.ScriptURL)
	// untouched fields keep their defaults
	assert.Equal(t, "Jejak Langkah", settings.AdminUsername)
	assert.True(t, settings.NotificationPrefs.NotifyAdminOnNew)
}

func TestDecodeBackfillsMissingStatusTrigger(t *testing.T) {
	// persisted by an older version that knew nothing about "Diproses"
	payload := []byte(`{"notificationPrefs":{"notifyAdminOnNew":false,"statusTriggers":{"Terverifikasi":false}}}`)
	settings, err := Decode(payload)
	require.NoError(t, err)

	assert.False(t, settings.NotificationPrefs.NotifyAdminOnNew)
	assert.True(t, settings.NotificationPrefs.NotifyUserOnNew)
	assert.False(t, settings.NotificationPrefs.StatusTriggers[regmodels.StatusVerified])

	// the key missing from the payload is backfilled from defaults
	trigger, ok := settings.NotificationPrefs.StatusTriggers[regmodels.StatusProcessing]
	require.True(t, ok)
	assert.False(t, trigger)
	assert.True(t, settings.NotificationPrefs.StatusTriggers[regmodels.StatusRejected])
}

func TestEncodeDecodeRoundTripKeepsPasswordHash(t *testing.T) {
	settings := Defaults()
	settings.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	settings.ScriptURL = "https://script.google.com/macros/s/xyz/exec"

	payload, err := Encode(settings)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.True(t, Equal(settings, decoded))
}

func TestEqual(t *testing.T) {
	a := Defaults()
	b := Defaults()
	assert.True(t, Equal(a, b))

	b.NotificationPrefs.StatusTriggers[regmodels.StatusProcessing] = true
	assert.False(t, Equal(a, b))
}
