package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nikhilsuthar09/vtrip-api/api/handlers"
)

func TestSendExpoPushNotificationNoToken(t *testing.T) {
	// users without notification permission have no token stored; sending
	// to them must be a silent no-op
	err := handlers.SendExpoPushNotification("", "title", "body", nil)
	assert.NoError(t, err)
}
