package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultSettings(t *testing.T) {
	var settings = NewDefaultSettings()
	require.NoError(t, settings.Validate())

	assert.Equal(t, 8080, settings.Port)
	assert.Equal(t, 600, settings.AccessTokenTTL)
	assert.Equal(t, 3_600, settings.RefreshTokenTTL)
	assert.Equal(t, 5, settings.TokenLeeway)
	assert.NotEmpty(t, settings.TokenSecret)
}

func TestSettingsValidate(t *testing.T) {
	var settings = NewDefaultSettings()
	settings.AccessTokenTTL = 0
	assert.Error(t, settings.Validate())

	settings = NewDefaultSettings()
	settings.AccessTokenTTL = settings.RefreshTokenTTL
	assert.Error(t, settings.Validate(), "access tokens must be shorter lived than refresh tokens")

	settings = NewDefaultSettings()
	settings.TokenLeeway = -1
	assert.Error(t, settings.Validate())

	settings = NewDefaultSettings()
	settings.TokenSecret = ""
	assert.Error(t, settings.Validate())
}
