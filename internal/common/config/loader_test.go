package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "svrmgr", cfg.App.Name)
	assert.Equal(t, "https://discord.com/api/v10", cfg.Discord.APIURL)
	assert.Equal(t, "svrmgr-message-id", cfg.AWS.OwnershipTagKey)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SVRMGR_DISCORD_APP_PUBLIC_KEY", "deadbeef")
	t.Setenv("SVRMGR_DISCORD_API_URL", "http://localhost:8080/api")
	t.Setenv("SVRMGR_OWNERSHIP_TAG_KEY", "custom-tag")
	t.Setenv("SVRMGR_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "deadbeef", cfg.Discord.AppPublicKey)
	assert.Equal(t, "http://localhost:8080/api", cfg.Discord.APIURL)
	assert.Equal(t, "custom-tag", cfg.AWS.OwnershipTagKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateBotCredentials(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.ValidateBotCredentials())

	cfg.Discord.BotToken = "token"
	require.Error(t, cfg.ValidateBotCredentials())

	cfg.Discord.ChannelID = "C1"
	assert.NoError(t, cfg.ValidateBotCredentials())
}
