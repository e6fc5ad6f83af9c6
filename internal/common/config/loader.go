package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "SVRMGR"

	defaultAPIURL          = "https://discord.com/api/v10"
	defaultOwnershipTagKey = "svrmgr-message-id"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// loadEnvFile loads a .env file from the working directory or the project
// root so the tools behave the same when run from cmd/tools/*.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// overrideEmptyConfig fills fields straight from the environment when the
// config file didn't set them. AutomaticEnv only resolves keys viper already
// knows about, so the well-known variables are mapped explicitly.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Discord.AppPublicKey, "SVRMGR_DISCORD_APP_PUBLIC_KEY")
	setIfEmpty(&cfg.Discord.APIURL, "SVRMGR_DISCORD_API_URL")
	setIfEmpty(&cfg.Discord.BotToken, "SVRMGR_DISCORD_BOT_TOKEN")
	setIfEmpty(&cfg.Discord.ChannelID, "SVRMGR_DISCORD_CHANNEL_ID")
	setIfEmpty(&cfg.Discord.MessageID, "SVRMGR_DISCORD_MESSAGE_ID")
	setIfEmpty(&cfg.AWS.Region, "AWS_REGION")
	setIfEmpty(&cfg.AWS.OwnershipTagKey, "SVRMGR_OWNERSHIP_TAG_KEY")
	setIfEmpty(&cfg.Logging.Level, "SVRMGR_LOG_LEVEL")
	setIfEmpty(&cfg.Logging.Format, "SVRMGR_LOG_FORMAT")
}

func setIfEmpty(field *string, envName string) {
	if *field == "" {
		if val := os.Getenv(envName); val != "" {
			*field = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "svrmgr"
	}

	if cfg.Discord.APIURL == "" {
		cfg.Discord.APIURL = defaultAPIURL
	}

	if cfg.AWS.OwnershipTagKey == "" {
		cfg.AWS.OwnershipTagKey = defaultOwnershipTagKey
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// ValidateBotCredentials checks the fields the message-management tools need.
func (c *Config) ValidateBotCredentials() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("discord.bot_token is required")
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("discord.channel_id is required")
	}
	return nil
}
