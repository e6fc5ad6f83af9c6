package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Discord DiscordConfig `mapstructure:"discord"`
	AWS     AWSConfig     `mapstructure:"aws"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// DiscordConfig holds the interaction-verification key and the bot
// credentials used by the message-management tools.
type DiscordConfig struct {
	AppPublicKey string `mapstructure:"app_public_key"`
	APIURL       string `mapstructure:"api_url"`
	BotToken     string `mapstructure:"bot_token"`
	ChannelID    string `mapstructure:"channel_id"`
	MessageID    string `mapstructure:"message_id"`
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	OwnershipTagKey string `mapstructure:"ownership_tag_key"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
