// delete-message removes the configured control message from its channel.
package main

import (
	"context"
	"fmt"
	"os"

	"svrmgr/internal/common/config"
	"svrmgr/internal/discord"
)

func main() {
	if len(os.Args) > 1 {
		fmt.Fprintln(os.Stderr, "script takes no command-line arguments")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBotCredentials(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Discord.MessageID == "" {
		fmt.Fprintln(os.Stderr, "discord.message_id is required")
		os.Exit(1)
	}

	client := discord.NewClient(cfg.Discord.APIURL, cfg.Discord.BotToken)

	fmt.Fprintf(os.Stderr, "Deleting message %s from channel %s\n", cfg.Discord.MessageID, cfg.Discord.ChannelID)
	if err := client.DeleteMessage(context.Background(), cfg.Discord.ChannelID, cfg.Discord.MessageID); err != nil {
		fmt.Fprintln(os.Stderr, "delete message failed:", err)
		os.Exit(1)
	}
}
