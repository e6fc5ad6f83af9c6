// create-message posts the initial "Servers" control message to the
// configured Discord channel and prints the new message ID, which is the
// value to put into each managed instance's ownership tag.
package main

import (
	"context"
	"fmt"
	"os"

	"svrmgr/internal/common/config"
	"svrmgr/internal/discord"
	"svrmgr/internal/render"
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

	client := discord.NewClient(cfg.Discord.APIURL, cfg.Discord.BotToken)

	fmt.Fprintf(os.Stderr, "Creating control message in channel %s\n", cfg.Discord.ChannelID)
	msg, err := client.CreateMessage(context.Background(), cfg.Discord.ChannelID, render.InitialMessage())
	if err != nil {
		fmt.Fprintln(os.Stderr, "create message failed:", err)
		os.Exit(1)
	}

	fmt.Println("Message ID:", msg.ID)
}
