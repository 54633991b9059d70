package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Vote emoji names the ledger recognizes
	UpvoteEmoji   string
	DownvoteEmoji string

	// Channel that receives downvote-surge alerts; alerts are disabled
	// when empty
	AlertChannelID string

	// Cron schedule for the periodic membership resync
	ResyncSchedule string

	// Environment is "development", "production" or "test"
	Environment string
}

// Load reads configuration from environment variables. The returned config
// is passed explicitly to each component; there is no package-level instance.
func Load() (*Config, error) {
	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AlertChannelID: os.Getenv("ALERT_CHANNEL_ID"),

		// Defaults
		UpvoteEmoji:    "upvote",
		DownvoteEmoji:  "downvote",
		ResyncSchedule: "@hourly",
		Environment:    os.Getenv("ENVIRONMENT"),
	}

	if emoji := os.Getenv("UPVOTE_EMOJI"); emoji != "" {
		config.UpvoteEmoji = emoji
	}
	if emoji := os.Getenv("DOWNVOTE_EMOJI"); emoji != "" {
		config.DownvoteEmoji = emoji
	}
	if schedule := os.Getenv("RESYNC_SCHEDULE"); schedule != "" {
		config.ResyncSchedule = schedule
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
