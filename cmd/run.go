package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"curator/bot"
	"curator/config"
	"curator/database"
	"curator/events"
	"curator/repository"
	"curator/scheduler"
	"curator/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting curator bot...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Bring the schema current before opening the pool
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	directoryService := service.NewDirectoryService(uowFactory)
	ledgerService := service.NewLedgerService(uowFactory)
	queryService := service.NewQueryService(uowFactory)
	monitorService := service.NewMonitorService(eventBus)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:          cfg.DiscordToken,
		GuildID:        cfg.DiscordGuildID,
		UpvoteEmoji:    cfg.UpvoteEmoji,
		DownvoteEmoji:  cfg.DownvoteEmoji,
		AlertChannelID: cfg.AlertChannelID,
	}
	discordBot, err := bot.New(botConfig, directoryService, ledgerService, queryService, monitorService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the periodic membership resync
	resyncScheduler, err := scheduler.New(cfg.ResyncSchedule, discordBot)
	if err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to initialize resync scheduler: %w", err)
	}
	resyncScheduler.Start()
	log.Printf("Membership resync scheduled (%s)", cfg.ResyncSchedule)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	resyncScheduler.Stop()

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
