package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"curator/events"
	"curator/models"
	"curator/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token          string
	GuildID        string
	UpvoteEmoji    string
	DownvoteEmoji  string
	AlertChannelID string
}

type Bot struct {
	config           Config
	session          *discordgo.Session
	directoryService service.DirectoryService
	ledgerService    service.LedgerService
	queryService     service.QueryService
	monitorService   service.MonitorService
	eventBus         *events.Bus
}

func New(config Config, directoryService service.DirectoryService, ledgerService service.LedgerService, queryService service.QueryService, monitorService service.MonitorService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	bot := &Bot{
		config:           config,
		session:          dg,
		directoryService: directoryService,
		ledgerService:    ledgerService,
		queryService:     queryService,
		monitorService:   monitorService,
		eventBus:         eventBus,
	}

	// Slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Membership events feed the directory
	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleMemberAdd)
	dg.AddHandler(bot.handleMemberRemove)
	dg.AddHandler(bot.handleMemberUpdate)

	// Reaction events feed the ledger and the anomaly monitor
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleReactionRemove)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Subscribe to downvote surge events for operator alerts
	if bot.config.AlertChannelID != "" {
		eventBus.Subscribe(events.EventTypeDownvoteSurge, func(ctx context.Context, event events.Event) {
			surge, ok := event.(events.DownvoteSurgeEvent)
			if !ok {
				return
			}
			if err := bot.sendSurgeAlert(surge); err != nil {
				log.Errorf("Failed to send downvote surge alert: %v", err)
			}
		})
		log.Info("Downvote surge alerts enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleReady runs the bootstrap membership sweep so members present
// before the process started get accounts
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Infof("Logged in as %s, syncing membership...", r.User.Username)

	go func() {
		ctx := context.Background()
		synced, err := b.ResyncMembers(ctx)
		if err != nil {
			log.Errorf("Startup membership sync failed: %v", err)
			return
		}
		log.Infof("Startup membership sync completed, %d members", synced)
	}()
}

// ResyncMembers fetches the full guild member list and converges the
// directory with it. Also invoked by the admin resync command and the
// periodic scheduler.
func (b *Bot) ResyncMembers(ctx context.Context) (int, error) {
	members, err := b.fetchAllMembers()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch guild members: %w", err)
	}

	return b.directoryService.ResyncAll(ctx, members)
}

// fetchAllMembers pages through the guild member list
func (b *Bot) fetchAllMembers() ([]models.Member, error) {
	var members []models.Member
	after := ""

	for {
		page, err := b.session.GuildMembers(b.config.GuildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, member := range page {
			userID, err := strconv.ParseInt(member.User.ID, 10, 64)
			if err != nil {
				log.Warnf("Skipping member with unparseable ID %q", member.User.ID)
				continue
			}
			members = append(members, models.Member{
				UserID:   userID,
				Username: member.User.Username,
				IsBot:    member.User.Bot,
			})
		}

		after = page[len(page)-1].User.ID
		if len(page) < 1000 {
			break
		}
	}

	return members, nil
}

// sendSurgeAlert posts a durable message link to the operator channel
func (b *Bot) sendSurgeAlert(surge events.DownvoteSurgeEvent) error {
	link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", surge.GuildID, surge.ChannelID, surge.MessageID)
	content := fmt.Sprintf("⚠️ Downvote surge: **%d** downvotes vs **%d** upvotes on %s", surge.Downvotes, surge.Upvotes, link)

	_, err := b.session.ChannelMessageSend(b.config.AlertChannelID, content)
	return err
}
