package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"curator/bot/common"
	"curator/service"
)

// handleAdminCommand dispatches the /admin subcommands. Discord already
// hides the command from non-admins, but the permission is re-checked here
// since command visibility is guild-configurable.
func (b *Bot) handleAdminCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		b.respondWithError(s, i, "This command requires administrator permissions.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please specify a subcommand.")
		return
	}

	switch options[0].Name {
	case "adjust-upvotes":
		b.handleAdminAdjust(s, i, options[0].Options, true)
	case "adjust-downvotes":
		b.handleAdminAdjust(s, i, options[0].Options, false)
	case "resync":
		b.handleAdminResync(s, i)
	case "dump":
		b.handleAdminDump(s, i, options[0].Options)
	case "wipe":
		b.handleAdminWipe(s, i)
	default:
		b.respondWithError(s, i, "Unknown subcommand")
	}
}

// handleAdminAdjust applies a correction to a member's earned vote counter
func (b *Bot) handleAdminAdjust(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption, upvotes bool) {
	ctx := context.Background()

	var targetUser *discordgo.User
	var delta int64
	for _, opt := range options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "delta":
			delta = opt.IntValue()
		}
	}
	if targetUser == nil {
		b.respondWithError(s, i, "Please specify a member to adjust.")
		return
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", targetUser.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	counter := "downvotes"
	if upvotes {
		counter = "upvotes"
		err = b.ledgerService.AdjustUpvotes(ctx, targetID, delta)
	} else {
		err = b.ledgerService.AdjustDownvotes(ctx, targetID, delta)
	}
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			b.respondWithError(s, i, verr.Error())
			return
		}
		log.Errorf("Error adjusting %s for user %d: %v", counter, targetID, err)
		b.respondWithError(s, i, "Unable to apply the adjustment. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i,
		fmt.Sprintf("Adjusted %s for **%s** by %+d.", counter, targetUser.Username, delta), false); err != nil {
		log.Errorf("Error responding to adjust command: %v", err)
	}
}

// handleAdminResync re-converges accounts with the live member list
func (b *Bot) handleAdminResync(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	// Fetching the full member list can exceed the interaction deadline
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring resync response: %v", err)
		return
	}

	synced, err := b.ResyncMembers(ctx)
	if err != nil {
		log.Errorf("Error resyncing members: %v", err)
		b.followUpWithError(s, i, "Membership resync failed. Please try again.")
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Resynced %d members.", synced), true)
}

// handleAdminDump exports a plain-text report of every account
func (b *Bot) handleAdminDump(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	path := ""
	for _, opt := range options {
		if opt.Name == "file" {
			path = opt.StringValue()
		}
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring dump response: %v", err)
		return
	}

	if path == "" {
		if err := b.queryService.DumpAll(ctx, os.Stdout); err != nil {
			log.Errorf("Error dumping accounts: %v", err)
			b.followUpWithError(s, i, "Dump failed. Please try again.")
			return
		}
		common.FollowUpWithSuccess(s, i, "Dumped all accounts to the server console.", true)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		log.Errorf("Error creating dump file %s: %v", path, err)
		b.followUpWithError(s, i, fmt.Sprintf("Could not create file `%s`.", path))
		return
	}
	defer f.Close()

	if err := b.queryService.DumpAll(ctx, f); err != nil {
		log.Errorf("Error dumping accounts to %s: %v", path, err)
		b.followUpWithError(s, i, "Dump failed. Please try again.")
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Dumped all accounts to `%s`.", path), true)
}

// handleAdminWipe deletes every account
func (b *Bot) handleAdminWipe(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if err := b.ledgerService.WipeAll(ctx); err != nil {
		log.Errorf("Error wiping accounts: %v", err)
		b.respondWithError(s, i, "Wipe failed. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, "All accounts and recorded votes deleted.", false); err != nil {
		log.Errorf("Error responding to wipe command: %v", err)
	}
}
