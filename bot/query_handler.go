package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"curator/bot/common"
	"curator/models"
	"curator/service"
)

// handleScore displays one member's vote record
func (b *Bot) handleScore(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	// Target user defaults to the command issuer
	var targetUser *discordgo.User
	options := i.ApplicationCommandData().Options
	if len(options) > 0 && options[0].Name == "user" {
		targetUser = options[0].UserValue(s)
	} else if i.Member != nil {
		targetUser = i.Member.User
	}
	if targetUser == nil {
		b.respondWithError(s, i, "Unable to determine which member to look up.")
		return
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", targetUser.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user, err := b.queryService.LookupExact(ctx, targetID)
	if err != nil {
		log.Errorf("Error looking up user %d: %v", targetID, err)
		b.respondWithError(s, i, "Unable to retrieve the score. Please try again.")
		return
	}
	if user == nil {
		b.respondWithError(s, i, fmt.Sprintf("No account found for **%s**.", targetUser.Username))
		return
	}

	upvotePercent := "n/a"
	if user.TotalVotes() > 0 {
		upvotePercent = common.FormatPercent(user.Ratio())
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Score for %s", user.Username),
		Color: 0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🗳️ Votes received",
				Value: fmt.Sprintf("Score: **%s**\nUpvotes: %s\nDownvotes: %s\nUpvote %%: %s",
					common.FormatCount(user.Score),
					common.FormatCount(user.UpvotesEarned),
					common.FormatCount(user.DownvotesEarned),
					upvotePercent),
				Inline: false,
			},
			{
				Name:   "✍️ Votes cast",
				Value:  common.FormatCount(user.VotesCast),
				Inline: false,
			},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to score command: %v", err)
	}
}

// handleWhois finds members by approximate display name
func (b *Bot) handleWhois(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Please provide a name to search for.")
		return
	}
	name := options[0].StringValue()

	matches, err := b.queryService.LookupFuzzy(ctx, name)
	if err != nil {
		log.Errorf("Error searching for name %q: %v", name, err)
		b.respondWithError(s, i, "Unable to search. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🔍 Members matching %q", name),
		Color: 0x3498db,
	}
	if len(matches) == 0 {
		embed.Description = "No matches found."
	} else {
		embed.Description = common.FormatMatchList(matches)
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to whois command: %v", err)
	}
}

// handleTop displays the leaderboard
func (b *Bot) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	places := 0
	criterion := models.RankCriterion("")
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "places":
			places = int(opt.IntValue())
		case "criterion":
			criterion = models.RankCriterion(opt.StringValue())
		}
	}

	entries, err := b.queryService.TopN(ctx, places, criterion)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			b.respondWithError(s, i, verr.Error())
			return
		}
		log.Errorf("Error getting leaderboard: %v", err)
		b.respondWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏆 Leaderboard",
		Color: 0x00ff00,
	}
	if criterion != "" && criterion != models.RankByScore {
		embed.Title = fmt.Sprintf("🏆 Leaderboard by %s", criterion)
	}
	if len(entries) == 0 {
		embed.Description = "No members with recorded votes yet."
	} else {
		embed.Description = common.FormatLeaderboardTable(entries)
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to top command: %v", err)
	}
}

// handleRatio lists members whose upvote ratio is at or below a threshold
func (b *Bot) handleRatio(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var threshold float64
	var minVotes int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "threshold":
			threshold = opt.FloatValue()
		case "min_votes":
			minVotes = opt.IntValue()
		}
	}

	entries, err := b.queryService.BelowRatio(ctx, threshold, minVotes)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			b.respondWithError(s, i, verr.Error())
			return
		}
		log.Errorf("Error getting ratio report: %v", err)
		b.respondWithError(s, i, "Unable to retrieve the report. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📉 Members at or below %s upvotes", common.FormatPercent(threshold)),
		Color: 0xe74c3c,
	}
	if len(entries) == 0 {
		embed.Description = "No members at or below that ratio."
	} else {
		embed.Description = common.FormatRatioTable(entries)
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to ratio command: %v", err)
	}
}
