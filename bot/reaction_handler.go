package bot

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"curator/models"
)

// handleReactionAdd routes a newly added reaction into the vote ledger
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	reactorIsBot := false
	if r.Member != nil && r.Member.User != nil {
		reactorIsBot = r.Member.User.Bot
	}

	b.processReaction(s, r.MessageReaction, reactorIsBot, models.VoteDirectionAdd)
}

// handleReactionRemove routes a removed reaction into the vote ledger
func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	// Removal payloads carry no member object, so resolve the bot flag
	// through the user endpoint. Without it gate 1 cannot be judged, so a
	// failed lookup drops the removal.
	user, err := s.User(r.UserID)
	if err != nil {
		log.Warnf("Could not resolve reacting user %s, ignoring removal: %v", r.UserID, err)
		return
	}

	b.processReaction(s, r.MessageReaction, user.Bot, models.VoteDirectionRemove)
}

func (b *Bot) processReaction(s *discordgo.Session, r *discordgo.MessageReaction, reactorIsBot bool, direction models.VoteDirection) {
	ctx := context.Background()

	// The gateway payload carries only coordinates; fetch the message for
	// its author, attachments and current reaction tallies
	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.Errorf("Failed to fetch message %s for reaction: %v", r.MessageID, err)
		return
	}
	if msg.Author == nil {
		return
	}

	reactorID, err := strconv.ParseInt(r.UserID, 10, 64)
	if err != nil {
		log.Errorf("Unparseable reactor ID %q: %v", r.UserID, err)
		return
	}
	authorID, err := strconv.ParseInt(msg.Author.ID, 10, 64)
	if err != nil {
		log.Errorf("Unparseable author ID %q: %v", msg.Author.ID, err)
		return
	}

	event := models.ReactionEvent{
		ReactorID:       reactorID,
		ReactorIsBot:    reactorIsBot,
		AuthorID:        authorID,
		AuthorIsBot:     msg.Author.Bot,
		AttachmentCount: len(msg.Attachments),
		Kind:            b.voteKind(r.Emoji.Name),
		Direction:       direction,
		GuildID:         r.GuildID,
		ChannelID:       r.ChannelID,
		MessageID:       r.MessageID,
	}

	result, err := b.ledgerService.Apply(ctx, event)
	if err != nil {
		log.Errorf("Failed to apply reaction on message %s: %v", r.MessageID, err)
		return
	}

	if result.RetractReaction {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.APIName(), r.UserID); err != nil {
			log.Errorf("Failed to retract self-vote reaction on message %s: %v", r.MessageID, err)
		}
	}

	// The monitor re-sums the live tallies on every reaction change,
	// applied or dropped
	b.monitorService.Observe(ctx, b.messageTally(msg, r))
}

// voteKind maps an emoji name to the counter it targets
func (b *Bot) voteKind(emojiName string) models.VoteKind {
	switch emojiName {
	case b.config.UpvoteEmoji:
		return models.VoteKindUpvote
	case b.config.DownvoteEmoji:
		return models.VoteKindDownvote
	}
	return models.VoteKindNone
}

// messageTally sums the current vote-emoji counts on a message
func (b *Bot) messageTally(msg *discordgo.Message, r *discordgo.MessageReaction) models.MessageTally {
	tally := models.MessageTally{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
	}

	for _, reaction := range msg.Reactions {
		if reaction == nil || reaction.Emoji == nil {
			continue
		}
		switch reaction.Emoji.Name {
		case b.config.UpvoteEmoji:
			tally.Upvotes = reaction.Count
		case b.config.DownvoteEmoji:
			tally.Downvotes = reaction.Count
		}
	}

	return tally
}
