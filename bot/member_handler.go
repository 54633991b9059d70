package bot

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"curator/models"
)

// handleMemberAdd creates a zeroed account when a member joins
func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}

	userID, err := strconv.ParseInt(m.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Unparseable member ID %q on join: %v", m.User.ID, err)
		return
	}

	member := models.Member{
		UserID:   userID,
		Username: m.User.Username,
		IsBot:    m.User.Bot,
	}

	if err := b.directoryService.OnJoin(context.Background(), member); err != nil {
		log.Errorf("Failed to create account for joining member %s: %v", m.User.Username, err)
	}
}

// handleMemberRemove deletes the account when a member leaves
func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}

	userID, err := strconv.ParseInt(m.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Unparseable member ID %q on leave: %v", m.User.ID, err)
		return
	}

	if err := b.directoryService.OnLeave(context.Background(), userID); err != nil {
		log.Errorf("Failed to delete account for departing member %s: %v", m.User.ID, err)
	}
}

// handleMemberUpdate keeps the stored display name current
func (b *Bot) handleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.User == nil || m.User.Bot {
		return
	}

	userID, err := strconv.ParseInt(m.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Unparseable member ID %q on update: %v", m.User.ID, err)
		return
	}

	if err := b.directoryService.OnRename(context.Background(), userID, m.User.Username); err != nil {
		log.Errorf("Failed to rename member %s: %v", m.User.Username, err)
	}
}
