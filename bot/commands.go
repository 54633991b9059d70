package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	adminPermission := int64(discordgo.PermissionAdministrator)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "score",
			Description: "Check a member's vote score",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "whois",
			Description: "Find members by approximate name",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Name to search for",
					Required:    true,
				},
			},
		},
		{
			Name:        "top",
			Description: "Display the top ranked members",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "places",
					Description: "How many places to show (1-10)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "criterion",
					Description: "Ranking criterion (defaults to score)",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Score", Value: "score"},
						{Name: "Upvotes earned", Value: "upvotes"},
						{Name: "Downvotes earned", Value: "downvotes"},
						{Name: "Votes cast", Value: "votes_cast"},
					},
				},
			},
		},
		{
			Name:        "ratio",
			Description: "List members whose upvote ratio is at or below a threshold",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "threshold",
					Description: "Upvote ratio cutoff, between 0 and 1 exclusive",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "min_votes",
					Description: "Only include members with at least this many recorded votes",
					Required:    false,
				},
			},
		},
		{
			Name:                     "admin",
			Description:              "Administrative ledger operations",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adjust-upvotes",
					Description: "Apply a correction to a member's upvote counter",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Member to adjust",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "delta",
							Description: "Signed amount to add to the counter",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adjust-downvotes",
					Description: "Apply a correction to a member's downvote counter",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Member to adjust",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "delta",
							Description: "Signed amount to add to the counter",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "resync",
					Description: "Re-converge accounts with the current member list",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "dump",
					Description: "Export a plain-text report of every account",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "file",
							Description: "Server-side file path to write to (defaults to console)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "wipe",
					Description: "Delete every account and all recorded votes",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "score":
		b.handleScore(s, i)
	case "whois":
		b.handleWhois(s, i)
	case "top":
		b.handleTop(s, i)
	case "ratio":
		b.handleRatio(s, i)
	case "admin":
		b.handleAdminCommand(s, i)
	}
}
