package common

import (
	"fmt"
	"strings"

	"curator/models"
)

// FormatCount formats a counter value with thousand separators
func FormatCount(count int64) string {
	str := fmt.Sprintf("%d", count)
	if count < 0 {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if count < 0 {
		return "-" + str
	}
	return str
}

// FormatPercent renders a ratio in [0, 1] as a percentage with one decimal
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatRank renders a place number, with medals for the top three
func FormatRank(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("#%d", rank)
}

// TruncateName shortens a display name to fit fixed-width table columns
func TruncateName(name string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(name) <= max {
		return name
	}
	if max <= 3 {
		return name[:max]
	}
	return name[:max-3] + "..."
}

// FormatLeaderboardTable renders top-N entries as a monospace table
func FormatLeaderboardTable(entries []*models.LeaderboardEntry) string {
	var b strings.Builder

	b.WriteString("```\n")
	b.WriteString(fmt.Sprintf("%-4s %-20s %-8s %-6s %-6s %s\n", "Rank", "Member", "Score", "Up", "Down", "Cast"))
	b.WriteString(strings.Repeat("-", 52) + "\n")

	for _, entry := range entries {
		b.WriteString(fmt.Sprintf("%-4s %-20s %-8s %-6s %-6s %s\n",
			FormatRank(entry.Rank),
			TruncateName(entry.Username, 18),
			FormatCount(entry.Score),
			FormatCount(entry.UpvotesEarned),
			FormatCount(entry.DownvotesEarned),
			FormatCount(entry.VotesCast)))
	}

	b.WriteString("```")
	return b.String()
}

// FormatMatchList renders fuzzy name matches, best first
func FormatMatchList(matches []*models.FuzzyMatch) string {
	var b strings.Builder

	for _, match := range matches {
		b.WriteString(fmt.Sprintf("**%s**: score %s (%s match)\n",
			match.User.Username,
			FormatCount(match.User.Score),
			FormatPercent(match.Similarity)))
	}

	return b.String()
}

// FormatRatioTable renders below-threshold accounts as a monospace table
func FormatRatioTable(entries []*models.RatioEntry) string {
	var b strings.Builder

	b.WriteString("```\n")
	b.WriteString(fmt.Sprintf("%-20s %-10s %s\n", "Member", "Upvote %", "Votes"))
	b.WriteString(strings.Repeat("-", 38) + "\n")

	for _, entry := range entries {
		b.WriteString(fmt.Sprintf("%-20s %-10s %s\n",
			TruncateName(entry.User.Username, 18),
			FormatPercent(entry.Ratio),
			FormatCount(entry.TotalVotes)))
	}

	b.WriteString("```")
	return b.String()
}
