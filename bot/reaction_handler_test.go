package bot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/models"
)

type recordingLedger struct {
	applied []models.ReactionEvent
}

func (l *recordingLedger) Apply(ctx context.Context, event models.ReactionEvent) (*models.VoteResult, error) {
	l.applied = append(l.applied, event)
	return &models.VoteResult{Applied: true}, nil
}

func (l *recordingLedger) AdjustUpvotes(ctx context.Context, userID int64, delta int64) error {
	return nil
}

func (l *recordingLedger) AdjustDownvotes(ctx context.Context, userID int64, delta int64) error {
	return nil
}

func (l *recordingLedger) WipeAll(ctx context.Context) error {
	return nil
}

type recordingMonitor struct {
	tallies []models.MessageTally
}

func (m *recordingMonitor) Observe(ctx context.Context, tally models.MessageTally) {
	m.tallies = append(m.tallies, tally)
}

// stubTransport serves canned REST responses so handlers can run against a
// real session without a network
type stubTransport struct {
	failUserLookup bool
}

func (st stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch {
	case strings.Contains(req.URL.Path, "/users/"):
		if st.failUserLookup {
			return nil, errors.New("user endpoint unavailable")
		}
		return jsonResponse(`{"id":"42","username":"reactor","bot":true}`), nil
	case strings.Contains(req.URL.Path, "/messages/"):
		return jsonResponse(`{
			"id": "100",
			"channel_id": "10",
			"author": {"id": "7", "username": "author", "bot": false},
			"attachments": [{"id": "1"}],
			"reactions": [
				{"count": 2, "emoji": {"name": "upvote"}},
				{"count": 9, "emoji": {"name": "downvote"}}
			]
		}`), nil
	}
	return nil, errors.New("unexpected request: " + req.URL.Path)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestBot(t *testing.T, transport http.RoundTripper) (*Bot, *recordingLedger, *recordingMonitor) {
	t.Helper()

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	session.Client = &http.Client{Transport: transport}

	ledger := &recordingLedger{}
	monitor := &recordingMonitor{}
	bot := &Bot{
		config:         Config{UpvoteEmoji: "upvote", DownvoteEmoji: "downvote"},
		session:        session,
		ledgerService:  ledger,
		monitorService: monitor,
	}

	return bot, ledger, monitor
}

func removalFor(userID string) *discordgo.MessageReactionRemove {
	return &discordgo.MessageReactionRemove{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    userID,
			MessageID: "100",
			ChannelID: "10",
			GuildID:   "1",
			Emoji:     discordgo.Emoji{Name: "upvote"},
		},
	}
}

func TestHandleReactionRemove_UnresolvedReactorIsIgnored(t *testing.T) {
	bot, ledger, monitor := newTestBot(t, stubTransport{failUserLookup: true})

	bot.handleReactionRemove(bot.session, removalFor("42"))

	// Without the bot flag the removal must not reach the ledger at all
	assert.Empty(t, ledger.applied)
	assert.Empty(t, monitor.tallies)
}

func TestHandleReactionRemove_ResolvedBotFlagReachesLedger(t *testing.T) {
	bot, ledger, monitor := newTestBot(t, stubTransport{})

	bot.handleReactionRemove(bot.session, removalFor("42"))

	require.Len(t, ledger.applied, 1)
	event := ledger.applied[0]
	assert.True(t, event.ReactorIsBot)
	assert.Equal(t, int64(42), event.ReactorID)
	assert.Equal(t, int64(7), event.AuthorID)
	assert.Equal(t, models.VoteKindUpvote, event.Kind)
	assert.Equal(t, models.VoteDirectionRemove, event.Direction)

	// The monitor still sees the re-summed tally
	require.Len(t, monitor.tallies, 1)
	assert.Equal(t, 2, monitor.tallies[0].Upvotes)
	assert.Equal(t, 9, monitor.tallies[0].Downvotes)
}

func TestVoteKind(t *testing.T) {
	bot := &Bot{config: Config{UpvoteEmoji: "upvote", DownvoteEmoji: "downvote"}}

	assert.Equal(t, models.VoteKindUpvote, bot.voteKind("upvote"))
	assert.Equal(t, models.VoteKindDownvote, bot.voteKind("downvote"))
	assert.Equal(t, models.VoteKindNone, bot.voteKind("shrug"))
}
