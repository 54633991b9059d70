package models

// VoteKind identifies which counter a reaction emoji maps to
type VoteKind string

const (
	VoteKindUpvote   VoteKind = "upvote"
	VoteKindDownvote VoteKind = "downvote"
	VoteKindNone     VoteKind = "none" // any other emoji, ignored by the ledger
)

// VoteDirection distinguishes a reaction being added from one being removed
type VoteDirection string

const (
	VoteDirectionAdd    VoteDirection = "add"
	VoteDirectionRemove VoteDirection = "remove"
)

// ReactionEvent carries everything the ledger needs to judge a single
// reaction change. It is ephemeral and never persisted.
type ReactionEvent struct {
	ReactorID       int64
	ReactorIsBot    bool
	AuthorID        int64
	AuthorIsBot     bool
	AttachmentCount int
	Kind            VoteKind
	Direction       VoteDirection

	// Message coordinates, kept for the self-vote retraction side effect
	// and for building alert links
	GuildID   string
	ChannelID string
	MessageID string
}

// DropReason explains why the ledger discarded an event without mutating
type DropReason string

const (
	DropNone              DropReason = ""
	DropBotReactor        DropReason = "bot_reactor"
	DropAuthorNotTracked  DropReason = "author_not_tracked"
	DropReactorNotTracked DropReason = "reactor_not_tracked"
	DropSelfVote          DropReason = "self_vote"
	DropNoAttachments     DropReason = "no_attachments"
	DropNotAVote          DropReason = "not_a_vote"
	DropFloorGuard        DropReason = "floor_guard"
)

// VoteResult is the structured outcome of applying a reaction event.
// The embedding layer decides what to log or surface; the ledger itself
// never prints.
type VoteResult struct {
	Applied bool
	Drop    DropReason

	// RetractReaction asks the caller to remove the reaction icon from the
	// external surface. Set only for self-votes.
	RetractReaction bool
}

// MessageTally is the live reaction count on a single message, re-summed
// on every reaction change for the anomaly monitor
type MessageTally struct {
	GuildID   string
	ChannelID string
	MessageID string
	Upvotes   int
	Downvotes int
}
