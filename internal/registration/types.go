package registration

import (
	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/pubsub"
)

// Outcome classifies how a registration attempt resolved. Rejections are
// ordinary outcomes, not errors; only store failures surface as errors.
type Outcome string

const (
	// OutcomeCreated means a brand new player record was created and bound.
	OutcomeCreated Outcome = "CREATED"
	// OutcomeLinked means an existing unclaimed record was bound to the account.
	OutcomeLinked Outcome = "LINKED"
	// OutcomeNameClaimed means the requested name belongs to someone else.
	OutcomeNameClaimed Outcome = "NAME_CLAIMED"
	// OutcomeAlreadyRegistered means the account already has a player record.
	OutcomeAlreadyRegistered Outcome = "ALREADY_REGISTERED"
	// OutcomeNotRegistered means the account has no player record to act on.
	OutcomeNotRegistered Outcome = "NOT_REGISTERED"
	// OutcomeRenamed means the account's player record took the new name.
	OutcomeRenamed Outcome = "RENAMED"
)

// Result is the resolution of a registration or rename attempt. Player is set
// whenever the outcome refers to a concrete record.
type Result struct {
	Outcome Outcome
	Player  *ladder.Player
}

// Service reconciles Slack accounts with player records.
type Service struct {
	players ladder.PlayerStore
	events  pubsub.PubSubClient
	metrics metrics.Metrics
	topic   string
}
