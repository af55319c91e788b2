package reporting

import (
	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/notifier"
	"github.com/mazrk/ladderbot/internal/pubsub"
)

// Outcome classifies how a reporting operation resolved. Rejections are
// ordinary outcomes, not errors; only store failures surface as errors.
type Outcome string

const (
	// OutcomeSubmitted means the match result was recorded.
	OutcomeSubmitted Outcome = "SUBMITTED"
	// OutcomeNotRegistered means the reporter has no player record.
	OutcomeNotRegistered Outcome = "NOT_REGISTERED"
	// OutcomeNotFound means no match exists under the given id.
	OutcomeNotFound Outcome = "NOT_FOUND"
	// OutcomeUnchanged means the match was already in the requested state.
	OutcomeUnchanged Outcome = "UNCHANGED"
	// OutcomeUpdated means the match moved to the requested state.
	OutcomeUpdated Outcome = "UPDATED"
)

// SubmitResult is the resolution of a match submission.
type SubmitResult struct {
	Outcome Outcome
	Match   *ladder.Match
	Player1 *ladder.Player
	Player2 *ladder.Player
}

// StateResult is the resolution of an enable/disable request.
type StateResult struct {
	Outcome Outcome
	Match   *ladder.Match
}

// MatchDetails is a match joined with both player records.
type MatchDetails struct {
	Match   *ladder.Match
	Player1 *ladder.Player
	Player2 *ladder.Player
}

// PlayerDetails is a player record with their recorded match count.
type PlayerDetails struct {
	Player  *ladder.Player
	Matches int
}

// Service records match results and manages the match lifecycle.
type Service struct {
	players  ladder.PlayerStore
	matches  ladder.MatchStore
	notifier notifier.Notifier
	events   pubsub.PubSubClient
	metrics  metrics.Metrics
	topic    string
	dryRun   bool
}
