package reporting

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/notifier"
	"github.com/mazrk/ladderbot/internal/pubsub"
)

// New creates a reporting service. With dryRun set, every channel
// announcement is logged instead of sent, regardless of what callers pass
// per request.
func New(players ladder.PlayerStore, matches ladder.MatchStore, n notifier.Notifier, events pubsub.PubSubClient, m metrics.Metrics, topic string, dryRun bool) *Service {
	return &Service{
		players:  players,
		matches:  matches,
		notifier: n,
		events:   events,
		metrics:  m,
		topic:    topic,
		dryRun:   dryRun,
	}
}

// Submit records a match reported by a registered account. The reporter is
// always player1 and their score comes first. An unknown opponent name gets an
// unclaimed player record created on the fly; the registration check happens
// first so a rejected submission never leaves one behind. dryRun forwards to
// the channel announcement.
func (s *Service) Submit(slackUserID string, score1, score2 int, opponentName string, dryRun bool) (SubmitResult, error) {
	reporter, err := s.players.GetBySlackID(slackUserID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("looking up reporter: %w", err)
	}
	if reporter == nil {
		return SubmitResult{Outcome: OutcomeNotRegistered}, nil
	}

	opponent, err := s.getOrCreatePlayer(opponentName)
	if err != nil {
		return SubmitResult{}, err
	}

	return s.record(reporter, score1, score2, opponent, dryRun)
}

// SubmitAsAdmin records a match between two named players without requiring
// either to be registered. Unknown names get unclaimed records.
func (s *Service) SubmitAsAdmin(player1Name string, score1, score2 int, player2Name string, dryRun bool) (SubmitResult, error) {
	player1, err := s.getOrCreatePlayer(player1Name)
	if err != nil {
		return SubmitResult{}, err
	}
	player2, err := s.getOrCreatePlayer(player2Name)
	if err != nil {
		return SubmitResult{}, err
	}

	return s.record(player1, score1, score2, player2, dryRun)
}

// SetActive moves a match to the desired active state.
func (s *Service) SetActive(matchID int, active bool) (StateResult, error) {
	match, err := s.matches.Get(matchID)
	if err != nil {
		return StateResult{}, fmt.Errorf("loading match %#x: %w", matchID, err)
	}
	if match == nil {
		return StateResult{Outcome: OutcomeNotFound}, nil
	}
	if match.Active == active {
		return StateResult{Outcome: OutcomeUnchanged, Match: match}, nil
	}

	match.Active = active
	if err := s.matches.Save(match); err != nil {
		return StateResult{}, fmt.Errorf("saving match %#x: %w", matchID, err)
	}
	log.Info("Match state changed", "match", match.HexID(), "active", active)
	s.metrics.IncMatchStateChange()

	event := pubsub.MatchStateChangedEvent{
		EventID: uuid.NewString(),
		Type:    pubsub.EventMatchStateChanged,
		MatchID: match.ID,
		Active:  active,
	}
	if err := s.events.SendMessage(s.topic, event); err != nil {
		log.Warn("Failed to publish match state event", "error", err, "match", match.HexID())
	}
	return StateResult{Outcome: OutcomeUpdated, Match: match}, nil
}

// FixScores corrects the recorded scores of an existing match.
func (s *Service) FixScores(matchID int, score1, score2 int) (StateResult, error) {
	match, err := s.matches.Get(matchID)
	if err != nil {
		return StateResult{}, fmt.Errorf("loading match %#x: %w", matchID, err)
	}
	if match == nil {
		return StateResult{Outcome: OutcomeNotFound}, nil
	}
	if match.Score1 == score1 && match.Score2 == score2 {
		return StateResult{Outcome: OutcomeUnchanged, Match: match}, nil
	}

	match.Score1 = score1
	match.Score2 = score2
	if err := s.matches.Save(match); err != nil {
		return StateResult{}, fmt.Errorf("saving match %#x: %w", matchID, err)
	}
	log.Info("Match scores corrected", "match", match.HexID(), "score1", score1, "score2", score2)
	return StateResult{Outcome: OutcomeUpdated, Match: match}, nil
}

// MatchInfo returns a match with both player records resolved, or nil when no
// such match exists.
func (s *Service) MatchInfo(matchID int) (*MatchDetails, error) {
	match, err := s.matches.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %#x: %w", matchID, err)
	}
	if match == nil {
		return nil, nil
	}

	player1, err := s.players.Get(match.Player1)
	if err != nil {
		return nil, fmt.Errorf("loading player %#x: %w", match.Player1, err)
	}
	player2, err := s.players.Get(match.Player2)
	if err != nil {
		return nil, fmt.Errorf("loading player %#x: %w", match.Player2, err)
	}
	return &MatchDetails{Match: match, Player1: player1, Player2: player2}, nil
}

// PlayerInfo returns a player with their match count, or nil when no such
// player exists.
func (s *Service) PlayerInfo(playerID int) (*PlayerDetails, error) {
	player, err := s.players.Get(playerID)
	if err != nil {
		return nil, fmt.Errorf("loading player %#x: %w", playerID, err)
	}
	return s.playerDetails(player)
}

// PlayerInfoByName is PlayerInfo keyed by a case-insensitive name lookup.
func (s *Service) PlayerInfoByName(name string) (*PlayerDetails, error) {
	player, err := s.players.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("looking up name %q: %w", name, err)
	}
	return s.playerDetails(player)
}

func (s *Service) playerDetails(player *ladder.Player) (*PlayerDetails, error) {
	if player == nil {
		return nil, nil
	}
	matches, err := s.matches.GetByPlayer(player)
	if err != nil {
		return nil, fmt.Errorf("loading matches for player %#x: %w", player.ID, err)
	}
	return &PlayerDetails{Player: player, Matches: len(matches)}, nil
}

func (s *Service) getOrCreatePlayer(name string) (*ladder.Player, error) {
	player, err := s.players.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("looking up name %q: %w", name, err)
	}
	if player != nil {
		return player, nil
	}
	created, err := s.players.Create(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating player %q: %w", name, err)
	}
	return created, nil
}

// record persists the match, then announces and publishes it. Announcement
// and publishing are best-effort; a failure there never undoes the match.
func (s *Service) record(player1 *ladder.Player, score1, score2 int, player2 *ladder.Player, dryRun bool) (SubmitResult, error) {
	match, err := s.matches.Create(player1, score1, score2, player2)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("recording match: %w", err)
	}
	s.metrics.IncMatchSubmitted()

	if err := s.notifier.SendMatchNotification(match, player1, player2, s.dryRun || dryRun); err != nil {
		log.Warn("Failed to announce match", "error", err, "match", match.HexID())
	}

	event := pubsub.MatchReportedEvent{
		EventID:   uuid.NewString(),
		Type:      pubsub.EventMatchReported,
		MatchID:   match.ID,
		Player1:   match.Player1,
		Player2:   match.Player2,
		Score1:    match.Score1,
		Score2:    match.Score2,
		CreatedAt: match.CreatedAt,
	}
	if err := s.events.SendMessage(s.topic, event); err != nil {
		log.Warn("Failed to publish match reported event", "error", err, "match", match.HexID())
	}

	return SubmitResult{Outcome: OutcomeSubmitted, Match: match, Player1: player1, Player2: player2}, nil
}
