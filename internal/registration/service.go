package registration

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/pubsub"
)

// New creates a registration service. The event topic is where player
// lifecycle events are published.
func New(players ladder.PlayerStore, events pubsub.PubSubClient, m metrics.Metrics, topic string) *Service {
	return &Service{
		players: players,
		events:  events,
		metrics: m,
		topic:   topic,
	}
}

// Register binds a Slack account to a player record under the given name.
// The decision runs in order: an account that already owns a record is turned
// away first, then an unclaimed record with a matching name is adopted, then
// a claimed name is rejected, and only then is a fresh record created.
func (s *Service) Register(name, slackUserID string) (Result, error) {
	count, err := s.players.CountBySlackID(slackUserID)
	if err != nil {
		return Result{}, fmt.Errorf("checking existing registration: %w", err)
	}
	if count > 0 {
		existing, err := s.players.GetBySlackID(slackUserID)
		if err != nil {
			return Result{}, fmt.Errorf("loading existing registration: %w", err)
		}
		return Result{Outcome: OutcomeAlreadyRegistered, Player: existing}, nil
	}

	byName, err := s.players.GetByName(name)
	if err != nil {
		return Result{}, fmt.Errorf("looking up name %q: %w", name, err)
	}
	if byName != nil {
		if byName.Registered() {
			return Result{Outcome: OutcomeNameClaimed, Player: byName}, nil
		}
		byName.SlackUserID = &slackUserID
		if err := s.players.Save(byName); err != nil {
			return Result{}, fmt.Errorf("linking player %#x: %w", byName.ID, err)
		}
		log.Info("Linked existing player to Slack account", "player", byName.HexID(), "name", byName.Name)
		s.metrics.IncPlayerRegistered()
		s.publishRegistered(byName, slackUserID)
		return Result{Outcome: OutcomeLinked, Player: byName}, nil
	}

	// The account may have registered between the count above and here.
	bySlack, err := s.players.GetBySlackID(slackUserID)
	if err != nil {
		return Result{}, fmt.Errorf("re-checking registration: %w", err)
	}
	if bySlack != nil {
		return Result{Outcome: OutcomeAlreadyRegistered, Player: bySlack}, nil
	}

	created, err := s.players.Create(name, &slackUserID, nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating player %q: %w", name, err)
	}
	log.Info("Registered new player", "player", created.HexID(), "name", created.Name)
	s.metrics.IncPlayerRegistered()
	s.publishRegistered(created, slackUserID)
	return Result{Outcome: OutcomeCreated, Player: created}, nil
}

// ChangeName renames the player record bound to the given Slack account.
func (s *Service) ChangeName(slackUserID, newName string) (Result, error) {
	player, err := s.players.GetBySlackID(slackUserID)
	if err != nil {
		return Result{}, fmt.Errorf("looking up registration: %w", err)
	}
	if player == nil {
		return Result{Outcome: OutcomeNotRegistered}, nil
	}

	player.Name = newName
	if err := s.players.Save(player); err != nil {
		return Result{}, fmt.Errorf("renaming player %#x: %w", player.ID, err)
	}
	log.Info("Renamed player", "player", player.HexID(), "name", newName)
	return Result{Outcome: OutcomeRenamed, Player: player}, nil
}

// publishRegistered emits the lifecycle event. Publishing is best-effort; a
// failed publish never undoes a registration.
func (s *Service) publishRegistered(player *ladder.Player, slackUserID string) {
	event := pubsub.PlayerRegisteredEvent{
		EventID:     uuid.NewString(),
		Type:        pubsub.EventPlayerRegistered,
		PlayerID:    player.ID,
		Name:        player.Name,
		SlackUserID: slackUserID,
		CreatedAt:   player.CreatedAt,
	}
	if err := s.events.SendMessage(s.topic, event); err != nil {
		log.Warn("Failed to publish player registered event", "error", err, "player", player.HexID())
	}
}
