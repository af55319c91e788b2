package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventPlayerRegistered  EventType = "player-registered"
	EventMatchReported     EventType = "match-reported"
	EventMatchStateChanged EventType = "match-state-changed"
)

// PlayerRegisteredEvent is published when a new player joins the ladder.
type PlayerRegisteredEvent struct {
	EventID     string    `msgpack:"event_id"`
	Type        EventType `msgpack:"type"`
	PlayerID    int       `msgpack:"player_id"`
	Name        string    `msgpack:"name"`
	SlackUserID string    `msgpack:"slack_user_id"`
	CreatedAt   time.Time `msgpack:"created_at"`
}

// MatchReportedEvent is published when a match result is recorded.
type MatchReportedEvent struct {
	EventID   string    `msgpack:"event_id"`
	Type      EventType `msgpack:"type"`
	MatchID   int       `msgpack:"match_id"`
	Player1   int       `msgpack:"player1"`
	Player2   int       `msgpack:"player2"`
	Score1    int       `msgpack:"score1"`
	Score2    int       `msgpack:"score2"`
	CreatedAt time.Time `msgpack:"created_at"`
}

// MatchStateChangedEvent is published when a match is enabled or disabled.
type MatchStateChangedEvent struct {
	EventID string    `msgpack:"event_id"`
	Type    EventType `msgpack:"type"`
	MatchID int       `msgpack:"match_id"`
	Active  bool      `msgpack:"active"`
}
