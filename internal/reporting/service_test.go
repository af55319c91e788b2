package reporting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazrk/ladderbot/internal/database"
	"github.com/mazrk/ladderbot/internal/ident"
	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/notifier"
	"github.com/mazrk/ladderbot/internal/pubsub"
)

type fixture struct {
	svc      *Service
	players  ladder.PlayerStore
	matches  ladder.MatchStore
	notifier *notifier.Mock
	events   *pubsub.MockPubSubClient
	metrics  *metrics.Mock
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	f := &fixture{
		players:  ladder.NewPlayerStore(db, nil),
		matches:  ladder.NewMatchStore(db, nil),
		notifier: notifier.NewMock(),
		events:   pubsub.NewMock(),
		metrics:  metrics.NewMock(),
	}
	f.svc = New(f.players, f.matches, f.notifier, f.events, f.metrics, "ladder-events", false)
	return f
}

func (f *fixture) registeredPlayer(t *testing.T, name, slackUserID string) *ladder.Player {
	t.Helper()
	player, err := f.players.Create(name, &slackUserID, nil)
	require.NoError(t, err)
	return player
}

func TestSubmitRecordsMatch(t *testing.T) {
	f := setup(t)
	reporter := f.registeredPlayer(t, "Alice", "U123")

	result, err := f.svc.Submit("U123", 3, 1, "Bob", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, result.Outcome)
	require.NotNil(t, result.Match)
	assert.Equal(t, reporter.ID, result.Match.Player1)
	assert.Equal(t, 3, result.Match.Score1)
	assert.Equal(t, 1, result.Match.Score2)
	assert.True(t, result.Match.Active, "new matches start active")
	assert.GreaterOrEqual(t, result.Match.ID, ident.MatchLow)
	assert.Less(t, result.Match.ID, ident.MatchHigh)

	// The opponent was created on the fly, unbound to any account.
	require.NotNil(t, result.Player2)
	assert.Equal(t, "Bob", result.Player2.Name)
	assert.False(t, result.Player2.Registered())

	require.Len(t, f.notifier.SendMatchNotificationCalls, 1)
	assert.False(t, f.notifier.SendMatchNotificationCalls[0].DryRun)
	require.Len(t, f.events.SendMessageCalls, 1)
	event, ok := f.events.SendMessageCalls[0].Data.(pubsub.MatchReportedEvent)
	require.True(t, ok)
	assert.Equal(t, pubsub.EventMatchReported, event.Type)
	assert.Equal(t, 1, f.metrics.MatchesSubmitted())
}

func TestSubmitDryRunReachesNotifier(t *testing.T) {
	f := setup(t)
	f.registeredPlayer(t, "Alice", "U123")

	_, err := f.svc.Submit("U123", 3, 1, "Bob", true)
	require.NoError(t, err)

	require.Len(t, f.notifier.SendMatchNotificationCalls, 1)
	assert.True(t, f.notifier.SendMatchNotificationCalls[0].DryRun)
}

func TestSubmitReusesExistingOpponent(t *testing.T) {
	f := setup(t)
	f.registeredPlayer(t, "Alice", "U123")
	bob, err := f.players.Create("Bob", nil, nil)
	require.NoError(t, err)

	// Opponent lookup is case-insensitive.
	result, err := f.svc.Submit("U123", 2, 3, "bob", false)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, result.Match.Player2)

	all, err := f.players.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2, "no duplicate player should be created")
}

func TestSubmitRejectsUnregisteredReporter(t *testing.T) {
	f := setup(t)

	result, err := f.svc.Submit("U999", 3, 1, "Bob", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotRegistered, result.Outcome)
	assert.Nil(t, result.Match)

	// The rejection happens before any player is created.
	all, err := f.players.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.notifier.SendMatchNotificationCalls)
	assert.Equal(t, 0, f.metrics.MatchesSubmitted())
}

func TestSubmitAsAdminCreatesBothPlayers(t *testing.T) {
	f := setup(t)

	result, err := f.svc.SubmitAsAdmin("Carol", 5, 4, "Dave", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, result.Outcome)
	assert.Equal(t, "Carol", result.Player1.Name)
	assert.Equal(t, "Dave", result.Player2.Name)
	assert.False(t, result.Player1.Registered())
	assert.False(t, result.Player2.Registered())
}

func TestSetActiveTogglesMatch(t *testing.T) {
	f := setup(t)
	f.registeredPlayer(t, "Alice", "U123")
	submitted, err := f.svc.Submit("U123", 3, 1, "Bob", false)
	require.NoError(t, err)
	matchID := submitted.Match.ID

	result, err := f.svc.SetActive(matchID, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)
	assert.False(t, result.Match.Active)
	assert.Equal(t, 1, f.metrics.MatchStateChanges())

	require.Len(t, f.events.SendMessageCalls, 2)
	stateEvent, ok := f.events.SendMessageCalls[1].Data.(pubsub.MatchStateChangedEvent)
	require.True(t, ok)
	assert.Equal(t, pubsub.EventMatchStateChanged, stateEvent.Type)
	assert.False(t, stateEvent.Active)

	stored, err := f.matches.Get(matchID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	// Disabling an already disabled match is a no-op.
	result, err = f.svc.SetActive(matchID, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, result.Outcome)
	assert.Equal(t, 1, f.metrics.MatchStateChanges())

	result, err = f.svc.SetActive(matchID, true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)
	assert.True(t, result.Match.Active)
}

func TestSetActiveUnknownMatch(t *testing.T) {
	f := setup(t)

	result, err := f.svc.SetActive(0x123456, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Nil(t, result.Match)
}

func TestFixScoresUpdatesMatch(t *testing.T) {
	f := setup(t)
	f.registeredPlayer(t, "Alice", "U123")
	submitted, err := f.svc.Submit("U123", 3, 1, "Bob", false)
	require.NoError(t, err)

	result, err := f.svc.FixScores(submitted.Match.ID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)

	stored, err := f.matches.Get(submitted.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Score1)
	assert.Equal(t, 3, stored.Score2)

	// Correcting to the same score is a no-op.
	result, err = f.svc.FixScores(submitted.Match.ID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, result.Outcome)
}

func TestFixScoresUnknownMatch(t *testing.T) {
	f := setup(t)

	result, err := f.svc.FixScores(0x123456, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Nil(t, result.Match)
}

func TestSubmitPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("store unavailable")
	players := ladder.NewMockPlayerStore()
	players.GetBySlackIDFunc = func(slackUserID string) (*ladder.Player, error) {
		return nil, storeErr
	}
	svc := New(players, ladder.NewMockMatchStore(), notifier.NewMock(), pubsub.NewMock(), metrics.NewMock(), "ladder-events", false)

	_, err := svc.Submit("U123", 3, 1, "Bob", false)
	assert.ErrorIs(t, err, storeErr)
}

func TestSetActivePropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("store unavailable")
	matches := ladder.NewMockMatchStore()
	matches.GetFunc = func(id int) (*ladder.Match, error) {
		return nil, storeErr
	}
	svc := New(ladder.NewMockPlayerStore(), matches, notifier.NewMock(), pubsub.NewMock(), metrics.NewMock(), "ladder-events", false)

	_, err := svc.SetActive(0x123456, false)
	assert.ErrorIs(t, err, storeErr)
}

func TestMatchInfoResolvesPlayers(t *testing.T) {
	f := setup(t)
	f.registeredPlayer(t, "Alice", "U123")
	submitted, err := f.svc.Submit("U123", 3, 1, "Bob", false)
	require.NoError(t, err)

	details, err := f.svc.MatchInfo(submitted.Match.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "Alice", details.Player1.Name)
	assert.Equal(t, "Bob", details.Player2.Name)

	missing, err := f.svc.MatchInfo(0x123456)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlayerInfoCountsMatches(t *testing.T) {
	f := setup(t)
	alice := f.registeredPlayer(t, "Alice", "U123")
	_, err := f.svc.Submit("U123", 3, 1, "Bob", false)
	require.NoError(t, err)
	_, err = f.svc.Submit("U123", 0, 3, "Carol", false)
	require.NoError(t, err)

	details, err := f.svc.PlayerInfo(alice.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, 2, details.Matches)

	// Bob only appears on the receiving side.
	byName, err := f.svc.PlayerInfoByName("bob")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "Bob", byName.Player.Name)
	assert.Equal(t, 1, byName.Matches)

	missing, err := f.svc.PlayerInfoByName("Nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
