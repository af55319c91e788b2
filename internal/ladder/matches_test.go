package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazrk/ladderbot/internal/ident"
)

func setupStores(t *testing.T) (PlayerStore, MatchStore) {
	t.Helper()
	db := setupDB(t)
	return NewPlayerStore(db, nil), NewMatchStore(db, nil)
}

func TestMatchCreateStartsActive(t *testing.T) {
	players, matches := setupStores(t)

	alice, err := players.Create("Alice", nil, nil)
	require.NoError(t, err)
	bob, err := players.Create("Bob", nil, nil)
	require.NoError(t, err)

	match, err := matches.Create(alice, 3, 1, bob)
	require.NoError(t, err)
	assert.True(t, match.Active)
	assert.Equal(t, alice.ID, match.Player1)
	assert.Equal(t, bob.ID, match.Player2)
	assert.Equal(t, 3, match.Score1)
	assert.Equal(t, 1, match.Score2)
	assert.GreaterOrEqual(t, match.ID, ident.MatchLow)
	assert.Less(t, match.ID, ident.MatchHigh)
}

func TestMatchRoundTrip(t *testing.T) {
	players, matches := setupStores(t)

	alice, err := players.Create("Alice", nil, nil)
	require.NoError(t, err)
	bob, err := players.Create("Bob", nil, nil)
	require.NoError(t, err)

	created, err := matches.Create(alice, 3, 1, bob)
	require.NoError(t, err)

	got, err := matches.Get(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Score1, got.Score1)
	assert.Equal(t, created.Score2, got.Score2)
	assert.True(t, got.Active)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt), "created_at should survive the round trip")
}

func TestMatchGetMissingIsNil(t *testing.T) {
	_, matches := setupStores(t)

	got, err := matches.Get(0x123456)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMatchSavePersistsActiveToggle(t *testing.T) {
	players, matches := setupStores(t)

	alice, err := players.Create("Alice", nil, nil)
	require.NoError(t, err)
	bob, err := players.Create("Bob", nil, nil)
	require.NoError(t, err)

	match, err := matches.Create(alice, 3, 1, bob)
	require.NoError(t, err)

	match.Active = false
	require.NoError(t, matches.Save(match))

	got, err := matches.Get(match.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	match.Active = true
	require.NoError(t, matches.Save(match))

	got, err = matches.Get(match.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestMatchGetByPlayerFindsBothSides(t *testing.T) {
	players, matches := setupStores(t)

	alice, err := players.Create("Alice", nil, nil)
	require.NoError(t, err)
	bob, err := players.Create("Bob", nil, nil)
	require.NoError(t, err)
	carol, err := players.Create("Carol", nil, nil)
	require.NoError(t, err)

	_, err = matches.Create(alice, 3, 1, bob)
	require.NoError(t, err)
	_, err = matches.Create(carol, 2, 3, alice)
	require.NoError(t, err)
	_, err = matches.Create(bob, 1, 1, carol)
	require.NoError(t, err)

	aliceMatches, err := matches.GetByPlayer(alice)
	require.NoError(t, err)
	assert.Len(t, aliceMatches, 2)

	bobMatches, err := matches.GetByPlayer(bob)
	require.NoError(t, err)
	assert.Len(t, bobMatches, 2)
}

func TestMatchGetAll(t *testing.T) {
	players, matches := setupStores(t)

	alice, err := players.Create("Alice", nil, nil)
	require.NoError(t, err)
	bob, err := players.Create("Bob", nil, nil)
	require.NoError(t, err)

	_, err = matches.Create(alice, 3, 1, bob)
	require.NoError(t, err)
	_, err = matches.Create(bob, 2, 3, alice)
	require.NoError(t, err)

	all, err := matches.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMatchHexID(t *testing.T) {
	match := &Match{ID: 0x1a2b3c}
	assert.Equal(t, "1a2b3c", match.HexID())
}
