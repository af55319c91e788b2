package notifier

import (
	"sync"

	"github.com/mazrk/ladderbot/internal/ladder"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchNotificationCalls []struct {
		Match   *ladder.Match
		Player1 *ladder.Player
		Player2 *ladder.Player
		DryRun  bool
	}

	// Spies for send and format functions
	SendMatchNotificationFunc func(match *ladder.Match, player1, player2 *ladder.Player, dryRun bool) error
	FormatMatchResponseFunc   func(match *ladder.Match, player1, player2 *ladder.Player) (any, error)
	FormatPlayerResponseFunc  func(player *ladder.Player, matches int) (any, error)
	FormatPlayerNotFoundFunc  func(query string) (any, error)
	FormatMatchNotFoundFunc   func(query string) (any, error)

	// Call records for format functions
	LastMatchResponse  any
	LastPlayerResponse any
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchNotificationCalls = nil
	m.LastMatchResponse = nil
	m.LastPlayerResponse = nil
}

func (m *Mock) SendMatchNotification(match *ladder.Match, player1, player2 *ladder.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchNotificationCalls = append(m.SendMatchNotificationCalls, struct {
		Match   *ladder.Match
		Player1 *ladder.Player
		Player2 *ladder.Player
		DryRun  bool
	}{match, player1, player2, dryRun})
	if m.SendMatchNotificationFunc != nil {
		return m.SendMatchNotificationFunc(match, player1, player2, dryRun)
	}
	return nil
}

func (m *Mock) FormatMatchResponse(match *ladder.Match, player1, player2 *ladder.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatMatchResponseFunc != nil {
		resp, err := m.FormatMatchResponseFunc(match, player1, player2)
		m.LastMatchResponse = resp
		return resp, err
	}
	return "formatted_match", nil
}

func (m *Mock) FormatPlayerResponse(player *ladder.Player, matches int) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerResponseFunc != nil {
		resp, err := m.FormatPlayerResponseFunc(player, matches)
		m.LastPlayerResponse = resp
		return resp, err
	}
	return "formatted_player", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundFunc != nil {
		return m.FormatPlayerNotFoundFunc(query)
	}
	return "formatted_player_not_found", nil
}

func (m *Mock) FormatMatchNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatMatchNotFoundFunc != nil {
		return m.FormatMatchNotFoundFunc(query)
	}
	return "formatted_match_not_found", nil
}
