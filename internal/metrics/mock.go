package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	playersRegistered int
	matchesSubmitted  int
	matchStateChanges int
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncPlayerRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRegistered++
}

func (m *Mock) IncMatchSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSubmitted++
}

func (m *Mock) IncMatchStateChange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchStateChanges++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PlayersRegistered returns the number of times IncPlayerRegistered was called.
func (m *Mock) PlayersRegistered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRegistered
}

// MatchesSubmitted returns the number of times IncMatchSubmitted was called.
func (m *Mock) MatchesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSubmitted
}

// MatchStateChanges returns the number of times IncMatchStateChange was called.
func (m *Mock) MatchStateChanges() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchStateChanges
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
