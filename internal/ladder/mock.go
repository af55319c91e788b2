package ladder

import "sync"

// MockPlayerStore is a mock implementation of the PlayerStore interface for
// testing. It is safe for concurrent use.
type MockPlayerStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc         func(name string, slackUserID, locale *string) (*Player, error)
	GetFunc            func(id int) (*Player, error)
	GetByNameFunc      func(name string) (*Player, error)
	GetBySlackIDFunc   func(slackUserID string) (*Player, error)
	SaveFunc           func(player *Player) error
	CountByIDFunc      func(id int) (int64, error)
	CountBySlackIDFunc func(slackUserID string) (int64, error)
	GetAllFunc         func() ([]Player, error)

	// Call records
	CreateCalls []struct {
		Name        string
		SlackUserID *string
		Locale      *string
	}
	SaveCalls []*Player
}

// NewMockPlayerStore creates a new mock instance.
func NewMockPlayerStore() *MockPlayerStore {
	return &MockPlayerStore{}
}

func (m *MockPlayerStore) Create(name string, slackUserID, locale *string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, struct {
		Name        string
		SlackUserID *string
		Locale      *string
	}{name, slackUserID, locale})
	if m.CreateFunc != nil {
		return m.CreateFunc(name, slackUserID, locale)
	}
	return nil, nil
}

func (m *MockPlayerStore) Get(id int) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, nil
}

func (m *MockPlayerStore) GetByName(name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(name)
	}
	return nil, nil
}

func (m *MockPlayerStore) GetBySlackID(slackUserID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetBySlackIDFunc != nil {
		return m.GetBySlackIDFunc(slackUserID)
	}
	return nil, nil
}

func (m *MockPlayerStore) Save(player *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, player)
	if m.SaveFunc != nil {
		return m.SaveFunc(player)
	}
	return nil
}

func (m *MockPlayerStore) CountByID(id int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountByIDFunc != nil {
		return m.CountByIDFunc(id)
	}
	return 0, nil
}

func (m *MockPlayerStore) CountBySlackID(slackUserID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountBySlackIDFunc != nil {
		return m.CountBySlackIDFunc(slackUserID)
	}
	return 0, nil
}

func (m *MockPlayerStore) GetAll() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	return nil, nil
}

// MockMatchStore is a mock implementation of the MatchStore interface for
// testing. It is safe for concurrent use.
type MockMatchStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc      func(player1 *Player, score1, score2 int, player2 *Player) (*Match, error)
	GetFunc         func(id int) (*Match, error)
	GetByPlayerFunc func(player *Player) ([]*Match, error)
	SaveFunc        func(match *Match) error
	CountByIDFunc   func(id int) (int64, error)
	GetAllFunc      func() ([]*Match, error)

	// Call records
	CreateCalls []struct {
		Player1 *Player
		Score1  int
		Score2  int
		Player2 *Player
	}
	SaveCalls []*Match
}

// NewMockMatchStore creates a new mock instance.
func NewMockMatchStore() *MockMatchStore {
	return &MockMatchStore{}
}

func (m *MockMatchStore) Create(player1 *Player, score1, score2 int, player2 *Player) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, struct {
		Player1 *Player
		Score1  int
		Score2  int
		Player2 *Player
	}{player1, score1, score2, player2})
	if m.CreateFunc != nil {
		return m.CreateFunc(player1, score1, score2, player2)
	}
	return nil, nil
}

func (m *MockMatchStore) Get(id int) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, nil
}

func (m *MockMatchStore) GetByPlayer(player *Player) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByPlayerFunc != nil {
		return m.GetByPlayerFunc(player)
	}
	return nil, nil
}

func (m *MockMatchStore) Save(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, match)
	if m.SaveFunc != nil {
		return m.SaveFunc(match)
	}
	return nil
}

func (m *MockMatchStore) CountByID(id int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountByIDFunc != nil {
		return m.CountByIDFunc(id)
	}
	return 0, nil
}

func (m *MockMatchStore) GetAll() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	return nil, nil
}
