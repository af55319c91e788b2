package ladder

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mazrk/ladderbot/internal/ident"
)

// NewMatchStore creates a new MatchStore. A nil allocator gets the default
// match id range with a time-seeded source.
func NewMatchStore(db *sql.DB, ids *ident.Allocator) MatchStore {
	if ids == nil {
		ids = ident.New(ident.MatchLow, ident.MatchHigh, nil)
	}
	return &matchStore{db: db, ids: ids}
}

// Create allocates a fresh id and persists a new Match between the two
// players. Matches start active. Both players must already exist in the
// player store; the matches table enforces that with foreign keys.
func (s *matchStore) Create(player1 *Player, score1, score2 int, player2 *Player) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < createAttempts; i++ {
		id, err := s.ids.Next(s.countByID)
		if err != nil {
			return nil, err
		}

		match := &Match{
			ID:        id,
			Player1:   player1.ID,
			Player2:   player2.ID,
			Score1:    score1,
			Score2:    score2,
			Active:    true,
			CreatedAt: time.Now().Truncate(time.Second),
		}

		res, err := s.db.Exec(`
			INSERT INTO matches (id, player1, player2, score1, score2, active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, match.ID, match.Player1, match.Player2, match.Score1, match.Score2, match.Active, match.CreatedAt.Unix())
		if err != nil {
			return nil, fmt.Errorf("failed to insert match: %w", err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read insert result: %w", err)
		}
		if inserted == 0 {
			log.Debug("Match id collided after allocation, re-drawing", "id", match.HexID())
			continue
		}

		log.Info("Created match", "id", match.HexID(), "player1", player1.HexID(), "player2", player2.HexID())
		return match, nil
	}
	return nil, ident.ErrIDSpaceExhausted
}

// Get is a point lookup by id.
func (s *matchStore) Get(id int) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, player1, player2, score1, score2, active, created_at
		FROM matches WHERE id = ?
	`, id)

	match, err := scanMatchRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return match, nil
}

// GetByPlayer returns every match where the given player appears on either
// side, regardless of active state. Order is unspecified.
func (s *matchStore) GetByPlayer(player *Player) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, player1, player2, score1, score2, active, created_at
		FROM matches WHERE player1 = ? OR player2 = ?
	`, player.ID, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by player: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// Save is a full upsert keyed by id; used to persist active toggles and
// score edits. Last write wins.
func (s *matchStore) Save(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO matches (id, player1, player2, score1, score2, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			player1 = excluded.player1,
			player2 = excluded.player2,
			score1 = excluded.score1,
			score2 = excluded.score2,
			active = excluded.active,
			created_at = excluded.created_at
	`, match.ID, match.Player1, match.Player2, match.Score1, match.Score2, match.Active, match.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save match %s: %w", match.HexID(), err)
	}
	return nil
}

func (s *matchStore) CountByID(id int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countByID(id)
}

func (s *matchStore) countByID(id int) (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE id = ?", id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches by id: %w", err)
	}
	return n, nil
}

// GetAll returns every match, newest first.
func (s *matchStore) GetAll() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, player1, player2, score1, score2, active, created_at
		FROM matches ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func collectMatches(rows *sql.Rows) ([]*Match, error) {
	var matches []*Match
	for rows.Next() {
		match, err := scanMatchRow(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func scanMatchRow(scanner rowScanner) (*Match, error) {
	var match Match
	var createdAt int64

	err := scanner.Scan(&match.ID, &match.Player1, &match.Player2, &match.Score1, &match.Score2, &match.Active, &createdAt)
	if err != nil {
		return nil, err
	}
	match.CreatedAt = time.Unix(createdAt, 0)
	return &match, nil
}
