package ladder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mazrk/ladderbot/internal/ident"
)

// createAttempts bounds how often Create re-allocates after losing an insert
// race. The allocator already checked occupancy, so more than one retry is
// already unusual.
const createAttempts = 8

// NewPlayerStore creates a new PlayerStore. A nil allocator gets the default
// player id range with a time-seeded source.
func NewPlayerStore(db *sql.DB, ids *ident.Allocator) PlayerStore {
	if ids == nil {
		ids = ident.New(ident.PlayerLow, ident.PlayerHigh, nil)
	}
	return &playerStore{db: db, ids: ids}
}

// Create allocates a fresh id, persists a new Player and returns it. The
// insert is conditional on the id still being free; if a concurrent Create
// won the race for the same id, allocation is retried instead of silently
// overwriting the winner's record.
func (s *playerStore) Create(name string, slackUserID, locale *string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < createAttempts; i++ {
		id, err := s.ids.Next(s.countByID)
		if err != nil {
			return nil, err
		}

		player := &Player{
			ID:          id,
			Name:        name,
			SlackUserID: slackUserID,
			CreatedAt:   time.Now().Truncate(time.Second),
			Locale:      locale,
		}

		res, err := s.db.Exec(`
			INSERT INTO players (id, name, slack_user_id, created_at, locale)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, player.ID, player.Name, player.SlackUserID, player.CreatedAt.Unix(), player.Locale)
		if err != nil {
			return nil, fmt.Errorf("failed to insert player: %w", err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read insert result: %w", err)
		}
		if inserted == 0 {
			log.Debug("Player id collided after allocation, re-drawing", "id", player.HexID())
			continue
		}

		log.Info("Created player", "id", player.HexID(), "name", name)
		return player, nil
	}
	return nil, ident.ErrIDSpaceExhausted
}

// Get is a point lookup by id.
func (s *playerStore) Get(id int) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, slack_user_id, created_at, locale
		FROM players WHERE id = ?
	`, id)
	return scanPlayer(row)
}

// GetByName does a case-insensitive substring match against stored names.
// LIKE wildcards in the query are escaped, so a % or _ in a name only matches
// itself. When several players match, the earliest-created record wins; names
// are treated as effectively unique so ties are not expected in practice.
func (s *playerStore) GetByName(name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, slack_user_id, created_at, locale
		FROM players
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY created_at, id
		LIMIT 1
	`, "%"+escapeLike(name)+"%")
	return scanPlayer(row)
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetBySlackID returns the player bound to the given Slack account, if any.
func (s *playerStore) GetBySlackID(slackUserID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, slack_user_id, created_at, locale
		FROM players WHERE slack_user_id = ?
	`, slackUserID)
	return scanPlayer(row)
}

// Save is a full upsert keyed by id, used for creation replays and field
// updates alike. Last write wins.
func (s *playerStore) Save(player *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, slack_user_id, created_at, locale)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			slack_user_id = excluded.slack_user_id,
			created_at = excluded.created_at,
			locale = excluded.locale
	`, player.ID, player.Name, player.SlackUserID, player.CreatedAt.Unix(), player.Locale)
	if err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.HexID(), err)
	}
	return nil
}

func (s *playerStore) CountByID(id int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countByID(id)
}

// countByID is the unlocked variant handed to the id allocator from Create,
// which already holds the write lock.
func (s *playerStore) countByID(id int) (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE id = ?", id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players by id: %w", err)
	}
	return n, nil
}

func (s *playerStore) CountBySlackID(slackUserID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE slack_user_id = ?", slackUserID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players by slack id: %w", err)
	}
	return n, nil
}

// GetAll returns every player, ordered by name.
func (s *playerStore) GetAll() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, slack_user_id, created_at, locale
		FROM players ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		player, err := scanPlayerRow(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

type rowScanner interface{ Scan(...any) error }

func scanPlayerRow(scanner rowScanner) (*Player, error) {
	var player Player
	var slackUserID, locale sql.NullString
	var createdAt int64

	if err := scanner.Scan(&player.ID, &player.Name, &slackUserID, &createdAt, &locale); err != nil {
		return nil, err
	}
	if slackUserID.Valid {
		player.SlackUserID = &slackUserID.String
	}
	if locale.Valid {
		player.Locale = &locale.String
	}
	player.CreatedAt = time.Unix(createdAt, 0)
	return &player, nil
}

// scanPlayer wraps scanPlayerRow for single-row lookups, mapping the no-rows
// case to a nil player.
func scanPlayer(row *sql.Row) (*Player, error) {
	player, err := scanPlayerRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return player, nil
}
