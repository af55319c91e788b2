package ladder

import (
	"database/sql"
	"strconv"
	"sync"
	"time"

	"github.com/mazrk/ladderbot/internal/ident"
)

// playerStore handles all database operations for players.
type playerStore struct {
	db  *sql.DB
	ids *ident.Allocator
	mu  sync.RWMutex
}

// matchStore handles all database operations for matches.
type matchStore struct {
	db  *sql.DB
	ids *ident.Allocator
	mu  sync.RWMutex
}

// Player is a ladder participant. SlackUserID links the record to at most one
// Slack account; nil means the player was auto-created from a match report
// and nobody has claimed the name yet.
type Player struct {
	ID          int
	Name        string
	SlackUserID *string
	CreatedAt   time.Time
	Locale      *string
}

// HexID renders the id the way it is shown to users.
func (p *Player) HexID() string {
	return strconv.FormatInt(int64(p.ID), 16)
}

// Registered reports whether the record is bound to a Slack account.
func (p *Player) Registered() bool {
	return p.SlackUserID != nil
}

// Match is a recorded result between two players. Inactive matches stay in
// the store but no longer count toward standing history.
type Match struct {
	ID        int
	Player1   int
	Player2   int
	Score1    int
	Score2    int
	Active    bool
	CreatedAt time.Time
}

func (m *Match) HexID() string {
	return strconv.FormatInt(int64(m.ID), 16)
}
