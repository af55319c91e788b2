package ladder

// PlayerStore owns Player records. Lookups return (nil, nil) when nothing
// matches; absence is a normal result, not an error.
type PlayerStore interface {
	Create(name string, slackUserID, locale *string) (*Player, error)
	Get(id int) (*Player, error)
	GetByName(name string) (*Player, error)
	GetBySlackID(slackUserID string) (*Player, error)
	Save(player *Player) error
	CountByID(id int) (int64, error)
	CountBySlackID(slackUserID string) (int64, error)
	GetAll() ([]Player, error)
}

// MatchStore owns Match records.
type MatchStore interface {
	Create(player1 *Player, score1, score2 int, player2 *Player) (*Match, error)
	Get(id int) (*Match, error)
	GetByPlayer(player *Player) ([]*Match, error)
	Save(match *Match) error
	CountByID(id int) (int64, error)
	GetAll() ([]*Match, error)
}
