package notifier

import (
	"github.com/mazrk/ladderbot/internal/ladder"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For channel announcements
	SendMatchNotification(match *ladder.Match, player1, player2 *ladder.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatMatchResponse(match *ladder.Match, player1, player2 *ladder.Player) (any, error)
	FormatPlayerResponse(player *ladder.Player, matches int) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
	FormatMatchNotFoundResponse(query string) (any, error)
}
