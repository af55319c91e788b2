package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchNotification announces a freshly reported match in the channel.
func (s *Notifier) SendMatchNotification(match *ladder.Match, player1, player2 *ladder.Player, dryRun bool) error {
	msg := s.formatMatch(match, player1, player2, "🏓 Match reported!")
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatMatchResponse formats a match message for a slash command response.
func (s *Notifier) FormatMatchResponse(match *ladder.Match, player1, player2 *ladder.Player) (any, error) {
	return s.formatMatch(match, player1, player2, fmt.Sprintf("🏓 Match %s", match.HexID())), nil
}

// FormatPlayerResponse formats a player summary for a slash command response.
func (s *Notifier) FormatPlayerResponse(player *ladder.Player, matches int) (any, error) {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏓 %s", player.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	registered := "unclaimed"
	if player.Registered() {
		registered = "registered"
	}
	detailsText := fmt.Sprintf("> *ID*: %s\n> *Matches played*: %d\n> *Account*: %s",
		player.HexID(),
		matches,
		registered,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", detailsText, false, false), nil, nil))

	contextText := fmt.Sprintf("Joined: %s", player.CreatedAt.Format("Jan 2, 2006"))
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...), nil
}

// FormatPlayerNotFoundResponse creates a message for when no player matches a query.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name or id.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}

// FormatMatchNotFoundResponse creates a message for when no match exists under an id.
func (s *Notifier) FormatMatchNotFoundResponse(query string) (any, error) {
	text := fmt.Sprintf("Sorry, I couldn't find a match with id *%s*.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}

// formatMatch creates the Slack message for a match using Block Kit. Scores
// read left to right in player order.
func (s *Notifier) formatMatch(match *ladder.Match, player1, player2 *ladder.Player, header string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", header, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	scoreText := fmt.Sprintf("%s %d - %d %s", playerName(player1), match.Score1, match.Score2, playerName(player2))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", scoreText, true, false), nil, nil))

	state := "Active"
	if !match.Active {
		state = "Inactive"
	}
	contextText := fmt.Sprintf("Match %s • %s • %s",
		match.HexID(),
		match.CreatedAt.Format("Jan 2, 2006 at 15:04"),
		state,
	)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// playerName guards against matches whose player records went missing.
func playerName(player *ladder.Player) string {
	if player == nil {
		return "unknown"
	}
	return player.Name
}
