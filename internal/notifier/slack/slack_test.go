package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testMatch() (*ladder.Match, *ladder.Player, *ladder.Player) {
	match := &ladder.Match{
		ID:        0x1a2b3c,
		Player1:   0x1234,
		Player2:   0x5678,
		Score1:    3,
		Score2:    1,
		Active:    true,
		CreatedAt: time.Date(2025, 7, 9, 20, 0, 0, 0, time.UTC),
	}
	player1 := &ladder.Player{ID: 0x1234, Name: "Alice"}
	player2 := &ladder.Player{ID: 0x5678, Name: "Bob"}
	return match, player1, player2
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendMatchNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	match, player1, player2 := testMatch()
	err := notifier.SendMatchNotification(match, player1, player2, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendMatchNotification")
}

func TestFormatMatch(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	match, player1, player2 := testMatch()

	msg := client.formatMatch(match, player1, player2, "🏓 Match reported!")
	require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

	// 1. Header Block
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🏓 Match reported!", header.Text.Text)

	// 2. Score Section
	score, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Second block should be a SectionBlock")
	assert.Equal(t, "Alice 3 - 1 Bob", score.Text.Text)

	// 3. Context Section
	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok, "Third block should be a ContextBlock")
	require.Len(t, contextBlock.ContextElements.Elements, 1)

	contextElement, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, contextElement.Text, "Match 1a2b3c")
	assert.Contains(t, contextElement.Text, "Active")
}

func TestFormatMatch_Inactive(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	match, player1, player2 := testMatch()
	match.Active = false

	msg := client.formatMatch(match, player1, player2, "🏓 Match 1a2b3c")

	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	contextElement, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, contextElement.Text, "Inactive")
}

func TestFormatPlayerResponse(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("formats a registered player", func(t *testing.T) {
		slackUserID := "U123"
		player := &ladder.Player{
			ID:          0x1234,
			Name:        "Alice",
			SlackUserID: &slackUserID,
			CreatedAt:   time.Date(2025, 7, 9, 20, 0, 0, 0, time.UTC),
		}

		resp, err := client.FormatPlayerResponse(player, 7)
		require.NoError(t, err)

		msg, ok := resp.(slackapi.Message)
		require.True(t, ok)
		require.Len(t, msg.Blocks.BlockSet, 3)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏓 Alice", header.Text.Text)

		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "> *ID*: 1234")
		assert.Contains(t, section.Text.Text, "> *Matches played*: 7")
		assert.Contains(t, section.Text.Text, "> *Account*: registered")
	})

	t.Run("formats an unclaimed player", func(t *testing.T) {
		player := &ladder.Player{ID: 0x1234, Name: "Bob"}

		resp, err := client.FormatPlayerResponse(player, 0)
		require.NoError(t, err)

		msg, ok := resp.(slackapi.Message)
		require.True(t, ok)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "> *Account*: unclaimed")
	})
}

func TestFormatNotFoundResponses(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	resp, err := client.FormatPlayerNotFoundResponse("Unknown Player")
	require.NoError(t, err)
	msg, ok := resp.(slackapi.Message)
	require.True(t, ok)
	section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Sorry, I couldn't find a player matching *Unknown Player*. Try a different name or id.", section.Text.Text)

	resp, err = client.FormatMatchNotFoundResponse("abc123")
	require.NoError(t, err)
	msg, ok = resp.(slackapi.Message)
	require.True(t, ok)
	section, ok = msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Sorry, I couldn't find a match with id *abc123*.", section.Text.Text)
}
