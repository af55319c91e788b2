package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mazrk/ladderbot/internal/registration"
	"github.com/mazrk/ladderbot/internal/reporting"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListMembersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.GetAll()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Matches.GetAll()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// textMessage wraps a plain line of text in a minimal Block Kit message.
func textMessage(text string) slack.Message {
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

// RegisterCommandHandler returns a handler for the /register Slack command.
func (s *Server) RegisterCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		userID := r.FormValue("user_id")
		name := strings.TrimSpace(r.FormValue("text"))
		if userID == "" {
			http.Error(w, "Missing required Slack form data", http.StatusBadRequest)
			return
		}
		if name == "" {
			http.Error(w, "A player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received register command", "user", userID, "name", name)
		result, err := s.Registration.Register(name, userID)
		if err != nil {
			http.Error(w, "Failed to register", http.StatusInternalServerError)
			log.Error("Failed to register player", "error", err)
			return
		}

		var text string
		switch result.Outcome {
		case registration.OutcomeCreated:
			text = fmt.Sprintf("Welcome to the ladder, %s! Your player id is %s.", result.Player.Name, result.Player.HexID())
		case registration.OutcomeLinked:
			text = fmt.Sprintf("Linked you to existing player %s (id %s).", result.Player.Name, result.Player.HexID())
		case registration.OutcomeNameClaimed:
			text = fmt.Sprintf("Sorry, the name %s already belongs to another registered player.", result.Player.Name)
		case registration.OutcomeAlreadyRegistered:
			text = fmt.Sprintf("You're already registered as %s (id %s).", result.Player.Name, result.Player.HexID())
		default:
			text = "Something unexpected happened, try again."
		}
		respondWithSlackMsg(w, textMessage(text))
	}
}

// ChangeNameCommandHandler returns a handler for the /changename Slack command.
func (s *Server) ChangeNameCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		userID := r.FormValue("user_id")
		newName := strings.TrimSpace(r.FormValue("text"))
		if userID == "" {
			http.Error(w, "Missing required Slack form data", http.StatusBadRequest)
			return
		}
		if newName == "" {
			http.Error(w, "A new name is required.", http.StatusBadRequest)
			return
		}

		result, err := s.Registration.ChangeName(userID, newName)
		if err != nil {
			http.Error(w, "Failed to change name", http.StatusInternalServerError)
			log.Error("Failed to change name", "error", err)
			return
		}

		var text string
		switch result.Outcome {
		case registration.OutcomeRenamed:
			text = fmt.Sprintf("Done! You're now known as %s.", result.Player.Name)
		case registration.OutcomeNotRegistered:
			text = "You're not registered yet. Use /register first."
		default:
			text = "Something unexpected happened, try again."
		}
		respondWithSlackMsg(w, textMessage(text))
	}
}

// SubmitCommandHandler returns a handler for the /submit Slack command. The
// reporter's score always comes first.
func (s *Server) SubmitCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		userID := r.FormValue("user_id")
		if userID == "" {
			http.Error(w, "Missing required Slack form data", http.StatusBadRequest)
			return
		}

		score1, score2, opponent, err := parseSubmitText(r.FormValue("text"))
		if err != nil {
			http.Error(w, "Usage: /submit <your score> <their score> <opponent>", http.StatusBadRequest)
			return
		}

		log.Info("Received submit command", "user", userID, "opponent", opponent)
		result, err := s.Reporting.Submit(userID, score1, score2, opponent, isDryRunFromContext(r))
		if err != nil {
			http.Error(w, "Failed to submit match", http.StatusInternalServerError)
			log.Error("Failed to submit match", "error", err)
			return
		}

		if result.Outcome == reporting.OutcomeNotRegistered {
			respondWithSlackMsg(w, textMessage("You're not registered yet. Use /register first."))
			return
		}
		s.respondWithMatch(w, result)
	}
}

// AdminSubmitCommandHandler returns a handler for the /admin-submit Slack
// command, which records a match between two named players.
func (s *Server) AdminSubmitCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		player1, score1, score2, player2, err := parseAdminSubmitText(r.FormValue("text"))
		if err != nil {
			http.Error(w, "Usage: /admin-submit <player1> <score1> <score2> <player2>", http.StatusBadRequest)
			return
		}

		log.Info("Received admin submit command", "player1", player1, "player2", player2)
		result, err := s.Reporting.SubmitAsAdmin(player1, score1, score2, player2, isDryRunFromContext(r))
		if err != nil {
			http.Error(w, "Failed to submit match", http.StatusInternalServerError)
			log.Error("Failed to submit match", "error", err)
			return
		}
		s.respondWithMatch(w, result)
	}
}

// FixCommandHandler returns a handler for the /fix Slack command, which
// corrects the recorded scores of an existing match.
func (s *Server) FixCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))

		matchID, score1, score2, err := parseFixText(text)
		if err != nil {
			http.Error(w, "Usage: /fix <match id> <score1> <score2>", http.StatusBadRequest)
			return
		}

		log.Info("Received fix command", "match", text)
		result, err := s.Reporting.FixScores(matchID, score1, score2)
		if err != nil {
			http.Error(w, "Failed to fix match", http.StatusInternalServerError)
			log.Error("Failed to fix match", "error", err)
			return
		}

		switch result.Outcome {
		case reporting.OutcomeNotFound:
			s.respondWithMatchNotFound(w, text)
		case reporting.OutcomeUnchanged:
			respondWithSlackMsg(w, textMessage(fmt.Sprintf("Match %s already has that score.", result.Match.HexID())))
		default:
			respondWithSlackMsg(w, textMessage(fmt.Sprintf("Match %s is now %d - %d.", result.Match.HexID(), result.Match.Score1, result.Match.Score2)))
		}
	}
}

// MatchInfoCommandHandler returns a handler for the /match-info Slack command.
func (s *Server) MatchInfoCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			http.Error(w, "A match id is required.", http.StatusBadRequest)
			return
		}

		matchID, err := parseHexID(text)
		if err != nil {
			s.respondWithMatchNotFound(w, text)
			return
		}

		details, err := s.Reporting.MatchInfo(matchID)
		if err != nil {
			http.Error(w, "Failed to get match", http.StatusInternalServerError)
			log.Error("Failed to get match", "error", err)
			return
		}
		if details == nil {
			s.respondWithMatchNotFound(w, text)
			return
		}

		msg, err := s.Notifier.FormatMatchResponse(details.Match, details.Player1, details.Player2)
		if err != nil {
			http.Error(w, "Failed to format match", http.StatusInternalServerError)
			log.Error("Failed to format match", "error", err)
			return
		}
		s.respondWithAny(w, msg)
	}
}

// PlayerInfoCommandHandler returns a handler for the /player-info Slack
// command. The query is tried as a hex player id first, then as a name.
func (s *Server) PlayerInfoCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			http.Error(w, "A player name or id is required.", http.StatusBadRequest)
			return
		}

		var details *reporting.PlayerDetails
		if playerID, err := parseHexID(text); err == nil {
			details, err = s.Reporting.PlayerInfo(playerID)
			if err != nil {
				http.Error(w, "Failed to get player", http.StatusInternalServerError)
				log.Error("Failed to get player", "error", err)
				return
			}
		}
		if details == nil {
			var err error
			details, err = s.Reporting.PlayerInfoByName(text)
			if err != nil {
				http.Error(w, "Failed to get player", http.StatusInternalServerError)
				log.Error("Failed to get player", "error", err)
				return
			}
		}

		var msg any
		var err error
		if details == nil {
			log.Warn("Could not find player", "query", text)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(text)
		} else {
			msg, err = s.Notifier.FormatPlayerResponse(details.Player, details.Matches)
		}
		if err != nil {
			http.Error(w, "Failed to format player", http.StatusInternalServerError)
			log.Error("Failed to format player", "error", err)
			return
		}
		s.respondWithAny(w, msg)
	}
}

// SetActiveCommandHandler returns a handler for the /enable and /disable
// Slack commands.
func (s *Server) SetActiveCommandHandler(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			http.Error(w, "A match id is required.", http.StatusBadRequest)
			return
		}

		matchID, err := parseHexID(text)
		if err != nil {
			s.respondWithMatchNotFound(w, text)
			return
		}

		result, err := s.Reporting.SetActive(matchID, active)
		if err != nil {
			http.Error(w, "Failed to update match", http.StatusInternalServerError)
			log.Error("Failed to update match", "error", err)
			return
		}

		state := "active"
		if !active {
			state = "inactive"
		}
		switch result.Outcome {
		case reporting.OutcomeNotFound:
			s.respondWithMatchNotFound(w, text)
		case reporting.OutcomeUnchanged:
			respondWithSlackMsg(w, textMessage(fmt.Sprintf("Match %s is already %s.", result.Match.HexID(), state)))
		default:
			respondWithSlackMsg(w, textMessage(fmt.Sprintf("Match %s is now %s.", result.Match.HexID(), state)))
		}
	}
}

func (s *Server) respondWithMatch(w http.ResponseWriter, result reporting.SubmitResult) {
	msg, err := s.Notifier.FormatMatchResponse(result.Match, result.Player1, result.Player2)
	if err != nil {
		http.Error(w, "Failed to format match", http.StatusInternalServerError)
		log.Error("Failed to format match", "error", err)
		return
	}
	s.respondWithAny(w, msg)
}

func (s *Server) respondWithMatchNotFound(w http.ResponseWriter, query string) {
	msg, err := s.Notifier.FormatMatchNotFoundResponse(query)
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format match not found response", "error", err)
		return
	}
	s.respondWithAny(w, msg)
}

func (s *Server) respondWithAny(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithSlackMsg(w, slackMsg)
}

// parseHexID parses a user-facing hex id like "1a2b" into its numeric form.
func parseHexID(text string) (int, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", text, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q", text)
	}
	return int(id), nil
}

// parseSubmitText extracts the scores and opponent name from a /submit text.
// Both "3 1 Bob" and "3-1 Bob" are accepted.
func parseSubmitText(text string) (int, int, string, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) >= 2 {
		if score1, score2, ok := splitScore(parts[0]); ok {
			return score1, score2, strings.Join(parts[1:], " "), nil
		}
	}
	if len(parts) >= 3 {
		score1, err1 := strconv.Atoi(parts[0])
		score2, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			return score1, score2, strings.Join(parts[2:], " "), nil
		}
	}
	return 0, 0, "", fmt.Errorf("could not parse submit text %q", text)
}

// parseAdminSubmitText extracts both player names and the scores from an
// /admin-submit text. The scores separate the names, so multi-word names work:
// "Jane Doe 3 1 John Smith".
func parseAdminSubmitText(text string) (string, int, int, string, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	for i := 1; i < len(parts); i++ {
		if score1, score2, ok := splitScore(parts[i]); ok && i+1 < len(parts) {
			return strings.Join(parts[:i], " "), score1, score2, strings.Join(parts[i+1:], " "), nil
		}
		if i+2 < len(parts) {
			score1, err1 := strconv.Atoi(parts[i])
			score2, err2 := strconv.Atoi(parts[i+1])
			if err1 == nil && err2 == nil {
				return strings.Join(parts[:i], " "), score1, score2, strings.Join(parts[i+2:], " "), nil
			}
		}
	}
	return "", 0, 0, "", fmt.Errorf("could not parse admin submit text %q", text)
}

// parseFixText extracts the match id and corrected scores from a /fix text.
// Both "1a2b3c 3 1" and "1a2b3c 3-1" are accepted.
func parseFixText(text string) (int, int, int, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("could not parse fix text %q", text)
	}
	matchID, err := parseHexID(parts[0])
	if err != nil {
		return 0, 0, 0, err
	}
	if score1, score2, ok := splitScore(parts[1]); ok {
		return matchID, score1, score2, nil
	}
	if len(parts) >= 3 {
		score1, err1 := strconv.Atoi(parts[1])
		score2, err2 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil {
			return matchID, score1, score2, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("could not parse fix text %q", text)
}

// splitScore parses a dashed score pair like "3-1".
func splitScore(token string) (int, int, bool) {
	left, right, found := strings.Cut(token, "-")
	if !found {
		return 0, 0, false
	}
	score1, err1 := strconv.Atoi(left)
	score2, err2 := strconv.Atoi(right)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return score1, score2, true
}
