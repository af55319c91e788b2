package http

import (
	"net/http"

	"github.com/mazrk/ladderbot/internal/config"
	"github.com/mazrk/ladderbot/internal/ladder"
	"github.com/mazrk/ladderbot/internal/metrics"
	"github.com/mazrk/ladderbot/internal/notifier"
	"github.com/mazrk/ladderbot/internal/registration"
	"github.com/mazrk/ladderbot/internal/reporting"
)

func NewServer(players ladder.PlayerStore, matches ladder.MatchStore, registrationSvc *registration.Service, reportingSvc *reporting.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Players:        players,
		Matches:        matches,
		Registration:   registrationSvc,
		Reporting:      reportingSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Slash command routes additionally verify the Slack request signature.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/members", Chain(s.ListMembersHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/register", Chain(s.RegisterCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/changename", Chain(s.ChangeNameCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/submit", Chain(s.SubmitCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/admin-submit", Chain(s.AdminSubmitCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/fix", Chain(s.FixCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/match-info", Chain(s.MatchInfoCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/player-info", Chain(s.PlayerInfoCommandHandler(), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/enable", Chain(s.SetActiveCommandHandler(true), paramsMiddleware, s.verifySlackRequest))
	s.Router.Handle("/slack/command/disable", Chain(s.SetActiveCommandHandler(false), paramsMiddleware, s.verifySlackRequest))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
