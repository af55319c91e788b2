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

type Server struct {
	Players        ladder.PlayerStore
	Matches        ladder.MatchStore
	Registration   *registration.Service
	Reporting      *reporting.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
