package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/itobot/scout/internal/api/apierr"
	"github.com/itobot/scout/internal/api/middleware"
	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/metrics"
	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/services/stats"
)

// TeamNamer resolves a team number to its public name
type TeamNamer interface {
	TeamName(ctx context.Context, teamNumber string) (string, error)
}

// TeamHandler handles team aggregation endpoints
type TeamHandler struct {
	repo    *entries.Repository
	namer   TeamNamer
	metrics *metrics.Manager
	logger  *slog.Logger
}

// NewTeamHandler creates a new team handler. namer may be nil, in which case
// name lookups always answer with an empty name.
func NewTeamHandler(repo *entries.Repository, namer TeamNamer, metrics *metrics.Manager, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		repo:    repo,
		namer:   namer,
		metrics: metrics,
		logger:  logger,
	}
}

// List handles GET /api/v1/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	list, err := h.repo.Visible(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TeamListFromStats(stats.UniqueTeams(list)))
}

// Stats handles GET /api/v1/teams/{number}/stats
func (h *TeamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	number := mux.Vars(r)["number"]

	list, err := h.repo.Visible(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	ts, ok := stats.ForTeam(list, number)
	if !ok {
		WriteError(w, apierr.NewTeamNotScoutedError(number))
		return
	}

	response.JSON(w, http.StatusOK, response.TeamStatsFromStats(ts))
}

// Compare handles GET /api/v1/teams/compare?team=A&team=B
func (h *TeamHandler) Compare(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	numbers := r.URL.Query()["team"]
	if len(numbers) == 0 {
		WriteError(w, NewInvalidRequestError("at least one team is required"))
		return
	}

	list, err := h.repo.Visible(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ComparisonFromStats(stats.Compare(list, numbers)))
}

// Name handles GET /api/v1/teams/{number}/name.
// Lookup failures are logged and answered with an empty name.
func (h *TeamHandler) Name(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]
	out := response.TeamName{TeamNumber: number}

	if h.namer != nil {
		name, err := h.namer.TeamName(r.Context(), number)
		switch {
		case err != nil:
			h.logger.Warn("team name lookup failed", "team_number", number, "error", err)
			h.metrics.RecordTeamLookup("error")
		case name == "":
			h.metrics.RecordTeamLookup("miss")
		default:
			h.metrics.RecordTeamLookup("hit")
			out.TeamName = name
		}
	}

	response.JSON(w, http.StatusOK, out)
}
