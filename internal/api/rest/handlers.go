package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fortuna/games/internal/collect"
	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/gorilla/mux"
)

const (
	serviceName    = "games"
	serviceVersion = "1.0.0"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	collector *collect.Collector
	logger    *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(collector *collect.Collector, logger *slog.Logger) *Handler {
	return &Handler{
		collector: collector,
		logger:    logger,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
		"policy":  h.collector.Policy().String(),
	})
}

// GetLeaderboardPage returns one raw leaderboard page
func (h *Handler) GetLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	year, err := yearVar(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	division, err := divisionParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid division", err)
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid page", err)
		return
	}

	raw, err := h.collector.Dump(r.Context(), year, division, page)
	if err != nil {
		h.fail(w, r, "Failed to fetch leaderboard page", err)
		return
	}

	respondJSON(w, http.StatusOK, raw)
}

// GetInfo returns the metadata of one leaderboard
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	year, err := yearVar(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	division, err := divisionParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid division", err)
		return
	}
	if division == leaderboard.DivisionBoth {
		respondError(w, http.StatusBadRequest, "Division must be 1 or 2", nil)
		return
	}

	meta, err := h.collector.Info(r.Context(), year, division)
	if err != nil {
		h.fail(w, r, "Failed to fetch games info", err)
		return
	}

	respondJSON(w, http.StatusOK, meta)
}

// GetInfoRange returns one metadata row per year and division
func (h *Handler) GetInfoRange(w http.ResponseWriter, r *http.Request) {
	q, ok := parseRange(w, r)
	if !ok {
		return
	}

	tbl, err := h.collector.InfoRange(r.Context(), q.from, q.to, q.division)
	if err != nil {
		h.fail(w, r, "Failed to fetch games info", err)
		return
	}

	respondJSON(w, http.StatusOK, tbl)
}

// GetCompetitorsRange returns one row per competitor per year
func (h *Handler) GetCompetitorsRange(w http.ResponseWriter, r *http.Request) {
	q, ok := parseRange(w, r)
	if !ok {
		return
	}

	tbl, err := h.collector.CompetitorsRange(r.Context(), q.from, q.to, q.division)
	if err != nil {
		h.fail(w, r, "Failed to fetch competitors", err)
		return
	}

	respondJSON(w, http.StatusOK, tbl)
}

// GetScoresRange returns one row per competitor per event per year
func (h *Handler) GetScoresRange(w http.ResponseWriter, r *http.Request) {
	q, ok := parseRange(w, r)
	if !ok {
		return
	}

	tbl, err := h.collector.ScoresRange(r.Context(), q.from, q.to, q.division)
	if err != nil {
		h.fail(w, r, "Failed to fetch scores", err)
		return
	}

	respondJSON(w, http.StatusOK, tbl)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	h.logger.ErrorContext(r.Context(), message, "path", r.URL.Path, "status", status, "err", err)
	respondError(w, status, message, err)
}

// statusFor maps a collection error to a response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, leaderboard.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, leaderboard.ErrNetwork), errors.Is(err, leaderboard.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type rangeQuery struct {
	from, to int
	division leaderboard.Division
}

// parseRange reads from, to and division. to defaults to from.
func parseRange(w http.ResponseWriter, r *http.Request) (rangeQuery, bool) {
	var q rangeQuery

	fromStr := r.URL.Query().Get("from")
	if fromStr == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'from'", nil)
		return q, false
	}
	from, err := strconv.Atoi(fromStr)
	if err != nil || from < leaderboard.FirstGamesYear {
		respondError(w, http.StatusBadRequest, "Invalid 'from' year", err)
		return q, false
	}
	to, err := intParam(r, "to", from)
	if err != nil || to < from {
		respondError(w, http.StatusBadRequest, "Invalid 'to' year", err)
		return q, false
	}
	division, err := divisionParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid division", err)
		return q, false
	}

	q.from, q.to, q.division = from, to, division
	return q, true
}

func yearVar(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["year"])
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func divisionParam(r *http.Request) (leaderboard.Division, error) {
	n, err := intParam(r, "division", int(leaderboard.DivisionBoth))
	if err != nil {
		return 0, err
	}
	d := leaderboard.Division(n)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: division=%d", leaderboard.ErrInvalidArgument, n)
	}
	return d, nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
