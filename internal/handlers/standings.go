// internal/handlers/standings.go
package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/database"
	"github.com/janlog/janlog/internal/models"
	"github.com/janlog/janlog/internal/standings"
)

// parseScope builds a ScopeKey from query params: room (required), season
// and meet (optional, narrowing).
func parseScope(r *http.Request) (models.ScopeKey, error) {
	roomID, err := uuid.Parse(r.URL.Query().Get("room"))
	if err != nil {
		return models.ScopeKey{}, fmt.Errorf("invalid room id")
	}
	scope := models.ScopeKey{RoomID: roomID}

	if s := r.URL.Query().Get("season"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return models.ScopeKey{}, fmt.Errorf("invalid season id")
		}
		scope.SeasonID = id
	}
	if m := r.URL.Query().Get("meet"); m != "" {
		id, err := uuid.Parse(m)
		if err != nil {
			return models.ScopeKey{}, fmt.Errorf("invalid meet id")
		}
		scope.MeetID = id
	}
	return scope, nil
}

// resolveMetric returns the ranking metric for a request: an explicit
// ?metric= override when present and valid, else the room's configured one.
func resolveMetric(r *http.Request, room *models.Room) (models.RankingMetric, error) {
	m := r.URL.Query().Get("metric")
	if m == "" {
		return room.Config.RankingMetric, nil
	}
	switch models.RankingMetric(m) {
	case models.RankByCash, models.RankByPoints:
		return models.RankingMetric(m), nil
	}
	return "", fmt.Errorf("unknown metric %q", m)
}

// loadSummaries fetches the scope's results and aggregates them.
func loadSummaries(r *http.Request) ([]models.PlayerSummary, error) {
	scope, err := parseScope(r)
	if err != nil {
		return nil, err
	}
	room, err := database.GetRoomByID(r.Context(), scope.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room not found")
	}
	metric, err := resolveMetric(r, room)
	if err != nil {
		return nil, err
	}
	results, err := database.ListResults(r.Context(), scope)
	if err != nil {
		return nil, fmt.Errorf("error querying results: %w", err)
	}
	return standings.Aggregate(results, scope, metric), nil
}

// StandingsHandler returns the summary table for a scope.
func StandingsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := loadSummaries(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// StandingsCSVHandler returns the same summary table as a CSV attachment.
func StandingsCSVHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := loadSummaries(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="standings.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"rank", "player", "rounds", "1st", "2nd", "3rd", "4th",
		"points_sum", "points_mean", "cash_sum", "cash_mean", "mean_rank",
	})
	for _, s := range summaries {
		_ = cw.Write([]string{
			strconv.Itoa(s.DisplayRank),
			s.DisplayName,
			strconv.Itoa(s.Rounds),
			strconv.Itoa(s.RankCounts[0]),
			strconv.Itoa(s.RankCounts[1]),
			strconv.Itoa(s.RankCounts[2]),
			strconv.Itoa(s.RankCounts[3]),
			strconv.FormatFloat(s.PointsSum, 'f', 1, 64),
			strconv.FormatFloat(s.PointsMean, 'f', 2, 64),
			strconv.FormatFloat(s.CashSum, 'f', 0, 64),
			strconv.FormatFloat(s.CashMean, 'f', 2, 64),
			strconv.FormatFloat(s.MeanRank, 'f', 2, 64),
		})
	}
	cw.Flush()
}

// HeadToHeadHandler returns the pairwise cash balances within a scope.
func HeadToHeadHandler(w http.ResponseWriter, r *http.Request) {
	scope, err := parseScope(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	results, err := database.ListResults(r.Context(), scope)
	if err != nil {
		http.Error(w, "error querying results", http.StatusInternalServerError)
		return
	}
	pairs := standings.HeadToHead(results, scope)
	if pairs == nil {
		pairs = []standings.PairNet{}
	}
	writeJSON(w, http.StatusOK, pairs)
}
