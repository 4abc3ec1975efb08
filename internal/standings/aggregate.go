// internal/standings/aggregate.go
//
// Package standings folds persisted round results into per-player summary
// tables at a requested scope (meet, season, or full room history). Like
// internal/settlement it is pure: summaries are recomputed from the raw
// result set on every call, never cached or updated incrementally.
package standings

import (
	"sort"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
)

// Aggregate filters results to the requested scope, groups them by player,
// and returns one PlayerSummary per player ordered by the chosen ranking
// metric descending (the other metric breaks ties, then player ID for
// total determinism). DisplayRank is dense and 1-based: players with equal
// metric values share a rank.
//
// An empty filtered set yields an empty (non-nil) slice; that is not an error.
func Aggregate(results []models.TaggedResult, scope models.ScopeKey, metric models.RankingMetric) []models.PlayerSummary {
	byPlayer := make(map[uuid.UUID]*models.PlayerSummary)
	var order []uuid.UUID

	for _, r := range results {
		if !scope.Matches(r) {
			continue
		}
		s, ok := byPlayer[r.PlayerID]
		if !ok {
			s = &models.PlayerSummary{PlayerID: r.PlayerID, DisplayName: r.DisplayName}
			byPlayer[r.PlayerID] = s
			order = append(order, r.PlayerID)
		}
		s.Rounds++
		if r.Rank >= 1 && r.Rank <= models.SeatsPerRound {
			s.RankCounts[r.Rank-1]++
		}
		s.PointsSum += r.Points
		s.CashSum += r.CashValue
		s.MeanRank += float64(r.Rank)
		s.EventCountSum += r.EventCount
		if r.EventFlag {
			s.EventFlagSum++
		}
	}

	summaries := make([]models.PlayerSummary, 0, len(order))
	for _, id := range order {
		s := byPlayer[id]
		n := float64(s.Rounds)
		s.PointsMean = s.PointsSum / n
		s.CashMean = s.CashSum / n
		s.MeanRank = s.MeanRank / n
		summaries = append(summaries, *s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		pi, si := metricKeys(summaries[i], metric)
		pj, sj := metricKeys(summaries[j], metric)
		if pi != pj {
			return pi > pj
		}
		if si != sj {
			return si > sj
		}
		return summaries[i].PlayerID.String() < summaries[j].PlayerID.String()
	})

	for i := range summaries {
		if i == 0 {
			summaries[i].DisplayRank = 1
			continue
		}
		pPrev, sPrev := metricKeys(summaries[i-1], metric)
		pCur, sCur := metricKeys(summaries[i], metric)
		if pCur == pPrev && sCur == sPrev {
			summaries[i].DisplayRank = summaries[i-1].DisplayRank
		} else {
			summaries[i].DisplayRank = summaries[i-1].DisplayRank + 1
		}
	}
	return summaries
}

// metricKeys returns the primary and secondary sort keys for a summary
// under the given ranking metric.
func metricKeys(s models.PlayerSummary, metric models.RankingMetric) (primary, secondary float64) {
	if metric == models.RankByPoints {
		return s.PointsSum, s.CashSum
	}
	return s.CashSum, s.PointsSum
}
