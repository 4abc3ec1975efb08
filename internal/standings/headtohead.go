// internal/standings/headtohead.go
package standings

import (
	"sort"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
)

// PairNet is the accumulated head-to-head balance between two players who
// shared a table. Net is from player A's perspective; A and B are ordered
// by display name so each pair appears exactly once.
type PairNet struct {
	PlayerA uuid.UUID `json:"player_a"`
	PlayerB uuid.UUID `json:"player_b"`
	NameA   string    `json:"name_a"`
	NameB   string    `json:"name_b"`
	Rounds  int       `json:"rounds"`
	Net     float64   `json:"net"`
}

// HeadToHead computes pairwise cash balances within a scope. For each shared
// round, player A's balance against B moves by (cashA - cashB) / 2, so the
// four seats of one round split into six pair deltas that sum to zero.
func HeadToHead(results []models.TaggedResult, scope models.ScopeKey) []PairNet {
	byRound := make(map[uuid.UUID][]models.TaggedResult)
	var roundOrder []uuid.UUID
	for _, r := range results {
		if !scope.Matches(r) {
			continue
		}
		if _, ok := byRound[r.RoundID]; !ok {
			roundOrder = append(roundOrder, r.RoundID)
		}
		byRound[r.RoundID] = append(byRound[r.RoundID], r)
	}

	type pairKey struct{ a, b uuid.UUID }
	pairs := make(map[pairKey]*PairNet)
	var pairOrder []pairKey

	for _, rid := range roundOrder {
		seats := byRound[rid]
		for i := 0; i < len(seats); i++ {
			for j := i + 1; j < len(seats); j++ {
				a, b := seats[i], seats[j]
				// canonical orientation by display name, then ID
				if b.DisplayName < a.DisplayName ||
					(b.DisplayName == a.DisplayName && b.PlayerID.String() < a.PlayerID.String()) {
					a, b = b, a
				}
				k := pairKey{a.PlayerID, b.PlayerID}
				p, ok := pairs[k]
				if !ok {
					p = &PairNet{PlayerA: a.PlayerID, PlayerB: b.PlayerID, NameA: a.DisplayName, NameB: b.DisplayName}
					pairs[k] = p
					pairOrder = append(pairOrder, k)
				}
				p.Rounds++
				p.Net += (a.CashValue - b.CashValue) / 2.0
			}
		}
	}

	out := make([]PairNet, 0, len(pairOrder))
	for _, k := range pairOrder {
		out = append(out, *pairs[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NameA != out[j].NameA {
			return out[i].NameA < out[j].NameA
		}
		return out[i].NameB < out[j].NameB
	})
	return out
}
