// internal/settlement/ranks.go
package settlement

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
)

// ResolveRanks orders the four seats by normalized score descending and
// assigns ranks 1 (highest) through 4 (lowest). Ties in normalized score
// resolve by seat order: the earlier seat takes the better rank, so the
// result is reproducible for any input.
//
// Scores in the seat slice are expected to already be normalized.
func ResolveRanks(seats []models.SeatScore) (map[uuid.UUID]int, error) {
	if len(seats) != models.SeatsPerRound {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRoundSize, len(seats))
	}

	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool {
		return seats[order[i]].Score > seats[order[j]].Score
	})

	ranks := make(map[uuid.UUID]int, models.SeatsPerRound)
	for pos, seatIdx := range order {
		ranks[seats[seatIdx].PlayerID] = pos + 1
	}
	return ranks, nil
}
