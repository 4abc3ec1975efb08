// internal/settlement/ranks_test.go
package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seats(scores ...int) []models.SeatScore {
	out := make([]models.SeatScore, len(scores))
	for i, s := range scores {
		out[i] = models.SeatScore{PlayerID: uuid.New(), Score: s}
	}
	return out
}

func TestResolveRanksOrdering(t *testing.T) {
	ss := seats(26000, 35000, 15000, 24000)
	ranks, err := ResolveRanks(ss)
	require.NoError(t, err)

	assert.Equal(t, 2, ranks[ss[0].PlayerID])
	assert.Equal(t, 1, ranks[ss[1].PlayerID])
	assert.Equal(t, 4, ranks[ss[2].PlayerID])
	assert.Equal(t, 3, ranks[ss[3].PlayerID])
}

// TestResolveRanksPermutation checks ranks are always exactly {1,2,3,4}.
func TestResolveRanksPermutation(t *testing.T) {
	inputs := [][]int{
		{25000, 25000, 25000, 25000},
		{35000, 26000, 24000, 15000},
		{-1000, 0, 50000, 25000},
		{30000, 30000, 20000, 20000},
	}
	for _, scores := range inputs {
		ss := seats(scores...)
		ranks, err := ResolveRanks(ss)
		require.NoError(t, err)

		seen := make(map[int]int)
		for _, r := range ranks {
			seen[r]++
		}
		for want := 1; want <= 4; want++ {
			assert.Equal(t, 1, seen[want], "scores=%v rank=%d", scores, want)
		}
	}
}

// TestResolveRanksTieBreak verifies ties resolve by seat order: the earlier
// seat takes the better rank.
func TestResolveRanksTieBreak(t *testing.T) {
	ss := seats(25000, 25000, 25000, 25000)
	ranks, err := ResolveRanks(ss)
	require.NoError(t, err)

	for i, s := range ss {
		assert.Equal(t, i+1, ranks[s.PlayerID], "seat %d", i)
	}

	// partial tie between seats 1 and 2
	ss = seats(30000, 24000, 24000, 20000)
	ranks, err = ResolveRanks(ss)
	require.NoError(t, err)
	assert.Equal(t, 1, ranks[ss[0].PlayerID])
	assert.Equal(t, 2, ranks[ss[1].PlayerID])
	assert.Equal(t, 3, ranks[ss[2].PlayerID])
	assert.Equal(t, 4, ranks[ss[3].PlayerID])
}

func TestResolveRanksWrongSize(t *testing.T) {
	_, err := ResolveRanks(seats(1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidRoundSize)

	_, err = ResolveRanks(seats(1, 2, 3, 4, 5))
	assert.ErrorIs(t, err, ErrInvalidRoundSize)
}
