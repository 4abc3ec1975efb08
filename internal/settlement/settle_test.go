// internal/settlement/settle_test.go
package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() models.RoomConfig {
	return models.RoomConfig{
		Version:       1,
		StartScore:    25000,
		TargetScore:   25000,
		RatePerUnit:   100,
		RankBonus:     [4]float64{10, 5, -5, -10},
		RoundingMode:  models.RoundingNone,
		TopBonusMode:  models.TopBonusNone,
		RankingMetric: models.RankByCash,
	}
}

func fourSeats(scores ...int) models.RoundInput {
	in := models.RoundInput{}
	for _, s := range scores {
		in.Seats = append(in.Seats, models.SeatScore{PlayerID: uuid.New(), Score: s})
	}
	return in
}

// TestSettleBaseFormula is the worked example: target 25000, uma 10/5/-5/-10,
// rate 100 per 1000 points, no rounding, no top bonus.
func TestSettleBaseFormula(t *testing.T) {
	cfg := baseConfig()
	in := fourSeats(35000, 26000, 24000, 15000)

	res, err := Settle(cfg, in)
	require.NoError(t, err)
	require.Len(t, res.Results, 4)

	wantRank := []int{1, 2, 3, 4}
	wantPoints := []float64{20.0, 6.0, -6.0, -20.0}
	wantCash := []float64{2000.0, 600.0, -600.0, -2000.0}
	for i, pr := range res.Results {
		assert.Equal(t, in.Seats[i].PlayerID, pr.PlayerID)
		assert.Equal(t, i, pr.Seat)
		assert.Equal(t, wantRank[i], pr.Rank)
		assert.Equal(t, in.Seats[i].Score, pr.FinalScore)
		assert.InDelta(t, wantPoints[i], pr.Points, 1e-9)
		assert.InDelta(t, wantCash[i], pr.CashValue, 1e-9)
	}
}

// TestSettleDeterminism: identical config and input yield identical output.
func TestSettleDeterminism(t *testing.T) {
	cfg := baseConfig()
	cfg.TopBonusMode = models.TopBonusPoints
	cfg.TopBonusValue = 5
	in := fourSeats(31200, 28400, 22900, 17500)
	in.Seats[2].EventCount = 1
	in.Seats[3].EventFlag = true
	cfg.EventBonusUnit = 8
	cfg.PerEventFlatBonus = -10

	first, err := Settle(cfg, in)
	require.NoError(t, err)
	second, err := Settle(cfg, in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestSettleTopBonusPoints: rank 1 gains exactly the bonus in points (and
// its cash image); nobody else moves.
func TestSettleTopBonusPoints(t *testing.T) {
	in := fourSeats(35000, 26000, 24000, 15000)

	plain, err := Settle(baseConfig(), in)
	require.NoError(t, err)

	cfg := baseConfig()
	cfg.TopBonusMode = models.TopBonusPoints
	cfg.TopBonusValue = 5
	bonus, err := Settle(cfg, in)
	require.NoError(t, err)

	for i := range bonus.Results {
		if bonus.Results[i].Rank == 1 {
			assert.InDelta(t, plain.Results[i].Points+5, bonus.Results[i].Points, 1e-9)
			assert.InDelta(t, plain.Results[i].CashValue+500, bonus.Results[i].CashValue, 1e-9)
		} else {
			assert.InDelta(t, plain.Results[i].Points, bonus.Results[i].Points, 1e-9)
			assert.InDelta(t, plain.Results[i].CashValue, bonus.Results[i].CashValue, 1e-9)
		}
	}
}

// TestSettleTopBonusCurrency: the oka lands on rank 1's cash only, points
// untouched.
func TestSettleTopBonusCurrency(t *testing.T) {
	in := fourSeats(35000, 26000, 24000, 15000)

	plain, err := Settle(baseConfig(), in)
	require.NoError(t, err)

	cfg := baseConfig()
	cfg.TopBonusMode = models.TopBonusCurrency
	cfg.TopBonusValue = 2500
	bonus, err := Settle(cfg, in)
	require.NoError(t, err)

	for i := range bonus.Results {
		assert.InDelta(t, plain.Results[i].Points, bonus.Results[i].Points, 1e-9)
		if bonus.Results[i].Rank == 1 {
			assert.InDelta(t, plain.Results[i].CashValue+2500, bonus.Results[i].CashValue, 1e-9)
		} else {
			assert.InDelta(t, plain.Results[i].CashValue, bonus.Results[i].CashValue, 1e-9)
		}
	}
}

func TestSettleEventBonuses(t *testing.T) {
	cfg := baseConfig()
	cfg.EventBonusUnit = 8
	cfg.PerEventFlatBonus = -20

	in := fourSeats(35000, 26000, 24000, 15000)
	in.Seats[1].EventCount = 2 // +16 points
	in.Seats[2].EventFlag = true

	res, err := Settle(cfg, in)
	require.NoError(t, err)

	assert.InDelta(t, 6.0+16.0, res.Results[1].Points, 1e-9)
	assert.InDelta(t, (6.0+16.0)*100, res.Results[1].CashValue, 1e-9)
	assert.InDelta(t, -6.0-20.0, res.Results[2].Points, 1e-9)
	assert.InDelta(t, 20.0, res.Results[0].Points, 1e-9)
	assert.InDelta(t, -20.0, res.Results[3].Points, 1e-9)
}

// TestSettleRoundingBeforeRanks: rounding is applied before the target is
// subtracted and before ranks resolve.
func TestSettleRoundingBeforeRanks(t *testing.T) {
	cfg := baseConfig()
	cfg.RoundingMode = models.RoundingNearest

	// 24951 rounds to 25000 and ties with seat 0; seat 0 wins the tie.
	in := fourSeats(25000, 24951, 30000, 20049)
	res, err := Settle(cfg, in)
	require.NoError(t, err)

	assert.Equal(t, 25000, res.Results[0].FinalScore)
	assert.Equal(t, 25000, res.Results[1].FinalScore)
	assert.Equal(t, 20000, res.Results[3].FinalScore)
	assert.Equal(t, 2, res.Results[0].Rank)
	assert.Equal(t, 3, res.Results[1].Rank)
	assert.Equal(t, 1, res.Results[2].Rank)
	assert.Equal(t, 4, res.Results[3].Rank)
}

func TestSettleValidation(t *testing.T) {
	cfg := baseConfig()

	_, err := Settle(cfg, fourSeats(1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidRoundSize)

	_, err = Settle(cfg, fourSeats(1, 2, 3, 4, 5))
	assert.ErrorIs(t, err, ErrInvalidRoundSize)

	dup := fourSeats(35000, 26000, 24000, 15000)
	dup.Seats[3].PlayerID = dup.Seats[0].PlayerID
	_, err = Settle(cfg, dup)
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestValidateConfig(t *testing.T) {
	ok := baseConfig()
	assert.NoError(t, ValidateConfig(ok))

	bad := baseConfig()
	bad.RatePerUnit = -1
	assert.ErrorIs(t, ValidateConfig(bad), ErrInvalidConfig)

	bad = baseConfig()
	bad.RoundingMode = "banker"
	assert.ErrorIs(t, ValidateConfig(bad), ErrInvalidConfig)

	bad = baseConfig()
	bad.TopBonusMode = "both"
	assert.ErrorIs(t, ValidateConfig(bad), ErrInvalidConfig)

	bad = baseConfig()
	bad.RankingMetric = "vibes"
	assert.ErrorIs(t, ValidateConfig(bad), ErrInvalidConfig)
}
