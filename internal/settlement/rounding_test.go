// internal/settlement/rounding_test.go
package settlement

import (
	"testing"

	"github.com/janlog/janlog/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestApplyRounding(t *testing.T) {
	cases := []struct {
		name  string
		mode  models.RoundingMode
		score int
		want  int
	}{
		{"none identity", models.RoundingNone, 24350, 24350},
		{"none negative", models.RoundingNone, -1250, -1250},

		{"floor exact", models.RoundingFloor, 24300, 24300},
		{"floor down", models.RoundingFloor, 24399, 24300},
		{"floor negative toward -inf", models.RoundingFloor, -150, -200},
		{"floor negative exact", models.RoundingFloor, -200, -200},

		{"ceil exact", models.RoundingCeil, 24300, 24300},
		{"ceil up", models.RoundingCeil, 24301, 24400},
		{"ceil negative toward zero", models.RoundingCeil, -150, -100},

		{"round down", models.RoundingNearest, 24349, 24300},
		{"round up", models.RoundingNearest, 24351, 24400},
		{"round tie away from zero", models.RoundingNearest, 24350, 24400},
		{"round negative tie away from zero", models.RoundingNearest, -24350, -24400},
		{"round negative", models.RoundingNearest, -24349, -24300},
		{"round zero", models.RoundingNearest, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ApplyRounding(tc.score, tc.mode))
		})
	}
}

// TestRoundingIdempotence verifies round(round(x)) == round(x) for every mode.
func TestRoundingIdempotence(t *testing.T) {
	modes := []models.RoundingMode{
		models.RoundingNone, models.RoundingNearest, models.RoundingFloor, models.RoundingCeil,
	}
	scores := []int{-100350, -24350, -150, -99, -50, -1, 0, 1, 49, 50, 99, 150, 24350, 100350}
	for _, mode := range modes {
		for _, s := range scores {
			once := ApplyRounding(s, mode)
			twice := ApplyRounding(once, mode)
			assert.Equal(t, once, twice, "mode=%s score=%d", mode, s)
		}
	}
}
