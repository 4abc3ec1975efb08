// internal/standings/aggregate_test.go
package standings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds a room with two players and tagged results across two meets
// of one season, plus one round from a foreign room.
type fixture struct {
	room, season, meetA, meetB uuid.UUID
	alice, bob                 uuid.UUID
	results                    []models.TaggedResult
}

func newFixture() *fixture {
	f := &fixture{
		room:   uuid.New(),
		season: uuid.New(),
		meetA:  uuid.New(),
		meetB:  uuid.New(),
		alice:  uuid.New(),
		bob:    uuid.New(),
	}

	add := func(meet, player uuid.UUID, name string, rank int, points, cash float64) {
		f.results = append(f.results, models.TaggedResult{
			PlayerResult: models.PlayerResult{
				PlayerID:  player,
				Rank:      rank,
				Points:    points,
				CashValue: cash,
			},
			RoundID:     uuid.New(),
			RoomID:      f.room,
			SeasonID:    f.season,
			MeetID:      meet,
			DisplayName: name,
		})
	}

	// meet A: alice 1st, bob 3rd
	add(f.meetA, f.alice, "alice", 1, 20, 2000)
	add(f.meetA, f.bob, "bob", 3, -6, -600)
	// meet B: alice 4th, bob 2nd
	add(f.meetB, f.alice, "alice", 4, -20, -2000)
	add(f.meetB, f.bob, "bob", 2, 6, 600)

	// foreign room noise that must never leak into the room's scopes
	other := uuid.New()
	f.results = append(f.results, models.TaggedResult{
		PlayerResult: models.PlayerResult{PlayerID: f.alice, Rank: 1, Points: 99, CashValue: 9900},
		RoundID:      uuid.New(),
		RoomID:       other,
		DisplayName:  "alice",
	})
	return f
}

func summaryFor(t *testing.T, summaries []models.PlayerSummary, id uuid.UUID) models.PlayerSummary {
	t.Helper()
	for _, s := range summaries {
		if s.PlayerID == id {
			return s
		}
	}
	t.Fatalf("no summary for player %v", id)
	return models.PlayerSummary{}
}

func TestAggregateRoomHistory(t *testing.T) {
	f := newFixture()
	scope := models.ScopeKey{RoomID: f.room}
	summaries := Aggregate(f.results, scope, models.RankByCash)
	require.Len(t, summaries, 2)

	alice := summaryFor(t, summaries, f.alice)
	assert.Equal(t, 2, alice.Rounds)
	assert.Equal(t, [4]int{1, 0, 0, 1}, alice.RankCounts)
	assert.InDelta(t, 0.0, alice.PointsSum, 1e-9)
	assert.InDelta(t, 0.0, alice.CashSum, 1e-9)
	assert.InDelta(t, 2.5, alice.MeanRank, 1e-9)

	bob := summaryFor(t, summaries, f.bob)
	assert.Equal(t, 2, bob.Rounds)
	assert.Equal(t, [4]int{0, 1, 1, 0}, bob.RankCounts)
	assert.InDelta(t, 0.0, bob.PointsSum, 1e-9)
	assert.InDelta(t, 2.5, bob.MeanRank, 1e-9)
}

// TestAggregateScopeIsolation: a meet's summary never includes rounds from a
// disjoint meet of the same season, and never another room's rounds.
func TestAggregateScopeIsolation(t *testing.T) {
	f := newFixture()

	scopeA := models.ScopeKey{RoomID: f.room, SeasonID: f.season, MeetID: f.meetA}
	summaries := Aggregate(f.results, scopeA, models.RankByCash)
	require.Len(t, summaries, 2)

	alice := summaryFor(t, summaries, f.alice)
	assert.Equal(t, 1, alice.Rounds)
	assert.InDelta(t, 2000.0, alice.CashSum, 1e-9)
	assert.Equal(t, [4]int{1, 0, 0, 0}, alice.RankCounts)

	// foreign-room round carried points 99; it must appear nowhere
	for _, s := range summaries {
		assert.Less(t, s.PointsSum, 99.0)
	}
}

// TestAggregateRankCountInvariant: per player, the four rank counts sum to
// the player's round count.
func TestAggregateRankCountInvariant(t *testing.T) {
	f := newFixture()
	summaries := Aggregate(f.results, models.ScopeKey{RoomID: f.room}, models.RankByPoints)
	for _, s := range summaries {
		total := 0
		for _, c := range s.RankCounts {
			total += c
		}
		assert.Equal(t, s.Rounds, total, "player %s", s.DisplayName)
	}
}

func TestAggregateEmptyScope(t *testing.T) {
	f := newFixture()
	empty := Aggregate(f.results, models.ScopeKey{RoomID: uuid.New()}, models.RankByCash)
	require.NotNil(t, empty)
	assert.Len(t, empty, 0)

	alsoEmpty := Aggregate(nil, models.ScopeKey{RoomID: f.room}, models.RankByCash)
	require.NotNil(t, alsoEmpty)
	assert.Len(t, alsoEmpty, 0)
}

// TestAggregateOrderingAndDenseRank checks primary/secondary ordering and
// shared display ranks on full metric ties.
func TestAggregateOrderingAndDenseRank(t *testing.T) {
	room := uuid.New()
	mk := func(player uuid.UUID, name string, points, cash float64) models.TaggedResult {
		return models.TaggedResult{
			PlayerResult: models.PlayerResult{PlayerID: player, Rank: 1, Points: points, CashValue: cash},
			RoundID:      uuid.New(),
			RoomID:       room,
			DisplayName:  name,
		}
	}
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	results := []models.TaggedResult{
		mk(a, "a", 10, 1000),
		mk(b, "b", 12, 1000), // same cash as a, more points
		mk(c, "c", 5, 2000),
	}

	byCash := Aggregate(results, models.ScopeKey{RoomID: room}, models.RankByCash)
	require.Len(t, byCash, 3)
	assert.Equal(t, c, byCash[0].PlayerID) // 2000 cash first
	assert.Equal(t, b, byCash[1].PlayerID) // 1000 cash, points tie-break
	assert.Equal(t, a, byCash[2].PlayerID)
	assert.Equal(t, []int{1, 2, 3}, []int{byCash[0].DisplayRank, byCash[1].DisplayRank, byCash[2].DisplayRank})

	byPoints := Aggregate(results, models.ScopeKey{RoomID: room}, models.RankByPoints)
	assert.Equal(t, b, byPoints[0].PlayerID)
	assert.Equal(t, a, byPoints[1].PlayerID)
	assert.Equal(t, c, byPoints[2].PlayerID)

	// exact metric tie shares a dense rank
	d := uuid.New()
	tied := append(results, mk(d, "d", 5, 2000))
	dense := Aggregate(tied, models.ScopeKey{RoomID: room}, models.RankByCash)
	require.Len(t, dense, 4)
	assert.Equal(t, 1, dense[0].DisplayRank)
	assert.Equal(t, 1, dense[1].DisplayRank)
	assert.Equal(t, 2, dense[2].DisplayRank)
	assert.Equal(t, 3, dense[3].DisplayRank)
}
