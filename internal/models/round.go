// internal/models/round.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatsPerRound is the fixed table size: every round seats exactly four players.
const SeatsPerRound = 4

// SeatScore is one seat's raw final score for a round, in seat order
// (east, south, west, north). Seat order is the canonical tie-break order
// when two seats finish with the same normalized score.
type SeatScore struct {
	PlayerID uuid.UUID `json:"player_id"`
	Score    int       `json:"score"`

	// EventCount counts occurrences of the room's per-unit event this round.
	EventCount int `json:"event_count,omitempty"`
	// EventFlag marks the room's flat per-round event for this player.
	EventFlag bool `json:"event_flag,omitempty"`
}

// RoundInput is one settlement request: exactly four seats in seat order.
type RoundInput struct {
	Seats []SeatScore `json:"seats"`
}

// PlayerResult is the settled outcome for one seat of one round.
type PlayerResult struct {
	PlayerID uuid.UUID `json:"player_id"`
	Seat     int       `json:"seat"`
	Rank     int       `json:"rank"`

	// FinalScore is the raw score after rounding to reporting granularity.
	FinalScore int     `json:"final_score"`
	Points     float64 `json:"points"`
	CashValue  float64 `json:"cash_value"`

	EventCount int  `json:"event_count,omitempty"`
	EventFlag  bool `json:"event_flag,omitempty"`
}

// RoundResult is the settled outcome of one round, one entry per seat in
// seat order. Ranks are always a permutation of {1,2,3,4}.
type RoundResult struct {
	Results []PlayerResult `json:"results"`
}

// TaggedResult is a persisted PlayerResult annotated with its position in
// the room -> season -> meet hierarchy, as returned by scope queries.
type TaggedResult struct {
	PlayerResult

	RoundID     uuid.UUID `json:"round_id"`
	RoomID      uuid.UUID `json:"room_id"`
	SeasonID    uuid.UUID `json:"season_id,omitempty"`
	MeetID      uuid.UUID `json:"meet_id,omitempty"`
	DisplayName string    `json:"display_name"`
	PlayedAt    time.Time `json:"played_at"`
}

// ScopeKey identifies an aggregation boundary. RoomID is always required;
// a zero SeasonID/MeetID leaves that level unconstrained. Aggregation never
// crosses room boundaries.
type ScopeKey struct {
	RoomID   uuid.UUID `json:"room_id"`
	SeasonID uuid.UUID `json:"season_id,omitempty"`
	MeetID   uuid.UUID `json:"meet_id,omitempty"`
}

// Matches reports whether a tagged result belongs to the scope.
func (k ScopeKey) Matches(r TaggedResult) bool {
	if r.RoomID != k.RoomID {
		return false
	}
	if k.SeasonID != uuid.Nil && r.SeasonID != k.SeasonID {
		return false
	}
	if k.MeetID != uuid.Nil && r.MeetID != k.MeetID {
		return false
	}
	return true
}

// PlayerSummary is one row of a standings table. It is derived on demand
// from the scope's full result set and never persisted.
type PlayerSummary struct {
	PlayerID    uuid.UUID `json:"player_id"`
	DisplayName string    `json:"display_name"`

	Rounds     int    `json:"rounds"`
	RankCounts [4]int `json:"rank_counts"`

	PointsSum  float64 `json:"points_sum"`
	PointsMean float64 `json:"points_mean"`
	CashSum    float64 `json:"cash_sum"`
	CashMean   float64 `json:"cash_mean"`
	MeanRank   float64 `json:"mean_rank"`

	EventCountSum int `json:"event_count_sum"`
	EventFlagSum  int `json:"event_flag_sum"`

	// DisplayRank is the dense 1-based rank after sorting by the room's
	// ranking metric.
	DisplayRank int `json:"display_rank"`
}

// Round represents a row in the rounds table (one hanchan).
type Round struct {
	ID       uuid.UUID `json:"id"`
	RoomID   uuid.UUID `json:"room_id"`
	MeetID   uuid.UUID `json:"meet_id,omitempty"`
	Memo     string    `json:"memo,omitempty"`
	PlayedAt time.Time `json:"played_at"`
}
