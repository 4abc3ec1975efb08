// internal/models/room.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundingMode selects how raw final scores are normalized to the room's
// reporting granularity (100 points) before ranking and settlement.
type RoundingMode string

const (
	RoundingNone    RoundingMode = "none"
	RoundingNearest RoundingMode = "round"
	RoundingFloor   RoundingMode = "floor"
	RoundingCeil    RoundingMode = "ceil"
)

// TopBonusMode selects whether the oka (top bonus) is granted to the rank-1
// player in point units, in currency units, or not at all. Only one mode is
// active per room.
type TopBonusMode string

const (
	TopBonusNone     TopBonusMode = "none"
	TopBonusPoints   TopBonusMode = "points"
	TopBonusCurrency TopBonusMode = "currency"
)

// RankingMetric selects the primary key used to order standings tables.
type RankingMetric string

const (
	RankByCash   RankingMetric = "cash"
	RankByPoints RankingMetric = "points"
)

// RoomConfig is the immutable settlement configuration of a room. A new
// config implies a new room; Version identifies the config shape for the
// persistence layer.
type RoomConfig struct {
	Version     int `json:"version"`
	StartScore  int `json:"start_score"`
	TargetScore int `json:"target_score"`

	// RatePerUnit is currency per 1000 normalized-score units.
	RatePerUnit float64 `json:"rate_per_unit"`

	// RankBonus holds the uma for ranks 1..4, in point units.
	RankBonus [4]float64 `json:"rank_bonus"`

	RoundingMode  RoundingMode `json:"rounding_mode"`
	TopBonusMode  TopBonusMode `json:"top_bonus_mode"`
	TopBonusValue float64      `json:"top_bonus_value"`

	// EventBonusUnit is awarded per counted occurrence of the room's named
	// event (e.g. a yakuman); PerEventFlatBonus applies once when the
	// per-round flag is set (e.g. a chombo penalty, usually negative).
	EventBonusUnit    float64 `json:"event_bonus_unit"`
	PerEventFlatBonus float64 `json:"per_event_flat_bonus"`

	RankingMetric RankingMetric `json:"ranking_metric"`
}

// Room represents a row in the rooms table.
type Room struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	Config    RoomConfig `json:"config"`

	// AdminKeyHash is the argon2id hash of the room admin key. Never serialized.
	AdminKeyHash string `json:"-"`
}
