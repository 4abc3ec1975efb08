// internal/settlement/settle.go
//
// Package settlement turns one round's four raw scores into ranks,
// normalized points, and currency deltas. Everything here is a pure
// function over in-memory values: no I/O, no shared state, and identical
// inputs always produce identical outputs. Persistence and scope queries
// live in internal/database; cumulative standings in internal/standings.
package settlement

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/models"
)

// ValidateConfig rejects malformed room configurations before any
// settlement math runs. All failures wrap ErrInvalidConfig.
func ValidateConfig(cfg models.RoomConfig) error {
	if cfg.RatePerUnit < 0 {
		return fmt.Errorf("%w: negative rate %v", ErrInvalidConfig, cfg.RatePerUnit)
	}
	switch cfg.RoundingMode {
	case models.RoundingNone, models.RoundingNearest, models.RoundingFloor, models.RoundingCeil:
	default:
		return fmt.Errorf("%w: unknown rounding mode %q", ErrInvalidConfig, cfg.RoundingMode)
	}
	switch cfg.TopBonusMode {
	case models.TopBonusNone, models.TopBonusPoints, models.TopBonusCurrency:
	default:
		return fmt.Errorf("%w: unknown top bonus mode %q", ErrInvalidConfig, cfg.TopBonusMode)
	}
	switch cfg.RankingMetric {
	case models.RankByCash, models.RankByPoints:
	default:
		return fmt.Errorf("%w: unknown ranking metric %q", ErrInvalidConfig, cfg.RankingMetric)
	}
	return nil
}

// ValidateInput checks the structural invariants of a round input: exactly
// four seats, no player seated twice. The player registry upstream should
// already guarantee distinct seats, but a malformed round must fail fast
// here rather than settle silently.
func ValidateInput(input models.RoundInput) error {
	if len(input.Seats) != models.SeatsPerRound {
		return fmt.Errorf("%w: got %d", ErrInvalidRoundSize, len(input.Seats))
	}
	seen := make(map[uuid.UUID]struct{}, models.SeatsPerRound)
	for _, s := range input.Seats {
		if _, dup := seen[s.PlayerID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, s.PlayerID)
		}
		seen[s.PlayerID] = struct{}{}
	}
	return nil
}

// Settle computes one round's settlement from the room config and the four
// raw seat scores.
//
// Per seat: the raw score is normalized by the rounding mode, ranks are
// resolved over the normalized scores, then
//
//	points = (normalized - target)/1000 + rankBonus[rank-1] + eventBonuses
//	cash   = points * ratePerUnit
//
// with the top bonus added to the rank-1 player's points or cash depending
// on the configured mode. The two top-bonus forms are mutually exclusive.
func Settle(cfg models.RoomConfig, input models.RoundInput) (models.RoundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return models.RoundResult{}, err
	}
	if err := ValidateInput(input); err != nil {
		return models.RoundResult{}, err
	}

	normalized := make([]models.SeatScore, models.SeatsPerRound)
	for i, s := range input.Seats {
		normalized[i] = s
		normalized[i].Score = ApplyRounding(s.Score, cfg.RoundingMode)
	}

	ranks, err := ResolveRanks(normalized)
	if err != nil {
		return models.RoundResult{}, err
	}

	out := models.RoundResult{Results: make([]models.PlayerResult, models.SeatsPerRound)}
	for i, s := range normalized {
		rank := ranks[s.PlayerID]

		points := float64(s.Score-cfg.TargetScore) / 1000.0
		points += cfg.RankBonus[rank-1]
		if cfg.TopBonusMode == models.TopBonusPoints && rank == 1 {
			points += cfg.TopBonusValue
		}
		points += cfg.EventBonusUnit * float64(s.EventCount)
		if s.EventFlag {
			points += cfg.PerEventFlatBonus
		}

		cash := points * cfg.RatePerUnit
		if cfg.TopBonusMode == models.TopBonusCurrency && rank == 1 {
			cash += cfg.TopBonusValue
		}

		out.Results[i] = models.PlayerResult{
			PlayerID:   s.PlayerID,
			Seat:       i,
			Rank:       rank,
			FinalScore: s.Score,
			Points:     points,
			CashValue:  cash,
			EventCount: s.EventCount,
			EventFlag:  s.EventFlag,
		}
	}
	return out, nil
}
