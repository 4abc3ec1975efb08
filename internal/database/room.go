package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/janlog/janlog/internal/auth"
	"github.com/janlog/janlog/internal/models"
)

// CreateRoom inserts a new room with its immutable settlement config.
// adminKey is hashed with argon2id before storage.
func CreateRoom(ctx context.Context, room *models.Room, adminKey string) error {
	if room.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate room id: %w", err)
		}
		room.ID = id
	}

	hash, err := auth.CreateHash(adminKey, auth.Params)
	if err != nil {
		return fmt.Errorf("failed to hash admin key: %w", err)
	}
	room.AdminKeyHash = hash

	q := `INSERT INTO rooms (
	        id, name, admin_key_hash, config_version,
	        start_score, target_score, rate_per_unit,
	        rank_bonus_1, rank_bonus_2, rank_bonus_3, rank_bonus_4,
	        rounding_mode, top_bonus_mode, top_bonus_value,
	        event_bonus_unit, per_event_flat_bonus, ranking_metric)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	cfg := room.Config
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			room.ID, room.Name, room.AdminKeyHash, cfg.Version,
			cfg.StartScore, cfg.TargetScore, cfg.RatePerUnit,
			cfg.RankBonus[0], cfg.RankBonus[1], cfg.RankBonus[2], cfg.RankBonus[3],
			string(cfg.RoundingMode), string(cfg.TopBonusMode), cfg.TopBonusValue,
			cfg.EventBonusUnit, cfg.PerEventFlatBonus, string(cfg.RankingMetric),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

func GetRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var (
		r        models.Room
		rounding string
		topMode  string
		metric   string
	)
	q := `
	SELECT id, name, created_at, admin_key_hash, config_version,
	       start_score, target_score, rate_per_unit,
	       rank_bonus_1, rank_bonus_2, rank_bonus_3, rank_bonus_4,
	       rounding_mode, top_bonus_mode, top_bonus_value,
	       event_bonus_unit, per_event_flat_bonus, ranking_metric
	FROM rooms
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&r.ID, &r.Name, &r.CreatedAt, &r.AdminKeyHash, &r.Config.Version,
		&r.Config.StartScore, &r.Config.TargetScore, &r.Config.RatePerUnit,
		&r.Config.RankBonus[0], &r.Config.RankBonus[1], &r.Config.RankBonus[2], &r.Config.RankBonus[3],
		&rounding, &topMode, &r.Config.TopBonusValue,
		&r.Config.EventBonusUnit, &r.Config.PerEventFlatBonus, &metric,
	)
	if err != nil {
		return nil, err
	}
	r.Config.RoundingMode = models.RoundingMode(rounding)
	r.Config.TopBonusMode = models.TopBonusMode(topMode)
	r.Config.RankingMetric = models.RankingMetric(metric)
	return &r, nil
}

// AuthenticateRoomAdmin checks the supplied admin key against the room's
// stored hash and returns the room on success.
func AuthenticateRoomAdmin(ctx context.Context, roomID uuid.UUID, adminKey string) (*models.Room, error) {
	room, err := GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("room not found or db error: %w", err)
	}

	match, err := auth.CompareKeyAndHash(adminKey, room.AdminKeyHash)
	if err != nil || !match {
		return nil, fmt.Errorf("invalid admin key")
	}
	return room, nil
}
