// internal/database/round.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/janlog/janlog/internal/models"
)

// RecordRound persists one settled round and its four result rows in a
// single transaction. The UNIQUE (round_id, player_id) constraint makes
// insertion at-most-once; a duplicate submission fails the whole
// transaction with a 23505 rather than settling twice.
func RecordRound(ctx context.Context, round *models.Round, result models.RoundResult) error {
	if round.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate round id: %w", err)
		}
		round.ID = id
	}
	if round.PlayedAt.IsZero() {
		round.PlayedAt = time.Now().UTC()
	}

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insertRound := `
			INSERT INTO rounds (id, room_id, meet_id, memo, played_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		var meetID *uuid.UUID
		if round.MeetID != uuid.Nil {
			meetID = &round.MeetID
		}
		if _, e := tx.Exec(ctx, insertRound, round.ID, round.RoomID, meetID, round.Memo, round.PlayedAt); e != nil {
			return e
		}

		for _, pr := range result.Results {
			rid, e := uuid.NewRandom()
			if e != nil {
				return e
			}
			q := `
				INSERT INTO round_results (
					id, round_id, player_id, seat, final_score, rank,
					points, cash_value, event_count, event_flag)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`
			if _, e2 := tx.Exec(ctx, q,
				rid, round.ID, pr.PlayerID, pr.Seat, pr.FinalScore, pr.Rank,
				pr.Points, pr.CashValue, pr.EventCount, pr.EventFlag,
			); e2 != nil {
				return e2
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert round results: %w", err)
	}
	return nil
}

// ListResults returns the tagged result rows of a scope: the room's whole
// history, one season, or one meet depending on which scope fields are set.
// Rows come back in play order, seats in seat order.
func ListResults(ctx context.Context, scope models.ScopeKey) ([]models.TaggedResult, error) {
	q := `
	SELECT h.id, h.room_id, h.meet_id, h.played_at,
	       r.player_id, r.seat, r.rank, r.final_score,
	       r.points, r.cash_value, r.event_count, r.event_flag,
	       p.display_name, s.id
	FROM rounds h
	JOIN round_results r ON r.round_id = h.id
	JOIN players p ON p.id = r.player_id
	LEFT JOIN meets m ON m.id = h.meet_id
	LEFT JOIN seasons s ON s.id = m.season_id
	WHERE h.room_id = $1
	`
	args := []interface{}{scope.RoomID}
	if scope.SeasonID != uuid.Nil {
		args = append(args, scope.SeasonID)
		q += fmt.Sprintf(" AND s.id = $%d", len(args))
	}
	if scope.MeetID != uuid.Nil {
		args = append(args, scope.MeetID)
		q += fmt.Sprintf(" AND h.meet_id = $%d", len(args))
	}
	q += " ORDER BY h.played_at, r.seat"

	rows, err := DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.TaggedResult
	for rows.Next() {
		var (
			t        models.TaggedResult
			meetID   *uuid.UUID
			seasonID *uuid.UUID
		)
		if err := rows.Scan(
			&t.RoundID, &t.RoomID, &meetID, &t.PlayedAt,
			&t.PlayerID, &t.Seat, &t.Rank, &t.FinalScore,
			&t.Points, &t.CashValue, &t.EventCount, &t.EventFlag,
			&t.DisplayName, &seasonID,
		); err != nil {
			return nil, err
		}
		if meetID != nil {
			t.MeetID = *meetID
		}
		if seasonID != nil {
			t.SeasonID = *seasonID
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// ListRounds returns the round rows of a room, newest first.
func ListRounds(ctx context.Context, roomID uuid.UUID) ([]models.Round, error) {
	q := `SELECT id, room_id, meet_id, memo, played_at FROM rounds WHERE room_id=$1 ORDER BY played_at DESC`
	rows, err := DB.Query(ctx, q, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		var (
			r      models.Round
			meetID *uuid.UUID
		)
		if err := rows.Scan(&r.ID, &r.RoomID, &meetID, &r.Memo, &r.PlayedAt); err != nil {
			return nil, err
		}
		if meetID != nil {
			r.MeetID = *meetID
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}
