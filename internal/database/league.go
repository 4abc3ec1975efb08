// internal/database/league.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/janlog/janlog/internal/models"
)

// CreateSeason inserts a new season row for a room.
func CreateSeason(ctx context.Context, s *models.Season) error {
	if s.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate season id: %w", err)
		}
		s.ID = id
	}
	q := `INSERT INTO seasons (id, room_id, name, start_date, end_date) VALUES ($1, $2, $3, $4, $5)`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, s.ID, s.RoomID, s.Name, s.StartDate, s.EndDate)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert season: %w", err)
	}
	return nil
}

// ListSeasons returns all seasons of a room ordered by start date.
func ListSeasons(ctx context.Context, roomID uuid.UUID) ([]models.Season, error) {
	q := `SELECT id, room_id, name, start_date, end_date, created_at FROM seasons WHERE room_id=$1 ORDER BY start_date`
	rows, err := DB.Query(ctx, q, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []models.Season
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Name, &s.StartDate, &s.EndDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

// GetSeasonByID returns one season row.
func GetSeasonByID(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	var s models.Season
	q := `SELECT id, room_id, name, start_date, end_date, created_at FROM seasons WHERE id=$1`
	err := DB.QueryRow(ctx, q, id).Scan(&s.ID, &s.RoomID, &s.Name, &s.StartDate, &s.EndDate, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateMeet inserts a new meet row within a season.
func CreateMeet(ctx context.Context, m *models.Meet) error {
	if m.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate meet id: %w", err)
		}
		m.ID = id
	}
	q := `INSERT INTO meets (id, season_id, name, meet_date) VALUES ($1, $2, $3, $4)`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, m.ID, m.SeasonID, m.Name, m.MeetDate)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert meet: %w", err)
	}
	return nil
}

// ListMeets returns all meets of a season ordered by meet date.
func ListMeets(ctx context.Context, seasonID uuid.UUID) ([]models.Meet, error) {
	q := `SELECT id, season_id, name, meet_date, created_at FROM meets WHERE season_id=$1 ORDER BY meet_date`
	rows, err := DB.Query(ctx, q, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meets: %w", err)
	}
	defer rows.Close()

	var meets []models.Meet
	for rows.Next() {
		var m models.Meet
		if err := rows.Scan(&m.ID, &m.SeasonID, &m.Name, &m.MeetDate, &m.CreatedAt); err != nil {
			return nil, err
		}
		meets = append(meets, m)
	}
	return meets, rows.Err()
}

// GetMeetByID returns one meet row.
func GetMeetByID(ctx context.Context, id uuid.UUID) (*models.Meet, error) {
	var m models.Meet
	q := `SELECT id, season_id, name, meet_date, created_at FROM meets WHERE id=$1`
	err := DB.QueryRow(ctx, q, id).Scan(&m.ID, &m.SeasonID, &m.Name, &m.MeetDate, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
