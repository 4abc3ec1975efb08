package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/janlog/janlog/internal/models"
)

// CreatePlayer inserts a new player row in the room.
func CreatePlayer(ctx context.Context, player *models.Player) error {
	if player.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate player id: %w", err)
		}
		player.ID = id
	}

	q := `INSERT INTO players (id, room_id, display_name) VALUES ($1, $2, $3)`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, player.ID, player.RoomID, player.DisplayName)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

// GetOrCreatePlayer resolves a display name within a room to its player,
// creating one if the name is new. Joining twice with the same name yields
// the same player, matching the room-join semantics of the input form.
func GetOrCreatePlayer(ctx context.Context, roomID uuid.UUID, displayName string) (*models.Player, error) {
	var p models.Player
	q := `SELECT id, room_id, display_name, joined_at FROM players WHERE room_id=$1 AND display_name=$2`
	err := DB.QueryRow(ctx, q, roomID, displayName).Scan(&p.ID, &p.RoomID, &p.DisplayName, &p.JoinedAt)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up player: %w", err)
	}

	p = models.Player{RoomID: roomID, DisplayName: displayName}
	if err := CreatePlayer(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func GetPlayerByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	q := `SELECT id, room_id, display_name, joined_at FROM players WHERE id=$1`
	err := DB.QueryRow(ctx, q, id).Scan(&p.ID, &p.RoomID, &p.DisplayName, &p.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns all players of a room in join order.
func ListPlayers(ctx context.Context, roomID uuid.UUID) ([]models.Player, error) {
	q := `SELECT id, room_id, display_name, joined_at FROM players WHERE room_id=$1 ORDER BY joined_at`
	rows, err := DB.Query(ctx, q, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.RoomID, &p.DisplayName, &p.JoinedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
