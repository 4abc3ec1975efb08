// internal/database/schema.go
package database

import (
	"context"
	"fmt"
)

// schema is applied once at startup. Room config columns carry a
// config_version so the stored shape can evolve without the engine caring;
// round_results enforces at-most-once insertion per (round, player).
const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	admin_key_hash TEXT NOT NULL,
	config_version INT NOT NULL,
	start_score INT NOT NULL,
	target_score INT NOT NULL,
	rate_per_unit DOUBLE PRECISION NOT NULL,
	rank_bonus_1 DOUBLE PRECISION NOT NULL,
	rank_bonus_2 DOUBLE PRECISION NOT NULL,
	rank_bonus_3 DOUBLE PRECISION NOT NULL,
	rank_bonus_4 DOUBLE PRECISION NOT NULL,
	rounding_mode TEXT NOT NULL,
	top_bonus_mode TEXT NOT NULL,
	top_bonus_value DOUBLE PRECISION NOT NULL,
	event_bonus_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
	per_event_flat_bonus DOUBLE PRECISION NOT NULL DEFAULT 0,
	ranking_metric TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS players (
	id UUID PRIMARY KEY,
	room_id UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	display_name TEXT NOT NULL,
	joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (room_id, display_name)
);
CREATE TABLE IF NOT EXISTS seasons (
	id UUID PRIMARY KEY,
	room_id UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS meets (
	id UUID PRIMARY KEY,
	season_id UUID NOT NULL REFERENCES seasons(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	meet_date DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS rounds (
	id UUID PRIMARY KEY,
	room_id UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	meet_id UUID REFERENCES meets(id) ON DELETE SET NULL,
	memo TEXT NOT NULL DEFAULT '',
	played_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS round_results (
	id UUID PRIMARY KEY,
	round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
	seat INT NOT NULL,
	final_score INT NOT NULL,
	rank INT NOT NULL,
	points DOUBLE PRECISION NOT NULL,
	cash_value DOUBLE PRECISION NOT NULL,
	event_count INT NOT NULL DEFAULT 0,
	event_flag BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (round_id, player_id)
);
CREATE TABLE IF NOT EXISTS round_audit (
	round_id UUID NOT NULL,
	seq BIGINT GENERATED ALWAYS AS IDENTITY,
	payload JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (round_id, seq)
);
`

// InitSchema creates all tables if they do not exist yet.
func InitSchema(ctx context.Context) error {
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
