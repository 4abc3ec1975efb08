package models

import (
	"time"

	"github.com/google/uuid"
)

// Player is a named seat holder within one room. Display names are unique
// per room; joining with an existing name resolves to the existing player.
type Player struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"room_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}
