// internal/models/league.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Season is a date-bounded stretch of league play within a room.
type Season struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Meet is a single gathering within a season; rounds are recorded against a meet.
type Meet struct {
	ID        uuid.UUID `json:"id"`
	SeasonID  uuid.UUID `json:"season_id"`
	Name      string    `json:"name"`
	MeetDate  time.Time `json:"meet_date"`
	CreatedAt time.Time `json:"created_at"`
}
