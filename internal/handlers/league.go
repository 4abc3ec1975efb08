// internal/handlers/league.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/database"
	"github.com/janlog/janlog/internal/models"
)

type createSeasonRequest struct {
	RoomID    uuid.UUID `json:"room_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CreateSeasonHandler creates a season. Requires an admin session for the room.
func CreateSeasonHandler(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.RoomID == uuid.Nil || req.Name == "" {
		http.Error(w, "room_id and name are required", http.StatusBadRequest)
		return
	}
	if !req.EndDate.After(req.StartDate) {
		http.Error(w, "end_date must be after start_date", http.StatusBadRequest)
		return
	}
	if _, err := requireRoomSession(r, req.RoomID, true); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	season := models.Season{
		RoomID:    req.RoomID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := database.CreateSeason(r.Context(), &season); err != nil {
		log.Printf("failed to create season: %v", err)
		http.Error(w, "error creating season", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, season)
}

// ListSeasonsHandler lists a room's seasons ordered by start date.
func ListSeasonsHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(r.URL.Query().Get("room"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	seasons, err := database.ListSeasons(r.Context(), roomID)
	if err != nil {
		http.Error(w, "error listing seasons", http.StatusInternalServerError)
		return
	}
	if seasons == nil {
		seasons = []models.Season{}
	}
	writeJSON(w, http.StatusOK, seasons)
}

type createMeetRequest struct {
	SeasonID uuid.UUID `json:"season_id"`
	Name     string    `json:"name"`
	MeetDate time.Time `json:"meet_date"`
}

// CreateMeetHandler creates a meet within a season. Requires an admin
// session for the season's room.
func CreateMeetHandler(w http.ResponseWriter, r *http.Request) {
	var req createMeetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.SeasonID == uuid.Nil || req.Name == "" {
		http.Error(w, "season_id and name are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	season, err := database.GetSeasonByID(ctx, req.SeasonID)
	if err != nil {
		http.Error(w, "season not found", http.StatusNotFound)
		return
	}
	if _, err := requireRoomSession(r, season.RoomID, true); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	meet := models.Meet{
		SeasonID: req.SeasonID,
		Name:     req.Name,
		MeetDate: req.MeetDate,
	}
	if meet.MeetDate.IsZero() {
		meet.MeetDate = time.Now().UTC()
	}
	if err := database.CreateMeet(ctx, &meet); err != nil {
		log.Printf("failed to create meet: %v", err)
		http.Error(w, "error creating meet", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, meet)
}

// ListMeetsHandler lists a season's meets ordered by meet date.
func ListMeetsHandler(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season"))
	if err != nil {
		http.Error(w, "invalid season id", http.StatusBadRequest)
		return
	}
	meets, err := database.ListMeets(r.Context(), seasonID)
	if err != nil {
		http.Error(w, "error listing meets", http.StatusInternalServerError)
		return
	}
	if meets == nil {
		meets = []models.Meet{}
	}
	writeJSON(w, http.StatusOK, meets)
}
