// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/janlog/janlog/internal/auth"
	"github.com/janlog/janlog/internal/database"
	"github.com/janlog/janlog/internal/models"
	"github.com/janlog/janlog/internal/settlement"
)

type createRoomRequest struct {
	Name        string            `json:"name"`
	AdminKey    string            `json:"admin_key"`
	CreatorName string            `json:"creator_name"`
	Config      models.RoomConfig `json:"config"`
}

type createRoomResponse struct {
	Room   models.Room   `json:"room"`
	Player models.Player `json:"player"`
	Token  string        `json:"token"`
}

// applyConfigDefaults fills the optional mode fields of a submitted config
// so that an omitted mode means "off" rather than an unknown string.
func applyConfigDefaults(cfg *models.RoomConfig) {
	if cfg.RoundingMode == "" {
		cfg.RoundingMode = models.RoundingNone
	}
	if cfg.TopBonusMode == "" {
		cfg.TopBonusMode = models.TopBonusNone
	}
	if cfg.RankingMetric == "" {
		cfg.RankingMetric = models.RankByCash
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
}

// CreateRoomHandler creates a room with its immutable settlement config,
// registers the creator as the first player, and issues an admin session.
func CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.AdminKey == "" || req.CreatorName == "" {
		http.Error(w, "name, admin_key and creator_name are required", http.StatusBadRequest)
		return
	}

	applyConfigDefaults(&req.Config)
	if err := settlement.ValidateConfig(req.Config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	room := models.Room{Name: req.Name, Config: req.Config}
	if err := database.CreateRoom(ctx, &room, req.AdminKey); err != nil {
		log.Printf("failed to create room: %v", err)
		http.Error(w, "error creating room", http.StatusInternalServerError)
		return
	}

	player := models.Player{RoomID: room.ID, DisplayName: req.CreatorName}
	if err := database.CreatePlayer(ctx, &player); err != nil {
		log.Printf("failed to create room creator: %v", err)
		http.Error(w, "error creating player", http.StatusInternalServerError)
		return
	}

	token, err := auth.CreateSessionToken(player.ID.String(), room.ID.String(), true)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, createRoomResponse{Room: room, Player: player, Token: token})
}

type joinRoomRequest struct {
	RoomID      uuid.UUID `json:"room_id"`
	DisplayName string    `json:"display_name"`
	AdminKey    string    `json:"admin_key,omitempty"`
}

type joinRoomResponse struct {
	Player models.Player `json:"player"`
	Token  string        `json:"token"`
}

// JoinRoomHandler joins an existing room by ID. Joining with a display name
// already present in the room resolves to the existing player. Supplying
// the room's admin key upgrades the session to admin.
func JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.RoomID == uuid.Nil || req.DisplayName == "" {
		http.Error(w, "room_id and display_name are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	room, err := database.GetRoomByID(ctx, req.RoomID)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	admin := false
	if req.AdminKey != "" {
		if _, err := database.AuthenticateRoomAdmin(ctx, room.ID, req.AdminKey); err != nil {
			http.Error(w, "invalid admin key", http.StatusForbidden)
			return
		}
		admin = true
	}

	player, err := database.GetOrCreatePlayer(ctx, room.ID, req.DisplayName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			http.Error(w, "display name already taken", http.StatusConflict)
			return
		}
		log.Printf("failed to join room: %v", err)
		http.Error(w, "error joining room", http.StatusInternalServerError)
		return
	}

	token, err := auth.CreateSessionToken(player.ID.String(), room.ID.String(), admin)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, token)

	writeJSON(w, http.StatusOK, joinRoomResponse{Player: *player, Token: token})
}

type getRoomResponse struct {
	Room    models.Room     `json:"room"`
	Players []models.Player `json:"players"`
}

// GetRoomHandler returns a room, its config, and its players.
func GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	room, err := database.GetRoomByID(ctx, roomID)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	players, err := database.ListPlayers(ctx, roomID)
	if err != nil {
		http.Error(w, "error listing players", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, getRoomResponse{Room: *room, Players: players})
}
