// internal/handlers/round.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/janlog/janlog/internal/cache"
	"github.com/janlog/janlog/internal/database"
	"github.com/janlog/janlog/internal/models"
	"github.com/janlog/janlog/internal/settlement"
)

type submitRoundRequest struct {
	RoomID uuid.UUID          `json:"room_id"`
	MeetID uuid.UUID          `json:"meet_id,omitempty"`
	Memo   string             `json:"memo,omitempty"`
	Seats  []models.SeatScore `json:"seats"`
}

type submitRoundResponse struct {
	Round  models.Round       `json:"round"`
	Result models.RoundResult `json:"result"`
}

// SubmitRoundHandler settles one round against the room's config and
// persists the outcome. Requires a session scoped to the room. On success
// the settled record is pushed to the audit queue and the room's live
// scoreboards are refreshed.
func SubmitRoundHandler(hub *StandingsHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if req.RoomID == uuid.Nil {
			http.Error(w, "room_id is required", http.StatusBadRequest)
			return
		}
		if _, err := requireRoomSession(r, req.RoomID, false); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}

		ctx := r.Context()
		room, err := database.GetRoomByID(ctx, req.RoomID)
		if err != nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		input := models.RoundInput{Seats: req.Seats}
		if err := settlement.ValidateInput(input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// every seat must belong to the room
		for _, s := range input.Seats {
			p, err := database.GetPlayerByID(ctx, s.PlayerID)
			if err != nil || p.RoomID != room.ID {
				http.Error(w, "seat player not in room", http.StatusBadRequest)
				return
			}
		}

		result, err := settlement.Settle(room.Config, input)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, settlement.ErrInvalidConfig) {
				status = http.StatusInternalServerError
			}
			http.Error(w, err.Error(), status)
			return
		}

		round := models.Round{RoomID: room.ID, MeetID: req.MeetID, Memo: req.Memo}
		if err := database.RecordRound(ctx, &round, result); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				http.Error(w, "round already recorded", http.StatusConflict)
				return
			}
			log.Printf("failed to record round: %v", err)
			http.Error(w, "error recording round", http.StatusInternalServerError)
			return
		}

		publishRoundAudit(round, result)
		hub.NotifyRoom(room.ID)

		writeJSON(w, http.StatusCreated, submitRoundResponse{Round: round, Result: result})
	}
}

// publishRoundAudit pushes the settled round onto the exporter queue.
// Best-effort: audit must never fail a recorded settlement.
func publishRoundAudit(round models.Round, result models.RoundResult) {
	if cache.Rdb == nil {
		return
	}
	rec := cache.RoundRecord{
		RoundID:   round.ID,
		RoomID:    round.RoomID,
		MeetID:    round.MeetID,
		Memo:      round.Memo,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, pr := range result.Results {
		rec.Results = append(rec.Results, cache.SeatRecord{
			PlayerID:   pr.PlayerID,
			Seat:       pr.Seat,
			Rank:       pr.Rank,
			FinalScore: pr.FinalScore,
			Points:     pr.Points,
			CashValue:  pr.CashValue,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.PublishRoundRecord(ctx, rec); err != nil {
		log.Printf("failed to publish round audit: %v", err)
	}
}

// ListRoundsHandler lists a room's recorded rounds, newest first.
func ListRoundsHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(r.URL.Query().Get("room"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	rounds, err := database.ListRounds(r.Context(), roomID)
	if err != nil {
		http.Error(w, "error listing rounds", http.StatusInternalServerError)
		return
	}
	if rounds == nil {
		rounds = []models.Round{}
	}
	writeJSON(w, http.StatusOK, rounds)
}
