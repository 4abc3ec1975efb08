// internal/handlers/standings_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/database"
	"github.com/janlog/janlog/internal/middleware"
	"github.com/janlog/janlog/internal/models"
	"github.com/janlog/janlog/internal/standings"
	"github.com/sirupsen/logrus"
)

// scoreboardConn is one live scoreboard subscriber.
type scoreboardConn struct {
	outChan chan []byte
	cancel  context.CancelFunc
}

// StandingsHub fans refreshed standings out to the websocket subscribers of
// each room. Subscriptions are ephemeral in-memory state.
type StandingsHub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[*scoreboardConn]struct{}
}

func NewStandingsHub() *StandingsHub {
	return &StandingsHub{subs: make(map[uuid.UUID]map[*scoreboardConn]struct{})}
}

func (h *StandingsHub) subscribe(roomID uuid.UUID, c *scoreboardConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[roomID] == nil {
		h.subs[roomID] = make(map[*scoreboardConn]struct{})
	}
	h.subs[roomID][c] = struct{}{}
}

func (h *StandingsHub) unsubscribe(roomID uuid.UUID, c *scoreboardConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.subs[roomID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.subs, roomID)
		}
	}
}

// NotifyRoom recomputes the room's full-history standings and pushes them to
// every subscriber. Slow subscribers are skipped rather than blocked on.
func (h *StandingsHub) NotifyRoom(roomID uuid.UUID) {
	h.mu.Lock()
	count := len(h.subs[roomID])
	h.mu.Unlock()
	if count == 0 {
		return
	}

	payload, err := h.buildPayload(roomID)
	if err != nil {
		log.Printf("failed to build scoreboard payload for room %v: %v", roomID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.subs[roomID] {
		select {
		case c.outChan <- payload:
		default:
		}
	}
}

func (h *StandingsHub) buildPayload(roomID uuid.UUID) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	room, err := database.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	scope := models.ScopeKey{RoomID: roomID}
	results, err := database.ListResults(ctx, scope)
	if err != nil {
		return nil, err
	}
	summaries := standings.Aggregate(results, scope, room.Config.RankingMetric)

	return json.Marshal(map[string]interface{}{
		"type":      "standings",
		"room_id":   roomID,
		"standings": summaries,
	})
}

// StandingsWSHandler upgrades to a websocket that streams the room's
// standings: one snapshot on connect, then a refresh after every recorded
// round. Requires a session scoped to the room.
func StandingsWSHandler(logger *logrus.Logger, hub *StandingsHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/standings/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "missing room_id", http.StatusBadRequest)
			return
		}
		roomID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "invalid room_id", http.StatusBadRequest)
			return
		}

		if _, err := requireRoomSession(r, roomID, false); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"scoreboard"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "scoreboard" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the scoreboard subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		conn := &scoreboardConn{
			outChan: make(chan []byte, 10),
			cancel:  cancel,
		}
		hub.subscribe(roomID, conn)
		middleware.LogScoreboardConnect(logger, remoteAddr, roomID.String())

		// initial snapshot
		if payload, err := hub.buildPayload(roomID); err == nil {
			conn.outChan <- payload
		} else {
			logger.Warnf("failed to build initial scoreboard for room %v: %v", roomID, err)
		}

		go scoreboardWritePump(ctx, c, conn, logger)

		// read loop: clients send nothing meaningful; exit on close
		var closeErr error
		for {
			if _, _, err := c.Read(ctx); err != nil {
				closeErr = err
				break
			}
		}

		hub.unsubscribe(roomID, conn)
		cancel()
		middleware.LogScoreboardDisconnect(logger, remoteAddr, roomID.String(), closeErr)
	}
}

// scoreboardWritePump drains the subscriber's channel onto the websocket.
func scoreboardWritePump(ctx context.Context, c *websocket.Conn, conn *scoreboardConn, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-conn.outChan:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				logger.Warnf("scoreboard write error: %v", err)
				return
			}
		}
	}
}
