// internal/handlers/session_test.go
package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/auth"
)

// TestRequireRoomSession checks room scoping and admin gating of session cookies.
func TestRequireRoomSession(t *testing.T) {
	auth.Init() // ephemeral keys, no DB needed

	roomID := uuid.New()
	playerID := uuid.New()

	token, err := auth.CreateSessionToken(playerID.String(), roomID.String(), false)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	req := httptest.NewRequest("POST", "/round/submit", nil)
	req.Header.Set("Cookie", "session_token="+token)

	sess, err := requireRoomSession(req, roomID, false)
	if err != nil {
		t.Fatalf("expected valid session, got %v", err)
	}
	if sess.PlayerID != playerID.String() {
		t.Fatalf("player mismatch: expected %v got %v", playerID, sess.PlayerID)
	}

	// wrong room
	if _, err := requireRoomSession(req, uuid.New(), false); err == nil {
		t.Fatalf("expected room scope rejection")
	}

	// non-admin session against admin requirement
	if _, err := requireRoomSession(req, roomID, true); err == nil {
		t.Fatalf("expected admin rejection")
	}

	// admin token passes the admin gate
	adminToken, _ := auth.CreateSessionToken(playerID.String(), roomID.String(), true)
	adminReq := httptest.NewRequest("POST", "/season/create", nil)
	adminReq.Header.Set("Cookie", "session_token="+adminToken)
	if _, err := requireRoomSession(adminReq, roomID, true); err != nil {
		t.Fatalf("expected admin session to pass, got %v", err)
	}

	// missing cookie
	bare := httptest.NewRequest("POST", "/round/submit", nil)
	if _, err := requireRoomSession(bare, roomID, false); err == nil {
		t.Fatalf("expected missing cookie rejection")
	}
}

// TestParseScope checks scope query parsing for the standings endpoints.
func TestParseScope(t *testing.T) {
	room := uuid.New()
	season := uuid.New()
	meet := uuid.New()

	req := httptest.NewRequest("GET", "/standings?room="+room.String(), nil)
	scope, err := parseScope(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.RoomID != room || scope.SeasonID != uuid.Nil || scope.MeetID != uuid.Nil {
		t.Fatalf("unexpected scope %+v", scope)
	}

	req = httptest.NewRequest("GET", "/standings?room="+room.String()+"&season="+season.String()+"&meet="+meet.String(), nil)
	scope, err = parseScope(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope.SeasonID != season || scope.MeetID != meet {
		t.Fatalf("unexpected scope %+v", scope)
	}

	req = httptest.NewRequest("GET", "/standings", nil)
	if _, err := parseScope(req); err == nil {
		t.Fatalf("expected missing room rejection")
	}

	req = httptest.NewRequest("GET", "/standings?room=not-a-uuid", nil)
	if _, err := parseScope(req); err == nil {
		t.Fatalf("expected invalid room rejection")
	}
}
