package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/janlog/janlog/internal/auth"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requireSession authenticates the request's session_token cookie and
// returns the decoded session. The caller is responsible for checking room
// scope and admin rights.
func requireSession(r *http.Request) (auth.Session, error) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "session_token=") {
		return auth.Session{}, fmt.Errorf("missing session_token")
	}
	token := extractCookieToken(cookie, "session_token")
	return auth.AuthenticateSession(token)
}

// requireRoomSession authenticates the request and checks that the session
// is scoped to the given room. When admin is true the session must carry
// admin rights.
func requireRoomSession(r *http.Request, roomID uuid.UUID, admin bool) (auth.Session, error) {
	sess, err := requireSession(r)
	if err != nil {
		return auth.Session{}, err
	}
	if sess.RoomID != roomID.String() {
		return auth.Session{}, fmt.Errorf("session not scoped to room %s", roomID)
	}
	if admin && !sess.Admin {
		return auth.Session{}, fmt.Errorf("admin session required")
	}
	return sess, nil
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// setSessionCookie attaches the session token to the response.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
}
