// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware is an HTTP middleware that logs incoming requests using Logrus.
// Logs the method, path, and duration of each request.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			method := r.Method

			next.ServeHTTP(w, r)

			duration := time.Since(start)
			logger.WithFields(logrus.Fields{
				"method":   method,
				"path":     path,
				"duration": duration,
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogScoreboardConnect logs a message when a scoreboard WebSocket client connects.
func LogScoreboardConnect(logger *logrus.Logger, remoteAddr string, roomID string) {
	logger.WithFields(logrus.Fields{
		"remote": remoteAddr,
		"room":   roomID,
	}).Info("Scoreboard connected")
}

// LogScoreboardDisconnect logs a message when a scoreboard WebSocket client disconnects.
func LogScoreboardDisconnect(logger *logrus.Logger, remoteAddr string, roomID string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"room":   roomID,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("Scoreboard disconnected")
}
