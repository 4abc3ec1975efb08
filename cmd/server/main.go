// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/janlog/janlog/internal/auth"
	"github.com/janlog/janlog/internal/cache"
	"github.com/janlog/janlog/internal/database"
	"github.com/janlog/janlog/internal/handlers"
	"github.com/janlog/janlog/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	auth.Init()
	database.ConnectDB()
	if err := database.InitSchema(context.Background()); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// audit feed is optional; settlements still record without it
		logger.Warnf("redis unavailable, round audit disabled: %v", err)
	}

	hub := handlers.NewStandingsHub()

	mux := http.NewServeMux()

	// room endpoints
	mux.HandleFunc("/room/create", handlers.CreateRoomHandler)
	mux.HandleFunc("/room/join", handlers.JoinRoomHandler)
	mux.HandleFunc("/room/get", handlers.GetRoomHandler)

	// league endpoints
	mux.HandleFunc("/season/create", handlers.CreateSeasonHandler)
	mux.HandleFunc("/season/list", handlers.ListSeasonsHandler)
	mux.HandleFunc("/meet/create", handlers.CreateMeetHandler)
	mux.HandleFunc("/meet/list", handlers.ListMeetsHandler)

	// round endpoints
	mux.Handle("/round/submit", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.SubmitRoundHandler(hub),
	)))
	mux.HandleFunc("/rounds/list", handlers.ListRoundsHandler)

	// standings endpoints
	mux.Handle("/standings", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.StandingsHandler,
	)))
	mux.HandleFunc("/standings/csv", handlers.StandingsCSVHandler)
	mux.HandleFunc("/standings/h2h", handlers.HeadToHeadHandler)

	// live scoreboard ws
	mux.Handle("/standings/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.StandingsWSHandler(logger, hub),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
