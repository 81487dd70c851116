package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"

	"librarycatalog/internal/library"
	"librarycatalog/internal/logger"
	"librarycatalog/internal/response"
	"librarycatalog/internal/server"
	"librarycatalog/internal/storage"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel    = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	logFormat   = getEnvOrDefault("LOG_FORMAT", "text")
	dbConnStr   = getEnvOrDefault("DATABASE_URL", "sqlite:library.db")
	bindAddr    = getEnvOrDefault("BIND_ADDR", ":8080")
	autoMigrate = getBoolEnv("AUTO_MIGRATE")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	lvl, lvlErr := logger.ParseLevel(logLevel)
	err := logger.SetupSLog(logFormat, lvl, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)
	if err != nil {
		slog.Error("Invalid LOG_FORMAT: " + err.Error())
		os.Exit(1)
	}

	if lvlErr != nil {
		slog.Error("Invalid LOG_LEVEL: " + lvlErr.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	db, closeDB, err := storage.Open(ctx, dbConnStr, logger.NewPGXTracer(slog.Default()))
	if err != nil {
		slog.Error("Failed to open DATABASE_URL: " + err.Error())
		os.Exit(1)
	}
	defer closeDB()

	if autoMigrate {
		if err := storage.Migrate(ctx, db); err != nil {
			slog.Error("Failed to migrate database: " + err.Error())
			os.Exit(1)
		}
	}

	h := server.Handler(
		library.NewService(db, slog.Default()),
		&response.Responder{},
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Mount("/newroute", h)
	r.Mount("/", h)

	slog.Info("Listening on " + bindAddr)
	err = http.ListenAndServe(bindAddr, r)
	slog.Error("aborting: " + err.Error())
	closeDB()
	os.Exit(1)
}
