package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"runtime"

	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"

	"librarycatalog/internal/logger"
	"librarycatalog/internal/seed"
	"librarycatalog/internal/storage"
)

type CLI struct {
	File        string `arg:"" type:"existingfile" help:"YAML catalog to load"`
	DatabaseURL string `name:"database-url" env:"DATABASE_URL" default:"sqlite:library.db" help:"postgres:// URL or sqlite:<path>"`
	Migrate     bool   `env:"AUTO_MIGRATE" help:"Create missing tables before loading"`
	LogLevel    string `env:"LOG_LEVEL" default:"info" help:"debug, info, warn or error"`
	LogFormat   string `env:"LOG_FORMAT" default:"text" enum:"text,json" help:"Log output format"`
}

func (c *CLI) Run() error {
	_, thisFile, _, _ := runtime.Caller(0)

	lvl, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	if err := logger.SetupSLog(c.LogFormat, lvl, path.Dir(path.Dir(path.Dir(thisFile))), nil); err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	catalog, err := seed.Parse(f)
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, closeDB, err := storage.Open(ctx, c.DatabaseURL, logger.NewPGXTracer(slog.Default()))
	if err != nil {
		return err
	}
	defer closeDB()

	if c.Migrate {
		if err := storage.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}

	stats, err := (&seed.Loader{DB: db, Logger: slog.Default()}).Load(ctx, catalog)
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Seeded %d authors, %d genres and %d books (%d already stored)",
		stats.Authors, stats.Genres, stats.Books, stats.Skipped))

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("seed"),
		kong.Description("Load authors, genres and books from a YAML file into the library catalog."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
