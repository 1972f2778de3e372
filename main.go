package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/akonno/HanoiSimulator/assets"
	"github.com/akonno/HanoiSimulator/internal/config"
	"github.com/akonno/HanoiSimulator/internal/db"
	"github.com/akonno/HanoiSimulator/internal/httpserver"
	"github.com/akonno/HanoiSimulator/internal/store"
)

func main() {
	_ = godotenv.Load()
	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(cfg, store.NewMemoryStore(), conn)
	log.Info().
		Str("port", cfg.Port).
		Int("disks", cfg.Disks).
		Int("steps_per_phase", cfg.Geometry.StepsPerPhase).
		Msg("starting hanoi-simulator")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
