package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/config"
	"github.com/nekogravitycat/estify-backend/internal/db"
	"github.com/nekogravitycat/estify-backend/internal/pkg/logger"
)

const argLength = 2

func main() {
	logger.Init("info", false)

	if len(os.Args) < argLength {
		log.Fatal().Msg("migration action is required: up, down, step-up or drop")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)

	switch action := os.Args[1]; action {
	case db.MigrateUp, db.MigrateDown, db.MigrateStepUp, db.MigrateDrop:
		if err := db.Migrate(cfg.DBDSN, action); err != nil {
			log.Fatal().Err(err).Str("action", action).Msg("migration failed")
		}
	default:
		log.Fatal().Str("action", action).Msg("invalid action, use 'up', 'down', 'step-up' or 'drop'")
	}
}
