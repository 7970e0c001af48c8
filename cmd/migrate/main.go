package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/config"
	"github.com/ArnavSingha/ApniSec/internal/infra/logger"
	pgrepo "github.com/ArnavSingha/ApniSec/internal/repo/postgres"
)

func main() {
	direction := flag.String("direction", pgrepo.DirectionUp, "migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := pgrepo.Migrate(cfg.Postgres.DSN, *direction); err != nil {
		log.Fatal("migrate postgres", zap.String("direction", *direction), zap.Error(err))
	}
	log.Info("postgres migrations applied", zap.String("direction", *direction))
}
