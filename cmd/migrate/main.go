package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/infrastructure/postgres"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/config"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/logger"
)

func main() {
	printOnly := flag.Bool("print", false, "imprime el esquema SQL sin aplicarlo")
	flag.Parse()

	if *printOnly {
		fmt.Print(postgres.Schema())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	if cfg.App.StoreDriver == "memory" {
		log.Error().Msg("DATABASE_URL o DB_HOST requerido para migrar")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Error().Err(err).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Msg("esquema aplicado")
}
