package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brightclass/class-rewards-api/internal/repository"
	"github.com/brightclass/class-rewards-api/internal/service"
	"github.com/brightclass/class-rewards-api/pkg/config"
	"github.com/brightclass/class-rewards-api/pkg/database"
	"github.com/brightclass/class-rewards-api/pkg/logger"
)

func main() {
	propagate := flag.Bool("propagate", false, "also copy missing group-work defaults to existing teachers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	teacherRepo := repository.NewTeacherRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	behaviorSvc := service.NewBehaviorService(behaviorRepo, teacherRepo, nil, logr, cfg.Seed.DefaultTeacherEmail)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := behaviorSvc.SeedDefaults(ctx); err != nil {
		logr.Sugar().Fatalw("seeding defaults failed", "error", err)
	}
	logr.Sugar().Infow("default behavior catalog seeded")

	if *propagate {
		if err := behaviorSvc.PropagateGroupWorkDefaults(ctx); err != nil {
			logr.Sugar().Fatalw("propagating group work defaults failed", "error", err)
		}
		logr.Sugar().Infow("group work defaults propagated")
	}
}
