package main

import (
	"context"
	"log"

	"github.com/project-pal/project-pal-backend/config"
	"github.com/project-pal/project-pal-backend/internal/bootstrap"
	"github.com/project-pal/project-pal-backend/internal/dashboard"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{Config: cfg.Redis})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	watcher := dashboard.NewWatcher(rdb, repository.New(rdb))
	go watcher.Run(ctx)

	r := bootstrap.BuildDashboardRouter(bootstrap.RouterDeps{
		ServiceName: "project-pal-dashboard",
		Config:      cfg,
		Redis:       rdb,
	}, watcher)

	log.Printf("listening on :%s", cfg.Server.DashboardPort)
	if err := r.Run(":" + cfg.Server.DashboardPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
