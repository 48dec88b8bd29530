package main

import (
	"context"
	"log"

	"github.com/project-pal/project-pal-backend/config"
	"github.com/project-pal/project-pal-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	rdb, err := bootstrap.OpenRedis(context.Background(), bootstrap.RedisOptions{Config: cfg.Redis})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "project-pal-api",
		Config:      cfg,
		Redis:       rdb,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
