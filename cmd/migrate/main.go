package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/migrations"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/config"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/database"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migration command: up, down, status or version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: "migrate",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLog := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()

	lines, err := database.Migrate(ctx, db, migrations.FS, *command)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Migration %s failed: %v", *command, err))
	}
	for _, line := range lines {
		appLog.Info(line)
	}
	appLog.Info(fmt.Sprintf("Migration %s completed", *command))
}
