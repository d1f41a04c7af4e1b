package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/config"
	"github.com/Patasheva/congrats-analyzer/internal/database"
	"github.com/Patasheva/congrats-analyzer/internal/logger"
)

func main() {
	status := flag.Bool("status", false, "Show migration status only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer l.Sync()

	ctx := context.Background()
	dbConfig := cfg.Database()

	db, err := database.NewDB(ctx, dbConfig, l)
	if err != nil {
		l.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if db.Type() != "postgres" {
		fmt.Printf("%s schema is created on startup, nothing to migrate.\n", db.Type())
		return
	}

	if !*status {
		fmt.Printf("Running migrations from %s...\n", cfg.MigrationsPath)
		if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
			l.Fatal("failed to run migrations", zap.Error(err))
		}
		fmt.Println("Migrations completed successfully!")
		return
	}

	migrator := database.NewMigrator(db.Conn(), db.Type(), l)
	migrations, applied, err := migrator.Status(ctx, cfg.MigrationsPath)
	if err != nil {
		l.Fatal("failed to read migration status", zap.Error(err))
	}

	fmt.Println("Migration Status:")
	fmt.Println("=================")
	for _, m := range migrations {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Printf("%s - %s [%s]\n", m.Version, m.Name, state)
	}
}
