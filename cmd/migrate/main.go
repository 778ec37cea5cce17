package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/slotdeck/server/internal/config"
)

var migrationsDir = flag.String("dir", "migrations", "directory with migration files")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		log.Println("usage: migrate [-dir migrations] <up|down|status|version> [args]")
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("pgx", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	ctx := context.Background()
	if err := goose.RunContext(ctx, command, db, *migrationsDir, args[1:]...); err != nil {
		log.Fatalf("Migration %s failed: %v", command, err)
	}
}
