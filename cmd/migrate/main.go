// Command migrate applies or inspects the database schema.
//
//	migrate [up|down|version|reset]
package main

import (
	"fmt"
	"os"

	"industrain/internal/config"
	"industrain/internal/database"
	"industrain/internal/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.LoadMigration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	path := database.ResolveMigrationsPath(cfg.MigrationsPath)
	log = log.With("command", cmd, "path", path)

	var state database.MigrationState
	switch cmd {
	case "up":
		state, err = db.MigrateUp(path)
	case "down":
		state, err = db.MigrateDown(path)
	case "version":
		state, err = db.MigrateVersion(path)
	case "reset":
		err = db.MigrateReset(path)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q: expected up, down, version or reset\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("migration failed", "error", err)
	}

	log.Info("migration complete", "version", state.Version, "dirty", state.Dirty)
}
