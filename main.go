package main

import (
	"github.com/wfunc/monopoly/board"
	"github.com/wfunc/monopoly/config"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/persistence"
	"github.com/wfunc/monopoly/server"
)

func main() {
	// Initialize logger
	logger.Init(false)
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Server.Debug {
		logger.Init(true)
	}

	// Initialize Database
	db, err := newDatabase(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Log.Info("Database connection successful.")

	// Load the property catalog
	catalog, err := board.Load(cfg.Game.BoardFile)
	if err != nil {
		logger.Log.Fatalf("Failed to load board file %s: %v", cfg.Game.BoardFile, err)
	}

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, db, catalog)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

// newDatabase selects the persistence implementation by config.
func newDatabase(cfg *config.Config) (persistence.Database, error) {
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "sql":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
}
