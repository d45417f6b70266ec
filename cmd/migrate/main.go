package main

import (
	"fmt"
	"os"
	"strconv"

	"defter/internal/database"
	"defter/internal/logger"
	"defter/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|version|backfill-lineno|rebuild-balances> [N]")
	}

	cfg, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	command := os.Args[1]

	// Data maintenance commands run over GORM rather than golang-migrate.
	switch command {
	case "backfill-lineno":
		return backfillLineNumbers(cfg)
	case "rebuild-balances":
		return rebuildBalances(cfg)
	}

	m, err := migrate.New("file://migrations", cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version, backfill-lineno, or rebuild-balances)", command)
	}

	return nil
}

// backfillLineNumbers assigns line_no to pre-existing journal lines that lack
// one, numbering 1..N per entry. Safe to re-run.
func backfillLineNumbers(cfg *database.Config) error {
	manager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	journalService := services.NewJournalService(manager.DB(), services.NewPeriodService(manager.DB()))
	updated, err := journalService.BackfillLineNumbers()
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	logger.Get().Infof("Backfill complete: %d line(s) renumbered", updated)
	return nil
}

// rebuildBalances recomputes the monthly balance cache from journal history.
func rebuildBalances(cfg *database.Config) error {
	manager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	cacheService := services.NewBalanceCacheService(manager.DB())
	count, err := cacheService.RebuildMonthlyBalances()
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	logger.Get().Infof("Monthly balance cache rebuilt: %d row(s)", count)
	return nil
}
