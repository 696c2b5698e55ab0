// database/bootstrap.go
package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agrimind/config"
	"agrimind/entities"
)

// Open picks the driver from config and migrates the schema.
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "", "sqlite":
		db, err = OpenSQLite(cfg.DBPath)
	case "postgres":
		db, err = OpenPostgres(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens path with foreign keys enforced so farm deletes cascade.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	log.Info().Str("driver", "sqlite").Str("path", path).Msg("[db] opened")
	return db, nil
}

func sqliteDSN(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL required for postgres driver")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	log.Info().Str("driver", "postgres").Msg("[db] opened")
	return db, nil
}

// Migrate creates parents before children so FK constraints resolve.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Farm{},
		&entities.WaterUsage{},
		&entities.FertilizerUsage{},
		&entities.Harvest{},
		&entities.FuelRecord{},
		&entities.SoilRecord{},
		&entities.EmissionSource{},
		&entities.SequestrationActivity{},
		&entities.EnergyRecord{},
		&entities.Livestock{},
		&entities.Task{},
		&entities.Issue{},
		&entities.CropPlanEvent{},
		&entities.PlanItem{},
		&entities.UserLocalStorage{},
		&entities.ImportRun{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
