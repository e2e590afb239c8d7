package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/config"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/internal/models"
	"github.com/MughalAman/ClosedAI-Fitness-Tracker-API/pkg/logger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.DBDriver, cfg.GetDSN(), cfg.IsDevelopment())
}

// newGormLogger keeps gorm's output but drops "record not found", which the
// repositories treat as an ordinary miss.
func newGormLogger(w gormlogger.Writer, level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  level == gormlogger.Info,
	})
}

// Open connects to a sqlite file (or ":memory:") or a postgres server.
func Open(driver, dsn string, verbose bool) (*gorm.DB, error) {
	logLevel := gormlogger.Error
	if verbose {
		logLevel = gormlogger.Info
	}

	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags), logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Repositories open their own transactions around every write
		SkipDefaultTransaction: true,
		PrepareStmt:            driver == config.DriverPostgres,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if driver == config.DriverSQLite {
		// One connection: sqlite serialises writers anyway and ":memory:" is per connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := db.SetupJoinTable(&models.Exercise{}, "Tags", &models.ExerciseTag{}); err != nil {
		return nil, fmt.Errorf("failed to set up exercise_tags: %w", err)
	}

	logger.Info("Database connected", "driver", driver)
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// AutoMigrate creates or updates every table. exercise_tags is migrated through Exercise.Tags.
func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.FriendshipStatus{},
		&models.Friendship{},
		&models.Workout{},
		&models.WorkoutDate{},
		&models.Exercise{},
		&models.Tag{},
		&models.Rating{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedFriendshipStatuses makes sure both friendship statuses exist.
func SeedFriendshipStatuses(db *gorm.DB) error {
	for _, name := range []string{models.FriendshipStatusPending, models.FriendshipStatusAccepted} {
		status := models.FriendshipStatus{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&status).Error; err != nil {
			return fmt.Errorf("failed to seed friendship status %s: %w", name, err)
		}
	}
	return nil
}

// Migrate runs the schema migration and seeds lookup rows.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	return SeedFriendshipStatuses(db)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenInMemory returns a migrated, seeded in-memory sqlite database.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Open(config.DriverSQLite, ":memory:", false)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
