package database

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the postgres database behind dsn and migrates the schema.
func Connect(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, err
	}

	d := NewDatabase(db)
	if err := d.Migrate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Config is shared by every dialect so unique violations surface as gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// gormWriter routes gorm's slow query and error lines into zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&models.Room{},
		&models.Player{},
		&models.Round{},
		&models.Vote{},
		&models.ReadyMark{},
	)
}

func (d *Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
