package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Transaction runs fn against a Database bound to a single transaction.
// Returning an error from fn rolls back every write made through tx.
func (d *Database) Transaction(ctx context.Context, fn func(tx *Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx})
	})
}

func (d *Database) with(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}
