package database

import (
	"errors"
	"os"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database from DATABASE_URL
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// IsDuplicate reports whether err is a unique constraint violation.
// Checks the postgres error code, with a string fallback for the sqlite
// driver used in tests.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
