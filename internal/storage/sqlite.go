// Package storage archives fetched stations and wind observations in a
// local SQLite database so repeat queries do not hit the API.
package storage

import (
	"database/sql"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the SQLite archive at path.
func Open(path string) (*sql.DB, error) {
	return sql.Open("sqlite", path)
}

// Migrate applies the goose migrations from dir.
func Migrate(db *sql.DB, dir string) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, dir)
}
