// Package repository contains data access logic for the catalog tables. Query
// errors from the store are returned unmodified; the sentinels below only
// classify a lookup that found no row.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var (
	ErrActorNotFound    = errors.New("actor not found")
	ErrFilmNotFound     = errors.New("film not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrLanguageNotFound = errors.New("language not found")
	// ErrLinkNotFound is returned when unlinking a pair that was never linked.
	ErrLinkNotFound = errors.New("association not found")
)

// MySQL server error numbers for constraint failures.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlColumnCannotNull = 1048
)

// IsConstraintViolation reports whether err is a store-level constraint
// failure (foreign key, unique, not null) on either supported engine.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlColumnCannotNull:
			return true
		}
	}
	return false
}
