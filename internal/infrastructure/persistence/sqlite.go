package persistence

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
	"github.com/negocio/backoffice/internal/domain/shared"
	"gorm.io/driver/sqlite"
)

// SQLiteDriverName is the sqlite3 driver with an unaccent() function that
// folds text like postgres' unaccent extension, so list searches behave the
// same on both.
const SQLiteDriverName = "sqlite3_unaccent"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unaccent", shared.FoldText, true)
		},
	})
}

// OpenSQLite opens an embedded database on the unaccent-aware driver
func OpenSQLite(dsn string, opts Options) (*Database, error) {
	return Open(sqlite.New(sqlite.Config{DriverName: SQLiteDriverName, DSN: dsn}), opts)
}
