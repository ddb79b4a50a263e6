package db

import (
	"database/sql"
)

// DB wraps *sql.DB so packages depend on this type rather than on the
// driver import.
type DB struct {
	*sql.DB
}
