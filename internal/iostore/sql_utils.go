package iostore

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/geotrend/schema"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// placeholder returns the i-th (1-based) parameter placeholder for the backend.
func placeholder(backend schema.DatabaseBackend, i int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// placeholders returns n comma-separated placeholders starting at the first parameter.
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = placeholder(backend, i+1)
	}
	return strings.Join(parts, ", ")
}

// driverName returns the database/sql driver registered for the backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a database for the backend. An empty SQLite
// connection string resolves to the default database file.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	name, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetDBFilePath()
	}

	db, err := sql.Open(name, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct: user:password@tcp(host:port)/dbname"
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct: host=localhost port=5432 user=postgres dbname=mydb"
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return schema.Float64Ptr(v.Float64)
}

func floatPtrArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
