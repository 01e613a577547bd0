package iostore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	store     *SQLStore
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the default SQLite DB file.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// InitStores opens the store for the backend and installs it in the global manager.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		s, err := NewStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		store = s
		Manager.observations = s
		Manager.snapshots = s
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if store != nil {
			_ = store.Close()
		}
	})
}

// ClearStore clears the store for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range []string{snapshotsTable, observationsTable} {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	name, err := driverName(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(name, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
