package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Get returns the singleton DuckDB connection for ad-hoc listing queries.
func Get(cfg Config) (*sql.DB, error) {
	once.Do(func() {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create duckdb directory: %w", err)
			return
		}

		dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
		instance, initErr = sql.Open("duckdb", dbPath)
		if initErr != nil {
			return
		}

		// Load extensions
		extensions := []string{"json", "spatial"}
		for _, ext := range extensions {
			if _, err := instance.Exec(fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
				// Extensions might already be installed, continue
			}
		}
	})
	return instance, initErr
}

// RegisterListings (re)creates a queryable view over the pipeline's
// listings.json so the /api/v1/query endpoint can aggregate over it.
func RegisterListings(conn *sql.DB, listingsPath string) error {
	if conn == nil {
		return fmt.Errorf("no database connection")
	}
	if _, err := os.Stat(listingsPath); err != nil {
		return fmt.Errorf("listings file: %w", err)
	}
	stmt := fmt.Sprintf(
		"CREATE OR REPLACE VIEW listings AS SELECT * FROM read_json_auto('%s')",
		listingsPath,
	)
	if _, err := conn.Exec(stmt); err != nil {
		return fmt.Errorf("register listings view: %w", err)
	}
	return nil
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}
