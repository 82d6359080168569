package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver (cgo)
	_ "modernc.org/sqlite"          // SQLite driver (pure Go)
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver name and the default.
	DriverCGO = "sqlite3"
	// DriverPureGo is the modernc.org/sqlite driver name.
	DriverPureGo = "sqlite"
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true, // SQLite also supports EXTRA
}

// ValidDriver reports whether name is a driver OpenDBConnectionWithDriver accepts.
func ValidDriver(name string) bool {
	return name == DriverCGO || name == DriverPureGo
}

// ValidSyncMode reports whether mode is an accepted synchronous pragma value.
func ValidSyncMode(mode string) bool {
	return validSyncModes[strings.ToUpper(mode)]
}

// OpenDBConnection establishes a connection to a SQLite database using the default driver.
// baseDSN is the initial data source name (e.g., file path).
// enableWAL sets the journal_mode to WAL if true.
// syncPragma sets the synchronous pragma (e.g., "OFF", "NORMAL", "FULL", "EXTRA").
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	return OpenDBConnectionWithDriver(DriverCGO, baseDSN, enableWAL, syncPragma)
}

// OpenDBConnectionWithDriver is OpenDBConnection with an explicit driver name.
// The pool is capped at a single connection: every call is serialized, and an
// in-memory database stays the same database across calls.
func OpenDBConnectionWithDriver(driver, baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	if !ValidDriver(driver) {
		return nil, fmt.Errorf("invalid sqlite driver: %s. Must be one of %s, %s", driver, DriverCGO, DriverPureGo)
	}

	ucSyncPragma := strings.ToUpper(syncPragma)
	if syncPragma != "" && !validSyncModes[ucSyncPragma] {
		return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
	}

	constructedDSN := buildDSN(driver, baseDSN, enableWAL, ucSyncPragma)

	db, err := sql.Open(driver, constructedDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", constructedDSN, err)
	}
	db.SetMaxOpenConns(1)

	// Ping the database to ensure the connection is alive and the DSN is valid.
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", constructedDSN, err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign key support for DSN '%s': %w", constructedDSN, err)
	}

	return db, nil
}

// buildDSN appends the journal and sync pragmas in the form each driver understands.
func buildDSN(driver, baseDSN string, enableWAL bool, syncPragma string) string {
	params := url.Values{}

	switch driver {
	case DriverPureGo:
		if enableWAL {
			params.Add("_pragma", "journal_mode(WAL)")
		}
		if syncPragma != "" {
			params.Add("_pragma", fmt.Sprintf("synchronous(%s)", syncPragma))
		}
	default:
		if enableWAL {
			params.Add("_journal_mode", "WAL")
		}
		if syncPragma != "" {
			params.Add("_synchronous", syncPragma)
		}
	}

	if len(params) == 0 {
		return baseDSN
	}
	if strings.Contains(baseDSN, "?") {
		return baseDSN + "&" + params.Encode()
	}
	return baseDSN + "?" + params.Encode()
}
