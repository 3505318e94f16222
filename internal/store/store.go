// Package store supplements §3's "blacklist loaded once at startup" with a
// second, optional source: a SQLite-backed blacklist table, following the
// teacher's internal/database package's Open/runMigrations pattern but
// trimmed to the single table this repository actually needs. When
// configured, the domains it returns are merged with the inline
// configuration-file list (internal/blacklist.Merge) before the merged set
// becomes immutable for the process lifetime — this is an alternate
// source, not a reload protocol (§9).
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding the persisted blacklist.
type Store struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// Open opens or creates a SQLite database at path and brings its schema up
// to date via golang-migrate against the embedded migration set.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.runMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) runMigrations() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(s.conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// AddDomain inserts domain into the persisted blacklist. Re-adding an
// existing domain is a no-op.
func (s *Store) AddDomain(domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec("INSERT OR IGNORE INTO blacklist (domain) VALUES (?)", domain)
	if err != nil {
		return fmt.Errorf("store: adding domain %s: %w", domain, err)
	}
	return nil
}

// RemoveDomain deletes domain from the persisted blacklist.
func (s *Store) RemoveDomain(domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec("DELETE FROM blacklist WHERE domain = ?", domain)
	if err != nil {
		return fmt.Errorf("store: removing domain %s: %w", domain, err)
	}
	return nil
}

// Domains returns every persisted blacklist entry, lexically ordered.
func (s *Store) Domains() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query("SELECT domain FROM blacklist ORDER BY domain")
	if err != nil {
		return nil, fmt.Errorf("store: querying domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("store: scanning domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating domains: %w", err)
	}
	return domains, nil
}
