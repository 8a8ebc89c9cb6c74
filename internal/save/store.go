package save

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/hollowmoor/duskmud/internal/logger"
)

// ErrNotFound is returned when no snapshot exists for a player.
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshots in a single table, one row per player.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the snapshot store. For SQLite the DSN is a file path and
// the parent directory is created; for PostgreSQL it is a connection string.
func Open(dialectType DialectType, dsn string) (*Store, error) {
	dialect := NewDialect(dialectType)

	if dialectType == DialectSQLite {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the snapshot table if it doesn't exist.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		player_name TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Save upserts a player's snapshot.
func (s *Store) Save(snap *Snapshot) error {
	if snap == nil || snap.PlayerName == "" {
		return fmt.Errorf("snapshot must name a player")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO snapshots (player_name, data, updated_at)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT(player_name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2))

	if _, err := s.db.Exec(query, normalizeName(snap.PlayerName), string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	logger.Debug("Saved snapshot", "player", snap.PlayerName, "bytes", len(data))
	return nil
}

// Load returns a player's snapshot, or ErrNotFound.
func (s *Store) Load(playerName string) (*Snapshot, error) {
	query := fmt.Sprintf("SELECT data FROM snapshots WHERE player_name = %s",
		s.dialect.Placeholder(1))

	var data string
	err := s.db.QueryRow(query, normalizeName(playerName)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a player's snapshot. Deleting a missing snapshot is not an
// error.
func (s *Store) Delete(playerName string) error {
	query := fmt.Sprintf("DELETE FROM snapshots WHERE player_name = %s",
		s.dialect.Placeholder(1))
	_, err := s.db.Exec(query, normalizeName(playerName))
	return err
}
