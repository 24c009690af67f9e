// Package settings is the key-value settings collaborator: it persists
// host-application flags, custom object dimension catalog entries, and a
// durable per-session frame log for diagnostics. The engine itself never
// touches the database; composition roots read settings at startup and
// merge custom catalog entries into the estimator configuration.
package settings

import (
	"database/sql"
	_ "embed"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/waypath-data/waypath/internal/monitoring"
	"github.com/waypath-data/waypath/internal/vision"
)

// Well-known setting keys.
const (
	KeyObstacleAvoidanceEnabled = "obstacle_avoidance_enabled"
	KeyShowDepthOverlay         = "show_depth_overlay"
	KeyDisplayUnits             = "display_units"
)

// schema.sql contains the SQL statements for creating the settings schema.
//
//go:embed schema.sql
var schemaSQL string

// Store wraps the sqlite database holding settings and diagnostics.
type Store struct {
	*sql.DB
}

// NewStore opens (creating if necessary) the settings database at path and
// ensures the schema exists. Use ":memory:" for tests.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise settings schema: %w", err)
	}

	monitoring.Logf("initialized settings database at %s", path)
	return &Store{db}, nil
}

// GetString returns the value for key, or fallback when unset.
func (s *Store) GetString(key, fallback string) (string, error) {
	var value string
	err := s.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, nil
}

// SetString stores a value for key, replacing any previous value.
func (s *Store) SetString(key, value string) error {
	_, err := s.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// GetBool returns the boolean value for key, or fallback when unset or
// unparseable.
func (s *Store) GetBool(key string, fallback bool) (bool, error) {
	raw, err := s.GetString(key, strconv.FormatBool(fallback))
	if err != nil {
		return fallback, err
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, nil
	}
	return value, nil
}

// SetBool stores a boolean value for key.
func (s *Store) SetBool(key string, value bool) error {
	return s.SetString(key, strconv.FormatBool(value))
}

// All returns every stored setting as a key->value map.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

// UpsertCatalogEntry stores a custom object dimension entry. Labels are
// stored as given; lookups through vision.Catalog are case-insensitive.
func (s *Store) UpsertCatalogEntry(label string, dims vision.ObjectDimensions) error {
	var depth interface{}
	if dims.Depth != nil {
		depth = *dims.Depth
	}
	_, err := s.Exec(`
		INSERT INTO catalog_entries (label, width_meters, height_meters, depth_meters)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET
			width_meters = excluded.width_meters,
			height_meters = excluded.height_meters,
			depth_meters = excluded.depth_meters,
			updated_at = CURRENT_TIMESTAMP`,
		label, dims.Width, dims.Height, depth)
	if err != nil {
		return fmt.Errorf("failed to upsert catalog entry %q: %w", label, err)
	}
	return nil
}

// CustomCatalogEntries returns all persisted catalog entries, ready to merge
// into the built-in catalog with Catalog.WithEntries.
func (s *Store) CustomCatalogEntries() (map[string]vision.ObjectDimensions, error) {
	rows, err := s.Query(`SELECT label, width_meters, height_meters, depth_meters FROM catalog_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]vision.ObjectDimensions)
	for rows.Next() {
		var label string
		var width, height float64
		var depth sql.NullFloat64
		if err := rows.Scan(&label, &width, &height, &depth); err != nil {
			return nil, err
		}
		dims := vision.ObjectDimensions{Width: width, Height: height}
		if depth.Valid {
			d := depth.Float64
			dims.Depth = &d
		}
		out[label] = dims
	}
	return out, rows.Err()
}

// StartSession creates a new diagnostics session and returns its ID.
func (s *Store) StartSession(startedUnixNanos int64, notes string) (string, error) {
	sessionID := uuid.New().String()
	_, err := s.Exec(`
		INSERT INTO sessions (session_id, started_unix_nanos, notes)
		VALUES (?, ?, ?)`,
		sessionID, startedUnixNanos, notes)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	return sessionID, nil
}

// EndSession closes a diagnostics session.
func (s *Store) EndSession(sessionID string, endedUnixNanos int64) error {
	_, err := s.Exec(`
		UPDATE sessions SET ended_unix_nanos = ? WHERE session_id = ?`,
		endedUnixNanos, sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session %s: %w", sessionID, err)
	}
	return nil
}

// RecordFrame appends one frame outcome to the session's frame log.
// The min depth is stored as NULL when the frame had no in-range obstacle.
func (s *Store) RecordFrame(sessionID string, unixNanos int64, outcome vision.FrameOutcome) error {
	var minDepth interface{}
	if !math.IsInf(outcome.MinDepthMeters, 1) {
		minDepth = outcome.MinDepthMeters
	}
	_, err := s.Exec(`
		INSERT INTO frame_log (session_id, unix_nanos, estimation_count, min_depth_meters, central_clear, feedback)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, unixNanos, len(outcome.Results), minDepth,
		boolToInt(outcome.CentralColumnClear), outcome.Fired.String())
	if err != nil {
		return fmt.Errorf("failed to record frame: %w", err)
	}
	return nil
}

// SessionFrameCount returns the number of logged frames for a session.
func (s *Store) SessionFrameCount(sessionID string) (int64, error) {
	var count int64
	err := s.QueryRow(`SELECT COUNT(*) FROM frame_log WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count frames for session %s: %w", sessionID, err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
