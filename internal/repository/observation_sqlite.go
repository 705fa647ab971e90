package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

// SQLiteObservationRepository stores observations in a local SQLite file.
// Timestamps are stored as Unix nanoseconds so range scans compare integers.
type SQLiteObservationRepository struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (and if needed creates) the database at path.
// ":memory:" selects a shared-cache in-memory database.
func OpenSQLite(path, table string) (*SQLiteObservationRepository, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	r := &SQLiteObservationRepository{db: db, table: table}
	if err := r.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Migrate creates the observations table and its indexes if they don't exist
func (r *SQLiteObservationRepository) Migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id TEXT PRIMARY KEY,
		device_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		bristol_score INTEGER,
		hydration_index REAL,
		volume_estimate TEXT,
		flags TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_timestamp ON %[1]s(timestamp);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_device ON %[1]s(device_id, timestamp);
	`, r.table)

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteObservationRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteObservationRepository) GetByDateRange(ctx context.Context, start, end time.Time, deviceID string) ([]models.Observation, error) {
	query := fmt.Sprintf(`SELECT id, device_id, timestamp, bristol_score, hydration_index,
		volume_estimate, flags, created_at FROM %s WHERE timestamp >= ? AND timestamp <= ?`, r.table)
	args := []any{start.UnixNano(), end.UnixNano()}
	if deviceID != "" {
		query += " AND device_id = ?"
		args = append(args, deviceID)
	}
	query += " ORDER BY timestamp ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	observations := make([]models.Observation, 0)
	for rows.Next() {
		var (
			id, device  string
			ts, created int64
			score       sql.NullInt64
			hydration   sql.NullFloat64
			volume      sql.NullString
			rawFlags    string
		)
		if err := rows.Scan(&id, &device, &ts, &score, &hydration, &volume, &rawFlags, &created); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}

		var flags []string
		if err := json.Unmarshal([]byte(rawFlags), &flags); err != nil {
			return nil, fmt.Errorf("decode flags for %s: %w", id, err)
		}

		var scorePtr *int
		if score.Valid {
			v := int(score.Int64)
			scorePtr = &v
		}
		var hydrationPtr *float64
		if hydration.Valid {
			hydrationPtr = &hydration.Float64
		}
		var volumePtr *string
		if volume.Valid {
			volumePtr = &volume.String
		}

		observations = append(observations, buildObservation(id, device, time.Unix(0, ts),
			scorePtr, hydrationPtr, volumePtr, flags, time.Unix(0, created)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return observations, nil
}

func (r *SQLiteObservationRepository) Create(ctx context.Context, obs *models.Observation) (*models.Observation, error) {
	flags := obs.Flags
	if flags == nil {
		flags = []string{}
	}
	rawFlags, err := json.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("encode flags: %w", err)
	}

	var score sql.NullInt64
	if obs.BristolScore != nil {
		score = sql.NullInt64{Int64: int64(*obs.BristolScore), Valid: true}
	}
	var hydration sql.NullFloat64
	if obs.HydrationIndex != nil {
		hydration = sql.NullFloat64{Float64: *obs.HydrationIndex, Valid: true}
	}
	var volume sql.NullString
	if obs.VolumeEstimate != nil {
		volume = sql.NullString{String: string(*obs.VolumeEstimate), Valid: true}
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (id, device_id, timestamp, bristol_score, hydration_index,
		volume_estimate, flags, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.table)
	_, err = r.db.ExecContext(ctx, stmt, obs.ID, obs.DeviceID, obs.Timestamp.UnixNano(),
		score, hydration, volume, string(rawFlags), obs.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert observation: %w", err)
	}

	created := buildObservation(obs.ID, obs.DeviceID, obs.Timestamp, obs.BristolScore,
		obs.HydrationIndex, volumeString(obs.VolumeEstimate), flags, obs.CreatedAt)
	return &created, nil
}

func (r *SQLiteObservationRepository) ListDevices(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT device_id FROM %s ORDER BY device_id ASC", r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	devices := make([]string, 0)
	for rows.Next() {
		var device string
		if err := rows.Scan(&device); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}
