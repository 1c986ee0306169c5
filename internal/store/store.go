package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"weather-dashboard-go/internal/types"
)

// DB wraps the forecast database connection
type DB struct {
	conn *sql.DB
}

// New opens the database at path and initializes the schema
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS forecast_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL UNIQUE,
		max_temp REAL NOT NULL,
		min_temp REAL NOT NULL,
		weather_condition TEXT,
		wind_speed REAL,
		wind_direction REAL,
		wind_chill REAL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_forecast_published ON forecast_data(published);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// InsertForecast stores a row. A row for an already stored date is ignored;
// the returned bool reports whether a row was added.
func (db *DB) InsertForecast(f *types.Forecast) (bool, error) {
	query := `
	INSERT OR IGNORE INTO forecast_data
		(date, max_temp, min_temp, weather_condition, wind_speed, wind_direction, wind_chill, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.conn.Exec(query,
		f.Date, f.MaxTemp, f.MinTemp, nullString(f.WeatherCondition),
		f.WindSpeed, f.WindDirection, f.WindChill, createdAt)
	if err != nil {
		return false, fmt.Errorf("inserting forecast: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Latest returns up to limit rows, newest date first.
func (db *DB) Latest(limit int) ([]types.Forecast, error) {
	return db.query(`
	SELECT id, date, max_temp, min_temp, weather_condition, wind_speed, wind_direction, wind_chill, created_at
	FROM forecast_data
	ORDER BY date DESC
	LIMIT ?
	`, limit)
}

// ListUnpublished returns rows not yet published, oldest first.
func (db *DB) ListUnpublished() ([]types.Forecast, error) {
	return db.query(`
	SELECT id, date, max_temp, min_temp, weather_condition, wind_speed, wind_direction, wind_chill, created_at
	FROM forecast_data
	WHERE published = 0
	ORDER BY date ASC
	`)
}

// MarkPublished marks a row as published
func (db *DB) MarkPublished(id int) error {
	if _, err := db.conn.Exec(`UPDATE forecast_data SET published = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("marking forecast as published: %w", err)
	}
	return nil
}

// Count returns the number of stored rows.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM forecast_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting forecasts: %w", err)
	}
	return n, nil
}

func (db *DB) query(query string, args ...interface{}) ([]types.Forecast, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying forecasts: %w", err)
	}
	defer rows.Close()

	results := []types.Forecast{}
	for rows.Next() {
		var f types.Forecast
		var cond sql.NullString
		var speed, dir, chill sql.NullFloat64
		if err := rows.Scan(&f.ID, &f.Date, &f.MaxTemp, &f.MinTemp, &cond, &speed, &dir, &chill, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		f.WeatherCondition = cond.String
		f.WindSpeed = floatPtr(speed)
		f.WindDirection = floatPtr(dir)
		f.WindChill = floatPtr(chill)
		results = append(results, f)
	}
	return results, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
