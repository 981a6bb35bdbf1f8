package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createHubsQuery := `
	CREATE TABLE IF NOT EXISTS hubs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		lat REAL,
		lon REAL,
		active INTEGER NOT NULL DEFAULT 1
	);
	`

	createEntityCoordinatesQuery := `
	CREATE TABLE IF NOT EXISTS entity_coordinates (
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		lat REAL,
		lon REAL,
		PRIMARY KEY (entity_type, entity_id)
	);
	`

	createCityIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_entity_coordinates_city_country
	ON entity_coordinates(city, country);
	`

	statements := []string{
		createHubsQuery,
		createEntityCoordinatesQuery,
		createCityIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type HubSeed struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Active  bool     `json:"active"`
}

// Populate the database with hub data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed hubs: read %q: %w", jsonPath, err)
	}

	var data []HubSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed hubs: parse json: %w", err)
	}

	rows := make([]HubSeed, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("seed hubs: missing id at index %d", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed hubs: hub %q: name cannot be empty", item.ID)
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed hubs: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO hubs (
		id,
		name,
		code,
		city,
		country,
		lat,
		lon,
		active
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed hubs: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range rows {
		active := 0
		if h.Active {
			active = 1
		}
		if _, err := stmt.Exec(h.ID, h.Name, h.Code, h.City, h.Country, h.Lat, h.Lon, active); err != nil {
			return fmt.Errorf("seed hubs: insert id=%q: %w", h.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed hubs: commit tx: %w", err)
	}

	return nil
}
