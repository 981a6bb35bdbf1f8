package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nearest-hub-service/internal/domain"
)

// SQLite backed variant of the hub repository for local runs and tests.
// Shape matches SQLHubRepository; only placeholders and schema differ.
type SqliteHubRepository struct {
	DB *sql.DB
}

func NewSqliteHubRepository(db *sql.DB) *SqliteHubRepository {
	return &SqliteHubRepository{DB: db}
}

// Retrieve all active hubs that carry a coordinate.
func (r *SqliteHubRepository) ListActiveHubs(ctx context.Context) ([]domain.Hub, error) {
	if r.DB == nil {
		return nil, errors.New("hub repository: db is nil")
	}

	q := `
	SELECT id, name, code, city, country, lat, lon
	FROM hubs
	WHERE active = 1
		AND lat IS NOT NULL
		AND lon IS NOT NULL;
	`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list active hubs: query hubs table: %w", err)
	}
	defer rows.Close()

	hubs := make([]domain.Hub, 0)
	for rows.Next() {
		var h domain.Hub
		var lat, lon float64
		if err := rows.Scan(&h.ID, &h.Name, &h.Code, &h.City, &h.Country, &lat, &lon); err != nil {
			return nil, fmt.Errorf("list active hubs: scan rows: %w", err)
		}
		h.Active = true
		h.Coord = &domain.Coordinate{
			Lat:        lat,
			Lon:        lon,
			Source:     domain.SourcePersisted,
			Confidence: 1,
		}
		if !h.Coord.Valid() {
			continue
		}
		hubs = append(hubs, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active hubs: row iteration: %w", err)
	}

	return hubs, nil
}

// Find a previously persisted coordinate for any entity in the same
// city/country.
func (r *SqliteHubRepository) FindCityCoordinate(ctx context.Context, city, country string) (domain.Coordinate, bool, error) {
	if r.DB == nil {
		return domain.Coordinate{}, false, errors.New("hub repository: db is nil")
	}

	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if city == "" || country == "" {
		return domain.Coordinate{}, false, errors.New("find city coordinate: city and country must be non-empty")
	}

	q := `
	SELECT lat, lon
	FROM entity_coordinates
	WHERE LOWER(city) = LOWER(?)
		AND LOWER(country) = LOWER(?)
	LIMIT 1;
	`

	var lat, lon float64
	err := r.DB.QueryRowContext(ctx, q, city, country).Scan(&lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("find city coordinate: query entity_coordinates: %w", err)
	}

	coord := domain.Coordinate{
		Lat:        lat,
		Lon:        lon,
		Source:     domain.SourcePersisted,
		Confidence: 1,
	}
	if !coord.Valid() {
		return domain.Coordinate{}, false, nil
	}
	return coord, true, nil
}

// Store a resolved coordinate against an entity row, keyed by the
// city/country it was resolved for so FindCityCoordinate can serve it.
func (r *SqliteHubRepository) UpdateEntityCoordinate(ctx context.Context, entityType, entityID, city, country string, coord domain.Coordinate) error {
	if r.DB == nil {
		return errors.New("hub repository: db is nil")
	}
	if strings.TrimSpace(entityType) == "" || strings.TrimSpace(entityID) == "" {
		return errors.New("update entity coordinate: entity type and id must be non-empty")
	}
	if strings.TrimSpace(city) == "" || strings.TrimSpace(country) == "" {
		return errors.New("update entity coordinate: city and country must be non-empty")
	}
	if !coord.Valid() {
		return errors.New("update entity coordinate: refusing to store invalid coordinate")
	}

	q := `
	INSERT INTO entity_coordinates (entity_type, entity_id, city, country, lat, lon)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (entity_type, entity_id) DO UPDATE
	SET city = excluded.city,
		country = excluded.country,
		lat = excluded.lat,
		lon = excluded.lon;
	`

	if _, err := r.DB.ExecContext(ctx, q, entityType, entityID, strings.TrimSpace(city), strings.TrimSpace(country), coord.Lat, coord.Lon); err != nil {
		return fmt.Errorf("update entity coordinate %s/%s: %w", entityType, entityID, err)
	}
	return nil
}
