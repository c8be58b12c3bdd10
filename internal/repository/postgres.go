package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"apptravel/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// PostgresRepository reads the travel tables. The tables are owned by
// another application; nothing here writes to them.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListDestinations returns up to limit destinations with their city name
func (r *PostgresRepository) ListDestinations(ctx context.Context, limit int) ([]model.DestinationSummary, error) {
	query := `
		SELECT d.id, d.title, COALESCE(c.name, '') AS city
		FROM destinations d
		LEFT JOIN cities c ON c.id = d.city_id
		ORDER BY d.id
		LIMIT $1
	`

	destinations := []model.DestinationSummary{}
	if err := r.db.SelectContext(ctx, &destinations, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}

	return destinations, nil
}

// GetDestination returns one destination row
func (r *PostgresRepository) GetDestination(ctx context.Context, id int64) (*model.Destination, error) {
	query := `
		SELECT id, city_id, title, description, avg_price_level, popularity_score, image_url
		FROM destinations
		WHERE id = $1
	`

	var dest model.Destination
	err := r.db.GetContext(ctx, &dest, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}

	return &dest, nil
}

// GetUserPreference returns the stored preferences of a user
func (r *PostgresRepository) GetUserPreference(ctx context.Context, userID int64) (*model.UserPreference, error) {
	query := `
		SELECT user_id, currency, min_budget, max_budget, interests
		FROM user_preferences
		WHERE user_id = $1
	`

	var pref model.UserPreference
	err := r.db.GetContext(ctx, &pref, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user preference: %w", err)
	}

	return &pref, nil
}
