package favorites

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL saved-route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a saved route by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*SavedRoute, error) {
	query := `
		SELECT
			id, device_id, name,
			distance_miles, elevation_gain_feet, surface,
			geometry_polyline, favorite,
			created_at, updated_at
		FROM saved_routes
		WHERE id = $1
	`

	return r.scanRoute(ctx, query, id)
}

// GetByDeviceAndID retrieves a saved route by device ID and route ID.
func (r *PostgresRepository) GetByDeviceAndID(ctx context.Context, deviceID, routeID string) (*SavedRoute, error) {
	query := `
		SELECT
			id, device_id, name,
			distance_miles, elevation_gain_feet, surface,
			geometry_polyline, favorite,
			created_at, updated_at
		FROM saved_routes
		WHERE id = $1 AND device_id = $2
	`

	return r.scanRoute(ctx, query, routeID, deviceID)
}

// scanRoute scans a saved route from a query result.
func (r *PostgresRepository) scanRoute(ctx context.Context, query string, args ...interface{}) (*SavedRoute, error) {
	var route SavedRoute

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&route.ID,
		&route.DeviceID,
		&route.Name,
		&route.DistanceMiles,
		&route.ElevationGainFeet,
		&route.Surface,
		&route.GeometryPolyline,
		&route.Favorite,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &route, nil
}

// List retrieves all saved routes for a device with pagination.
func (r *PostgresRepository) List(ctx context.Context, deviceID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT
			id, device_id, name,
			distance_miles, elevation_gain_feet, surface,
			geometry_polyline, favorite,
			created_at, updated_at
		FROM saved_routes
		WHERE device_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, deviceID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*SavedRoute
	for rows.Next() {
		var route SavedRoute
		err := rows.Scan(
			&route.ID,
			&route.DeviceID,
			&route.Name,
			&route.DistanceMiles,
			&route.ElevationGainFeet,
			&route.Surface,
			&route.GeometryPolyline,
			&route.Favorite,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: routes,
	}

	// If we got more results than the limit, there are more pages
	if len(routes) > limit {
		result.Items = routes[:limit]
		// Use the last item's ID as the cursor for the next page
		result.NextCursor = routes[limit-1].ID
	}

	return result, nil
}

// Create creates a new saved route.
func (r *PostgresRepository) Create(ctx context.Context, route *SavedRoute) error {
	query := `
		INSERT INTO saved_routes (
			id, device_id, name,
			distance_miles, elevation_gain_feet, surface,
			geometry_polyline, favorite,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		route.ID,
		route.DeviceID,
		route.Name,
		route.DistanceMiles,
		route.ElevationGainFeet,
		route.Surface,
		route.GeometryPolyline,
		route.Favorite,
		route.CreatedAt,
		route.UpdatedAt,
	)
	return err
}

// Update updates an existing saved route.
func (r *PostgresRepository) Update(ctx context.Context, route *SavedRoute) error {
	query := `
		UPDATE saved_routes SET
			name = $2,
			favorite = $3,
			updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		route.ID,
		route.Name,
		route.Favorite,
		route.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}

	return nil
}

// Delete deletes a saved route by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM saved_routes WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
