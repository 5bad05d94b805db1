package favorites

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// It backs the service when no database is configured, and tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*SavedRoute
}

// NewInMemoryRepository creates a new in-memory saved-route repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes: make(map[string]*SavedRoute),
	}
}

// Get retrieves a saved route by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*SavedRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}

	cpy := *route
	return &cpy, nil
}

// GetByDeviceAndID retrieves a saved route by device ID and route ID.
func (r *InMemoryRepository) GetByDeviceAndID(_ context.Context, deviceID, routeID string) (*SavedRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[routeID]
	if !ok {
		return nil, ErrRouteNotFound
	}

	if route.DeviceID != deviceID {
		return nil, ErrRouteNotFound
	}

	cpy := *route
	return &cpy, nil
}

// List retrieves all saved routes for a device with pagination.
func (r *InMemoryRepository) List(_ context.Context, deviceID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routes []*SavedRoute
	for _, route := range r.routes {
		if route.DeviceID == deviceID {
			cpy := *route
			routes = append(routes, &cpy)
		}
	}

	// Newest first, matching the database ordering.
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: routes,
	}

	if len(routes) > limit {
		result.Items = routes[:limit]
		result.NextCursor = routes[limit-1].ID
	}

	return result, nil
}

// Create creates a new saved route.
func (r *InMemoryRepository) Create(_ context.Context, route *SavedRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *route
	r.routes[route.ID] = &cpy
	return nil
}

// Update updates an existing saved route.
func (r *InMemoryRepository) Update(_ context.Context, route *SavedRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[route.ID]; !ok {
		return ErrRouteNotFound
	}

	cpy := *route
	r.routes[route.ID] = &cpy
	return nil
}

// Delete deletes a saved route by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.routes, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
