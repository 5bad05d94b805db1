package favorites

import "context"

// ListOptions contains options for listing saved routes.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing saved routes.
type ListResult struct {
	Items      []*SavedRoute
	NextCursor string
}

// Repository defines the interface for saved route persistence.
type Repository interface {
	// Get retrieves a saved route by ID.
	Get(ctx context.Context, id string) (*SavedRoute, error)

	// GetByDeviceAndID retrieves a saved route by device ID and route ID.
	// Returns ErrRouteNotFound if the route doesn't exist or doesn't belong to the device.
	GetByDeviceAndID(ctx context.Context, deviceID, routeID string) (*SavedRoute, error)

	// List retrieves all saved routes for a device with pagination.
	List(ctx context.Context, deviceID string, opts ListOptions) (*ListResult, error)

	// Create creates a new saved route.
	Create(ctx context.Context, route *SavedRoute) error

	// Update updates an existing saved route.
	Update(ctx context.Context, route *SavedRoute) error

	// Delete deletes a saved route by ID.
	Delete(ctx context.Context, id string) error
}
