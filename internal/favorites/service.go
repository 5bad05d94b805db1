package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/strideloop/strideloop/internal/api/models"
)

// Validation constants.
const (
	MaxNameLength = 80

	// MaxDistanceMiles bounds saved distances to plausible running loops.
	MaxDistanceMiles = 100
)

// validSurfaces are the accepted surface classifications.
var validSurfaces = map[models.Surface]bool{
	models.SurfaceRoad:  true,
	models.SurfaceTrail: true,
	models.SurfaceMixed: true,
}

// Service provides saved-route operations.
type Service struct {
	repo Repository
}

// NewService creates a new saved-route service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all saved routes for a device.
func (s *Service) List(ctx context.Context, deviceID string, limit int) (*models.PagedRoutes, error) {
	result, err := s.repo.List(ctx, deviceID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.SavedRoute, 0, len(result.Items))
	for _, route := range result.Items {
		items = append(items, s.toAPIRoute(route))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedRoutes{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a saved route by ID for a device.
func (s *Service) Get(ctx context.Context, deviceID, routeID string) (*models.SavedRoute, error) {
	route, err := s.repo.GetByDeviceAndID(ctx, deviceID, routeID)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	result := s.toAPIRoute(route)
	return &result, nil
}

// Save persists a generated route for a device.
func (s *Service) Save(ctx context.Context, deviceID string, input *models.RouteSaveRequest) (*models.SavedRoute, error) {
	// Validate input
	if fieldErrors := s.validateSaveInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	routeID := "sav_" + uuid.New().String()[:22]

	route := &SavedRoute{
		ID:                routeID,
		DeviceID:          deviceID,
		Name:              input.Name,
		DistanceMiles:     input.DistanceMiles,
		ElevationGainFeet: input.ElevationGainFeet,
		Surface:           string(input.Surface),
		GeometryPolyline:  input.GeometryPolyline,
		Favorite:          input.Favorite,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, route); err != nil {
		return nil, err
	}

	result := s.toAPIRoute(route)
	return &result, nil
}

// Update renames a saved route or toggles its favorite flag.
func (s *Service) Update(ctx context.Context, deviceID, routeID string, input *models.RouteUpdateRequest) (*models.SavedRoute, error) {
	// Get existing route
	route, err := s.repo.GetByDeviceAndID(ctx, deviceID, routeID)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	// Validate input
	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	// Apply updates
	if input.Name != nil {
		route.Name = *input.Name
	}
	if input.Favorite != nil {
		route.Favorite = *input.Favorite
	}
	route.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, route); err != nil {
		return nil, err
	}

	result := s.toAPIRoute(route)
	return &result, nil
}

// Delete deletes a saved route for a device.
func (s *Service) Delete(ctx context.Context, deviceID, routeID string) error {
	// Verify ownership
	_, err := s.repo.GetByDeviceAndID(ctx, deviceID, routeID)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return ErrRouteNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, routeID)
}

// validateSaveInput validates the save route input.
func (s *Service) validateSaveInput(input *models.RouteSaveRequest) []models.FieldError {
	var errs []models.FieldError

	// Validate name
	if input.Name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 80 characters"})
	}

	// Validate distance
	if input.DistanceMiles <= 0 {
		errs = append(errs, models.FieldError{Field: "distanceMiles", Message: "must be greater than 0"})
	} else if input.DistanceMiles > MaxDistanceMiles {
		errs = append(errs, models.FieldError{Field: "distanceMiles", Message: "must be at most 100"})
	}

	// Validate elevation gain
	if input.ElevationGainFeet < 0 {
		errs = append(errs, models.FieldError{Field: "elevationGainFeet", Message: "must not be negative"})
	}

	// Validate surface
	if !validSurfaces[input.Surface] {
		errs = append(errs, models.FieldError{Field: "surface", Message: "must be one of ROAD, TRAIL, MIXED"})
	}

	// Validate geometry
	if input.GeometryPolyline == "" {
		errs = append(errs, models.FieldError{Field: "geometryPolyline", Message: "is required"})
	}

	return errs
}

// validateUpdateInput validates the update route input.
func (s *Service) validateUpdateInput(input *models.RouteUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	// Validate name (optional)
	if input.Name != nil {
		if *input.Name == "" {
			errs = append(errs, models.FieldError{Field: "name", Message: "cannot be empty"})
		} else if len(*input.Name) > MaxNameLength {
			errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 80 characters"})
		}
	}

	return errs
}

// toAPIRoute converts a domain SavedRoute to an API SavedRoute.
func (s *Service) toAPIRoute(route *SavedRoute) models.SavedRoute {
	return models.SavedRoute{
		ID:                route.ID,
		Name:              route.Name,
		DistanceMiles:     route.DistanceMiles,
		ElevationGainFeet: route.ElevationGainFeet,
		Surface:           models.Surface(route.Surface),
		GeometryPolyline:  route.GeometryPolyline,
		Favorite:          route.Favorite,
		CreatedAt:         models.Timestamp(route.CreatedAt),
		UpdatedAt:         models.Timestamp(route.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
