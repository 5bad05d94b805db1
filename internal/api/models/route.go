package models

// RouteGenerateRequest is the request body for generating a loop route.
type RouteGenerateRequest struct {
	Origin              Point      `json:"origin" validate:"required"`
	TargetDistanceMiles float64    `json:"targetDistanceMiles" validate:"required,gt=0"`
	Surfaces            []Surface  `json:"surfaces,omitempty" validate:"omitempty,dive,oneof=ROAD TRAIL MIXED"`
	Elevation           *Elevation `json:"elevation,omitempty" validate:"omitempty,oneof=FLAT HILLY MIXED"`
}

// GeneratedRoute is the response for a successful generation.
type GeneratedRoute struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	DistanceMiles     float64   `json:"distanceMiles"`
	ElevationGainFeet float64   `json:"elevationGainFeet"`
	Surface           Surface   `json:"surface"`
	GeometryPolyline  string    `json:"geometryPolyline"`
	Points            []Point   `json:"points,omitempty"`
	CreatedAt         Timestamp `json:"createdAt"`
}

// SavedRoute represents a route persisted for a device.
type SavedRoute struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	DistanceMiles     float64   `json:"distanceMiles"`
	ElevationGainFeet float64   `json:"elevationGainFeet"`
	Surface           Surface   `json:"surface"`
	GeometryPolyline  string    `json:"geometryPolyline"`
	Favorite          bool      `json:"favorite"`
	CreatedAt         Timestamp `json:"createdAt"`
	UpdatedAt         Timestamp `json:"updatedAt"`
}

// PagedRoutes is a paginated list of saved routes.
type PagedRoutes struct {
	Items []SavedRoute      `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// RouteSaveRequest is the request body for saving a generated route.
type RouteSaveRequest struct {
	Name              string  `json:"name" validate:"required,max=80"`
	DistanceMiles     float64 `json:"distanceMiles" validate:"required,gt=0"`
	ElevationGainFeet float64 `json:"elevationGainFeet" validate:"gte=0"`
	Surface           Surface `json:"surface" validate:"required,oneof=ROAD TRAIL MIXED"`
	GeometryPolyline  string  `json:"geometryPolyline" validate:"required"`
	Favorite          bool    `json:"favorite"`
}

// RouteUpdateRequest is the request body for renaming or toggling a saved route.
type RouteUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=80"`
	Favorite *bool   `json:"favorite,omitempty"`
}
