package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/strideloop/strideloop/internal/api/models"
	"github.com/strideloop/strideloop/internal/api/response"
	"github.com/strideloop/strideloop/internal/favorites"
	"github.com/strideloop/strideloop/internal/generator"
	"github.com/strideloop/strideloop/internal/gpx"
	"github.com/strideloop/strideloop/internal/routing"
	"github.com/strideloop/strideloop/pkg/polyline"
)

// MaxTargetDistanceMiles bounds generation requests to plausible loops.
const MaxTargetDistanceMiles = 100

// RoutesHandler handles route generation and saved-route endpoints.
type RoutesHandler struct {
	generator generator.Generator
	favorites *favorites.Service
	logger    zerolog.Logger
}

// NewRoutesHandler creates a new RoutesHandler.
func NewRoutesHandler(gen generator.Generator, favSvc *favorites.Service, logger zerolog.Logger) *RoutesHandler {
	return &RoutesHandler{
		generator: gen,
		favorites: favSvc,
		logger:    logger,
	}
}

// GenerateRoute handles POST /v1/routes:generate - generate a closed loop.
func (h *RoutesHandler) GenerateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validateGenerateInput(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid generation request", fieldErrors)
		return
	}

	origin := routing.Coordinate{Lat: input.Origin.Lat, Lon: input.Origin.Lon}
	prefs := toPreferences(&input)

	route, err := h.generator.GenerateRoute(r.Context(), origin, input.TargetDistanceMiles, prefs)
	if err != nil {
		h.writeGenerateError(w, r, err)
		return
	}

	points := make([]polyline.Coordinate, len(route.Points))
	for i, p := range route.Points {
		points[i] = polyline.Coordinate{Lat: p.Lat, Lon: p.Lon}
	}

	resp := models.GeneratedRoute{
		ID:                route.ID,
		Name:              route.Name,
		DistanceMiles:     route.DistanceMiles,
		ElevationGainFeet: route.ElevationGainFeet,
		Surface:           toAPISurface(route.Surface),
		GeometryPolyline:  polyline.Encode(points),
		CreatedAt:         models.Timestamp(route.CreatedAt),
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// writeGenerateError maps generation failures onto HTTP problem responses.
func (h *RoutesHandler) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	var cooldown *generator.CooldownError

	switch {
	case errors.Is(err, context.Canceled):
		// The client went away or a newer generation superseded this one.
		response.Conflict(w, r, "generation superseded by a newer request")
	case errors.As(err, &cooldown):
		// Remaining cooldown rounded up to whole seconds.
		seconds := int((cooldown.Remaining + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		response.TooManyRequests(w, r, fmt.Sprintf("directions provider is rate limited, retry in %ds", seconds))
	case errors.Is(err, generator.ErrRateLimited):
		response.TooManyRequests(w, r, "directions provider is rate limited, try again later")
	case errors.Is(err, generator.ErrInvalidDistance),
		errors.Is(err, generator.ErrAllAttemptsFailed),
		errors.Is(err, routing.ErrNoPath):
		response.Unprocessable(w, r, "no loop close enough to the target distance could be found at this location")
	case errors.Is(err, routing.ErrInvalidCoordinates):
		response.BadRequest(w, r, "origin is outside the valid coordinate range", nil)
	default:
		h.logger.Error().Err(err).Msg("route generation failed")
		response.InternalError(w, r, "route generation failed")
	}
}

// ListRoutes handles GET /v1/routes - list saved routes for the device.
func (h *RoutesHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 200", nil)
			return
		}
		limit = parsed
	}

	result, err := h.favorites.List(r.Context(), deviceID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing saved routes failed")
		response.InternalError(w, r, "listing saved routes failed")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// SaveRoute handles POST /v1/routes - persist a generated route.
func (h *RoutesHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	var input models.RouteSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	saved, err := h.favorites.Save(r.Context(), deviceID, &input)
	if err != nil {
		var validationErr *favorites.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid route", validationErr.Errors)
			return
		}
		h.logger.Error().Err(err).Msg("saving route failed")
		response.InternalError(w, r, "saving route failed")
		return
	}

	location := fmt.Sprintf("/v1/routes/%s", saved.ID)
	response.Created(w, r, location, saved)
}

// GetRoute handles GET /v1/routes/{routeId} - get a saved route.
func (h *RoutesHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())
	routeID := chi.URLParam(r, "routeId")

	route, err := h.favorites.Get(r.Context(), deviceID, routeID)
	if err != nil {
		if errors.Is(err, favorites.ErrRouteNotFound) {
			response.NotFound(w, r, "route not found")
			return
		}
		h.logger.Error().Err(err).Msg("fetching saved route failed")
		response.InternalError(w, r, "fetching saved route failed")
		return
	}
	response.JSON(w, r, http.StatusOK, route)
}

// UpdateRoute handles PATCH /v1/routes/{routeId} - rename or toggle favorite.
func (h *RoutesHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())
	routeID := chi.URLParam(r, "routeId")

	var input models.RouteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	route, err := h.favorites.Update(r.Context(), deviceID, routeID, &input)
	if err != nil {
		var validationErr *favorites.ValidationError
		switch {
		case errors.Is(err, favorites.ErrRouteNotFound):
			response.NotFound(w, r, "route not found")
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "invalid update", validationErr.Errors)
		default:
			h.logger.Error().Err(err).Msg("updating saved route failed")
			response.InternalError(w, r, "updating saved route failed")
		}
		return
	}
	response.JSON(w, r, http.StatusOK, route)
}

// DeleteRoute handles DELETE /v1/routes/{routeId} - delete a saved route.
func (h *RoutesHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())
	routeID := chi.URLParam(r, "routeId")

	if err := h.favorites.Delete(r.Context(), deviceID, routeID); err != nil {
		if errors.Is(err, favorites.ErrRouteNotFound) {
			response.NotFound(w, r, "route not found")
			return
		}
		h.logger.Error().Err(err).Msg("deleting saved route failed")
		response.InternalError(w, r, "deleting saved route failed")
		return
	}
	response.NoContent(w, r)
}

// ExportGPX handles GET /v1/routes/{routeId}/gpx - export a saved route.
func (h *RoutesHandler) ExportGPX(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())
	routeID := chi.URLParam(r, "routeId")

	route, err := h.favorites.Get(r.Context(), deviceID, routeID)
	if err != nil {
		if errors.Is(err, favorites.ErrRouteNotFound) {
			response.NotFound(w, r, "route not found")
			return
		}
		h.logger.Error().Err(err).Msg("fetching saved route failed")
		response.InternalError(w, r, "fetching saved route failed")
		return
	}

	coords := polyline.Decode(route.GeometryPolyline)
	points := make([]gpx.Point, len(coords))
	for i, c := range coords {
		points[i] = gpx.Point{Lat: c.Lat, Lon: c.Lon}
	}

	doc, err := gpx.Encode(gpx.Track{
		Name:              route.Name,
		DistanceMiles:     route.DistanceMiles,
		ElevationGainFeet: route.ElevationGainFeet,
		Surface:           strings.ToLower(string(route.Surface)),
		Points:            points,
		CreatedAt:         route.CreatedAt.Time(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("route_id", routeID).Msg("gpx export failed")
		response.InternalError(w, r, "gpx export failed")
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", routeID+".gpx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// validateGenerateInput validates the generation request.
func validateGenerateInput(input *models.RouteGenerateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Origin.Lat < -90 || input.Origin.Lat > 90 {
		errs = append(errs, models.FieldError{Field: "origin.lat", Message: "must be between -90 and 90"})
	}
	if input.Origin.Lon < -180 || input.Origin.Lon > 180 {
		errs = append(errs, models.FieldError{Field: "origin.lon", Message: "must be between -180 and 180"})
	}

	if input.TargetDistanceMiles <= 0 {
		errs = append(errs, models.FieldError{Field: "targetDistanceMiles", Message: "must be greater than 0"})
	} else if input.TargetDistanceMiles > MaxTargetDistanceMiles {
		errs = append(errs, models.FieldError{Field: "targetDistanceMiles", Message: "must be at most 100"})
	}

	for _, s := range input.Surfaces {
		if s != models.SurfaceRoad && s != models.SurfaceTrail && s != models.SurfaceMixed {
			errs = append(errs, models.FieldError{Field: "surfaces", Message: "must contain only ROAD, TRAIL, MIXED"})
			break
		}
	}

	if input.Elevation != nil {
		e := *input.Elevation
		if e != models.ElevationFlat && e != models.ElevationHilly && e != models.ElevationMixed {
			errs = append(errs, models.FieldError{Field: "elevation", Message: "must be one of FLAT, HILLY, MIXED"})
		}
	}

	return errs
}

// toPreferences maps the API request onto generation preferences.
func toPreferences(input *models.RouteGenerateRequest) generator.Preferences {
	prefs := generator.Preferences{}
	for _, s := range input.Surfaces {
		switch s {
		case models.SurfaceRoad:
			prefs.SurfaceTypes = append(prefs.SurfaceTypes, generator.SurfaceRoad)
		case models.SurfaceTrail:
			prefs.SurfaceTypes = append(prefs.SurfaceTypes, generator.SurfaceTrail)
		case models.SurfaceMixed:
			prefs.SurfaceTypes = append(prefs.SurfaceTypes, generator.SurfaceMixed)
		}
	}
	if input.Elevation != nil {
		switch *input.Elevation {
		case models.ElevationFlat:
			prefs.Elevation = generator.ElevationFlat
		case models.ElevationHilly:
			prefs.Elevation = generator.ElevationHilly
		case models.ElevationMixed:
			prefs.Elevation = generator.ElevationMixed
		}
	}
	return prefs
}

// toAPISurface maps a generator surface onto the API enum.
func toAPISurface(s generator.SurfaceType) models.Surface {
	switch s {
	case generator.SurfaceTrail:
		return models.SurfaceTrail
	case generator.SurfaceMixed:
		return models.SurfaceMixed
	default:
		return models.SurfaceRoad
	}
}
