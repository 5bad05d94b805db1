package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/strideloop/strideloop/internal/api/models"
)

// DeviceIDHeader carries the client's installation identifier. There are no
// user accounts; saved routes are scoped to this ID.
const DeviceIDHeader = "X-Device-Id"

// deviceIDKey is the context key for the device ID.
type deviceIDKey struct{}

// deviceIDPattern bounds device IDs to a sane shape.
var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// DeviceID extracts the X-Device-Id header and adds it to the request
// context. Requests without a valid device ID are rejected.
func DeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get(DeviceIDHeader)
		if !deviceIDPattern.MatchString(deviceID) {
			traceID := GetRequestID(r.Context())
			problem := models.NewBadRequest(traceID, "a valid X-Device-Id header is required", []models.FieldError{
				{Field: "X-Device-Id", Message: "must be 8-64 characters of [A-Za-z0-9_-]"},
			})
			problem.Instance = r.URL.Path
			problem.Write(w)
			return
		}

		ctx := context.WithValue(r.Context(), deviceIDKey{}, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDeviceID retrieves the device ID from the context.
func GetDeviceID(ctx context.Context) string {
	if id, ok := ctx.Value(deviceIDKey{}).(string); ok {
		return id
	}
	return ""
}
