package favorites_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/strideloop/strideloop/internal/api/models"
	"github.com/strideloop/strideloop/internal/favorites"
)

func validSaveInput() *models.RouteSaveRequest {
	return &models.RouteSaveRequest{
		Name:              "Morning 5k",
		DistanceMiles:     3.1,
		ElevationGainFeet: 164,
		Surface:           models.SurfaceRoad,
		GeometryPolyline:  "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
	}
}

func TestService_Save(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	input := validSaveInput()

	result, err := service.Save(ctx, "device123", input)
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	if result.ID == "" {
		t.Error("expected route ID to be set")
	}
	if !strings.HasPrefix(result.ID, "sav_") {
		t.Errorf("expected route ID to start with 'sav_', got %q", result.ID)
	}
	if result.Name != input.Name {
		t.Errorf("expected name %q, got %q", input.Name, result.Name)
	}
	if result.Surface != models.SurfaceRoad {
		t.Errorf("expected surface ROAD, got %q", result.Surface)
	}
}

func TestService_Save_ValidationErrors(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*models.RouteSaveRequest)
		wantField string
	}{
		{
			name:      "empty name",
			mutate:    func(r *models.RouteSaveRequest) { r.Name = "" },
			wantField: "name",
		},
		{
			name:      "name too long",
			mutate:    func(r *models.RouteSaveRequest) { r.Name = strings.Repeat("a", 81) },
			wantField: "name",
		},
		{
			name:      "zero distance",
			mutate:    func(r *models.RouteSaveRequest) { r.DistanceMiles = 0 },
			wantField: "distanceMiles",
		},
		{
			name:      "absurd distance",
			mutate:    func(r *models.RouteSaveRequest) { r.DistanceMiles = 250 },
			wantField: "distanceMiles",
		},
		{
			name:      "negative elevation",
			mutate:    func(r *models.RouteSaveRequest) { r.ElevationGainFeet = -10 },
			wantField: "elevationGainFeet",
		},
		{
			name:      "unknown surface",
			mutate:    func(r *models.RouteSaveRequest) { r.Surface = "GRAVEL" },
			wantField: "surface",
		},
		{
			name:      "missing geometry",
			mutate:    func(r *models.RouteSaveRequest) { r.GeometryPolyline = "" },
			wantField: "geometryPolyline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSaveInput()
			tt.mutate(input)

			_, err := service.Save(ctx, "device123", input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var validationErr *favorites.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected field error on %q, got %+v", tt.wantField, validationErr.Errors)
			}
		})
	}
}

func TestService_Get(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	result, err := service.Get(ctx, "device123", saved.ID)
	if err != nil {
		t.Fatalf("failed to get route: %v", err)
	}
	if result.ID != saved.ID {
		t.Errorf("expected ID %q, got %q", saved.ID, result.ID)
	}
}

func TestService_Get_WrongDevice(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	_, err = service.Get(ctx, "otherdevice", saved.ID)
	if !errors.Is(err, favorites.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	_, err := service.Get(ctx, "device123", "sav_missing")
	if !errors.Is(err, favorites.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestService_Update_Rename(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	newName := "River loop"
	result, err := service.Update(ctx, "device123", saved.ID, &models.RouteUpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("failed to update route: %v", err)
	}
	if result.Name != newName {
		t.Errorf("expected name %q, got %q", newName, result.Name)
	}
	if result.Favorite != saved.Favorite {
		t.Error("favorite flag should be unchanged by rename")
	}
}

func TestService_Update_ToggleFavorite(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	favorite := true
	result, err := service.Update(ctx, "device123", saved.ID, &models.RouteUpdateRequest{Favorite: &favorite})
	if err != nil {
		t.Fatalf("failed to update route: %v", err)
	}
	if !result.Favorite {
		t.Error("expected favorite to be true")
	}
	if result.Name != saved.Name {
		t.Error("name should be unchanged by favorite toggle")
	}
}

func TestService_Update_EmptyName(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	empty := ""
	_, err = service.Update(ctx, "device123", saved.ID, &models.RouteUpdateRequest{Name: &empty})

	var validationErr *favorites.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_Update_WrongDevice(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	name := "hijacked"
	_, err = service.Update(ctx, "otherdevice", saved.ID, &models.RouteUpdateRequest{Name: &name})
	if !errors.Is(err, favorites.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	if err := service.Delete(ctx, "device123", saved.ID); err != nil {
		t.Fatalf("failed to delete route: %v", err)
	}

	_, err = service.Get(ctx, "device123", saved.ID)
	if !errors.Is(err, favorites.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound after delete, got %v", err)
	}
}

func TestService_Delete_WrongDevice(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	saved, err := service.Save(ctx, "device123", validSaveInput())
	if err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	err = service.Delete(ctx, "otherdevice", saved.ID)
	if !errors.Is(err, favorites.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}

	// The route is still there for its owner.
	if _, err := service.Get(ctx, "device123", saved.ID); err != nil {
		t.Errorf("route should still exist for owner: %v", err)
	}
}

func TestService_List(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		input := validSaveInput()
		if _, err := service.Save(ctx, "device123", input); err != nil {
			t.Fatalf("failed to save route: %v", err)
		}
	}
	if _, err := service.Save(ctx, "otherdevice", validSaveInput()); err != nil {
		t.Fatalf("failed to save route: %v", err)
	}

	result, err := service.List(ctx, "device123", 50)
	if err != nil {
		t.Fatalf("failed to list routes: %v", err)
	}
	if len(result.Items) != 3 {
		t.Errorf("expected 3 routes, got %d", len(result.Items))
	}
}

func TestService_List_Pagination(t *testing.T) {
	repo := favorites.NewInMemoryRepository()
	service := favorites.NewService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := service.Save(ctx, "device123", validSaveInput()); err != nil {
			t.Fatalf("failed to save route: %v", err)
		}
	}

	result, err := service.List(ctx, "device123", 2)
	if err != nil {
		t.Fatalf("failed to list routes: %v", err)
	}
	if len(result.Items) != 2 {
		t.Errorf("expected 2 routes, got %d", len(result.Items))
	}
	if result.Meta.NextCursor == nil {
		t.Error("expected a next cursor")
	}
}
