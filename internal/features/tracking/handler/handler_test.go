package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/core/server"
	"storefront/internal/features/tracking/domain"
	"storefront/internal/features/tracking/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTrackingProvider is a mock implementation of TrackingProvider.
type MockTrackingProvider struct {
	mock.Mock
}

func (m *MockTrackingProvider) GetTracking(ctx context.Context, orderID string) (*domain.OrderTracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderTracking), args.Error(1)
}

func setupApp(p TrackingProvider) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	NewTrackingHandler(p).Register(app)
	return app
}

func TestTrackingHandler_GetTracking(t *testing.T) {
	tests := []struct {
		name       string
		orderID    string
		result     *domain.OrderTracking
		err        error
		wantStatus int
	}{
		{name: "Found", orderID: "o-1", result: &domain.OrderTracking{OrderID: "o-1", Status: domain.StatusShipped, Progress: 65}, wantStatus: http.StatusOK},
		{name: "NotFound", orderID: "o-2", err: ports.ErrTrackingNotFound, wantStatus: http.StatusNotFound},
		{name: "Internal", orderID: "o-3", err: errors.New("redis down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockTrackingProvider)
			if tt.result != nil {
				provider.On("GetTracking", mock.Anything, tt.orderID).Return(tt.result, nil)
			} else {
				provider.On("GetTracking", mock.Anything, tt.orderID).Return(nil, tt.err)
			}

			resp, err := setupApp(provider).Test(httptest.NewRequest("GET", "/tracking/"+tt.orderID, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusOK {
				var out domain.OrderTracking
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
				assert.Equal(t, 65, out.Progress)
				return
			}

			var out server.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, []string{server.ActionRetry, server.ActionBack}, out.Actions)
			assert.Equal(t, "test-ray-id", out.RayID)
			provider.AssertExpectations(t)
		})
	}
}
