package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/core/server"
	"storefront/internal/features/tracking/domain"
	"storefront/internal/features/tracking/ports"
)

// HTTPProvider reads tracking from a remote storefront API.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider for the API at baseURL.
// The client is expected to come from httpclient.NewClient.
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// GetTracking fetches GET /tracking/{orderId}.
func (p *HTTPProvider) GetTracking(ctx context.Context, orderID string) (*domain.OrderTracking, error) {
	endpoint := p.baseURL + "/tracking/" + url.PathEscape(orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ports.ErrTrackingNotFound, orderID)
	default:
		var apiErr server.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("tracking api returned %d: %s (ray %s)", resp.StatusCode, apiErr.Message, apiErr.RayID)
		}
		return nil, fmt.Errorf("tracking api returned %d", resp.StatusCode)
	}

	var tracking domain.OrderTracking
	if err := json.NewDecoder(resp.Body).Decode(&tracking); err != nil {
		return nil, fmt.Errorf("failed to decode tracking: %w", err)
	}
	return &tracking, nil
}
