package httpclient

import (
	"net/http"
	"time"

	"storefront/internal/core/logger"

	"go.uber.org/zap"
)

// UserAgent identifies storefront clients to the API.
const UserAgent = "storefront-client/1.0"

// LoggingRoundTripper logs every outbound request and stamps the user agent.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Logger receives the request logs.
	Logger *zap.Logger
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}

	start := time.Now()
	log := lrt.Logger.With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		log.Warn("HTTP request failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	log.Debug("HTTP request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.String("ray_id", resp.Header.Get("X-Ray-ID")),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
			Logger:  logger.Named("httpclient"),
		},
		Timeout: timeout,
	}
}
