// Package botclient talks to the external card-rating service that drives
// non-human seats. The client is stateless request/response; service or
// transport failures surface as a typed error so the state machine can
// fall back to random selection instead of retrying in the hot path.
package botclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// SeatState is one seat's view sent to the rating service: the oracle IDs
// of the cards currently face-up and the oracle IDs already picked.
type SeatState struct {
	Pack  []string `json:"pack"`
	Picks []string `json:"picks"`
}

// Request is the prediction request, one entry per seat in seat order.
type Request struct {
	Inputs []SeatState `json:"inputs"`
}

// Rating is one scored card in a prediction response.
type Rating struct {
	Oracle string  `json:"oracle"`
	Rating float64 `json:"rating"`
}

// Response carries one ranked list per seat, in request order. A response
// may omit identifiers; omitted cards are treated as unrated.
type Response struct {
	Prediction [][]Rating `json:"prediction"`
}

// SeatRatings flattens one seat's prediction into an oracle-to-rating map.
// Returns nil when the response has no entry for the seat.
func (r *Response) SeatRatings(seat int) map[string]float64 {
	if seat < 0 || seat >= len(r.Prediction) {
		return nil
	}
	ratings := make(map[string]float64, len(r.Prediction[seat]))
	for _, entry := range r.Prediction[seat] {
		ratings[entry.Oracle] = entry.Rating
	}
	return ratings
}

// PredictionUnavailableError wraps a transport or service failure. It is
// distinct from "no ratings yet": the state machine recovers locally with
// the random-fallback policy and the failure is logged, never surfaced.
type PredictionUnavailableError struct {
	Err error
}

func (e *PredictionUnavailableError) Error() string {
	return fmt.Sprintf("prediction unavailable: %v", e.Err)
}

func (e *PredictionUnavailableError) Unwrap() error {
	return e.Err
}

// Client is the boundary interface to the rating service.
type Client interface {
	Predict(ctx context.Context, req Request) (*Response, error)
}

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the rating service endpoint.
	BaseURL string

	// RequestTimeout bounds each prediction request. Timeouts resolve to
	// the random-fallback path rather than blocking the step queue.
	RequestTimeout time.Duration

	// MaxRetries is the number of retries for failed requests.
	MaxRetries int

	// RequestsPerSecond rate-limits outgoing predictions.
	RequestsPerSecond float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "http://localhost:8500",
		RequestTimeout:    10 * time.Second,
		MaxRetries:        2,
		RequestsPerSecond: 4,
	}
}

// HTTPClient implements Client over HTTP with a request rate limiter.
type HTTPClient struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a client for the rating service.
func NewHTTPClient(config *Config) *HTTPClient {
	if config == nil {
		config = DefaultConfig()
	}
	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// Predict posts the per-seat draft state and decodes the ranked ratings.
// Any transport, status, or decode failure is returned as a
// *PredictionUnavailableError after retries are exhausted.
func (c *HTTPClient) Predict(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &PredictionUnavailableError{Err: err}
		}

		resp, err := c.doPredict(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return nil, &PredictionUnavailableError{Err: lastErr}
}

func (c *HTTPClient) doPredict(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/draft", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("prediction failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var prediction Response
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &prediction, nil
}
