// api/http_client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"munch-server/logger"
)

var (
	ErrNotFound    = errors.New("resource_not_found")
	ErrUnavailable = errors.New("upstream_unavailable")
	ErrTimeout     = errors.New("upstream_timeout")
)

const RequestIDHeader = "X-Request-ID"

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type requestIDKey struct{}

// WithRequestID stores the id forwarded to the upstream API.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// HTTPClient struct to hold base URL and HTTP client configuration
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
	headers    map[string]string
}

// NewHTTPClient creates a new instance of HTTPClient with default settings
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		headers: map[string]string{},
	}
}

// SetHeader adds a header sent with every request.
func (c *HTTPClient) SetHeader(key, value string) {
	c.headers[key] = value
}

// Request makes an HTTP request to the API and decodes the response
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, query url.Values, body interface{}, response interface{}) error {
	log := logger.Component("HTTPClient")

	var requestBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		requestBody = bytes.NewReader(jsonBody)
	}

	target := c.BaseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, requestBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("endpoint", endpoint).Str("request_id", requestID).Msg("request failed")
		if isTimeout(err) {
			return fmt.Errorf("%s %s: %w", method, endpoint, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", method, endpoint, ErrUnavailable)
	}
	defer res.Body.Close()

	log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Int("status", res.StatusCode).
		Dur("took", time.Since(start)).
		Msg("upstream request")

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, endpoint, ErrNotFound)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res.StatusCode, resBody)
	}

	if response != nil && len(resBody) > 0 {
		if err := json.Unmarshal(resBody, response); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
		}
	}

	return nil
}

func decodeError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Code != "" {
		return &StatusError{
			StatusCode: status,
			Code:       apiErr.Error.Code,
			Message:    apiErr.Error.Message,
		}
	}
	return &StatusError{
		StatusCode: status,
		Code:       "upstream_error",
		Message:    "unexpected status code: " + http.StatusText(status),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
