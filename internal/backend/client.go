// Package backend is the HTTP client for the remote task REST service.
// The service is authoritative for persistence, validation and
// authorization; this package only shapes requests and normalizes
// failures.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdash/internal/model"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL of the REST backend, e.g. "http://localhost:8000".
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with Timeout
	// is created.
	HTTPClient *http.Client
	// Timeout applies only when HTTPClient is nil.
	Timeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the backend on behalf of any viewer. It carries no
// credentials itself; every call takes the viewer's bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("backend: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("backend: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// doRequest performs a JSON request and returns the raw response body on
// 2xx. Non-2xx responses come back as *APIError; transport failures
// wrap ErrTransport.
func (c *Client) doRequest(ctx context.Context, method, path, token string, query url.Values, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("backend: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	contentType := ""
	if requestBody != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, query, contentType, bodyReader, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, contentType string, body io.Reader, header http.Header) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to create request: %w", err)
	}
	for name, values := range header {
		for _, v := range values {
			request.Header.Add(name, v)
		}
	}
	request.Header.Set("Accept", "application/json")
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	// Without a token the request goes out unauthenticated and the
	// backend decides.
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrTransport, method, path, err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	apiErr := &APIError{
		StatusCode: response.StatusCode,
		Method:     method,
		Path:       path,
		Detail:     NormalizeDetail(responseBody, response.StatusCode),
	}
	c.logger.Debug("backend rejected request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"detail", apiErr.Detail,
	)
	return nil, apiErr
}

func roleQuery(role model.Role, kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	if r := role.Backend(); r != "" {
		q.Set("role", r)
	}
	return q
}

// emptyCollection reports the 404 some list endpoints send instead of
// an empty array.
func emptyCollection(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func decode[T any](body []byte, what string) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("backend: failed to parse %s response: %w", what, err)
	}
	return out, nil
}
