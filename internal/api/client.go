package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthError indicates the API token was rejected (HTTP 401).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Error is a non-2xx response from the backend with its decoded message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// maxRetries bounds the retry loop for rate-limited or flaky requests.
const maxRetries = 3

// Client is a thin HTTP client for the hostel management REST API.
// It handles Bearer token authentication, JSON marshaling, request
// correlation IDs, and automatic retry with exponential backoff on
// HTTP 429 (and 5xx for idempotent reads).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new API client. The baseURL should be the root
// of the REST API (e.g. https://hostel.example.edu/api). The token is
// a bearer token passed through on every request.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Patch performs an HTTP PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// retries, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path
	requestID := uuid.NewString()
	retryWait := noRetryAfter

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	operation := func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return backoff.Permanent(
				fmt.Errorf("executing request %s %s: %w", method, path, err),
			)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return backoff.Permanent(
				fmt.Errorf("reading response body: %w", readErr),
			)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if wait, ok := retryAfter(resp); ok {
				retryWait = wait
			}
			return fmt.Errorf("rate limited (429) on %s %s", method, path)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return backoff.Permanent(&AuthError{
				Message: "check your API token for " + c.baseURL,
			})
		}

		if resp.StatusCode >= 500 && method == http.MethodGet {
			return fmt.Errorf(
				"server error (%d) on %s %s", resp.StatusCode, method, path,
			)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(&Error{
				Status:  resp.StatusCode,
				Message: decodeErrorMessage(respBody),
			})
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return backoff.Permanent(fmt.Errorf(
				"unmarshaling response from %s %s: %w", method, path, err,
			))
		}

		return nil
	}

	bo := backoff.WithContext(
		&retryAfterBackOff{
			BackOff: backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries),
			wait:    &retryWait,
		},
		ctx,
	)
	if err := backoff.Retry(operation, bo); err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// noRetryAfter marks that the last response carried no usable
// Retry-After header.
const noRetryAfter = time.Duration(-1)

// retryAfterBackOff substitutes the server's Retry-After duration for
// the next interval when a 429 response carried one. The wrapped
// schedule still advances underneath so the retry budget is unchanged.
type retryAfterBackOff struct {
	backoff.BackOff
	wait *time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if *b.wait >= 0 {
		d := *b.wait
		*b.wait = noRetryAfter
		if next != backoff.Stop {
			return d
		}
	}
	return next
}

// retryAfter reads the Retry-After header from a 429 response.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// decodeErrorMessage extracts a human-readable message from an error
// response body, falling back to the raw body.
func decodeErrorMessage(body []byte) string {
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Err != "" {
			return errResp.Err
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "no details provided"
	}
	return msg
}
