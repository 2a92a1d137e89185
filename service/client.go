package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cinebook/logging"
	"cinebook/model"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "cinebook-cli"
	maxErrorBody     = 8 << 10
)

// Client wraps HTTP access to the booking platform API. Requests are never
// retried; a failed call is reported and repeating it is up to the user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *log.Logger
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s: %s", e.Status, e.Body)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether the error represents a 409 from the API.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsUnauthorized reports whether the API rejected the credentials or token.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		logger:     logging.Discard(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(logger *log.Logger) *Client {
	if logger != nil {
		c.logger = logger.WithPrefix("api")
	}
	return c
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", req, &out); err != nil {
		return model.AuthResponse{}, err
	}
	return out, nil
}

// Register creates a new account. A 409 means the email is already taken.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return model.AuthResponse{}, err
	}
	return out, nil
}

// UpdateUser replaces the editable profile fields of a user.
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, update model.ProfileUpdate) (model.User, error) {
	if id == 0 {
		return model.User{}, errors.New("user id is required")
	}
	endpoint := fmt.Sprintf("/api/auth/user/%d", id)
	var out model.User
	if err := c.doJSON(ctx, http.MethodPut, endpoint, token, update, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

// UploadProfileImage sends image as the multipart field "image" and returns
// the URL the backend stored it under.
func (c *Client) UploadProfileImage(ctx context.Context, token string, id int64, filename string, image []byte) (string, error) {
	if id == 0 {
		return "", errors.New("user id is required")
	}
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("/api/upload/profile/%d", id)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, token, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out model.UploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ImageUrl == "" {
		return "", errors.New("upload response did not include an image url")
	}
	return out.ImageUrl, nil
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, token string, in any, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, endpoint, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method string, endpoint string, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	endpoint := req.URL.Path
	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", req.Method, "endpoint", endpoint, "err", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	c.logger.Debug("request", "method", req.Method, "endpoint", endpoint, "status", res.StatusCode, "elapsed", time.Since(start))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(snippet)),
			Message:    errorMessage(snippet),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body. Spring
// style backends use "message", others "error".
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	if parsed := gjson.ParseBytes(body); parsed.Type == gjson.String {
		return strings.TrimSpace(parsed.String())
	}
	for _, key := range []string{"message", "error", "detail"} {
		if value := gjson.GetBytes(body, key); value.Exists() && value.Type == gjson.String {
			if msg := strings.TrimSpace(value.String()); msg != "" {
				return msg
			}
		}
	}
	return ""
}
