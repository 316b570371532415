// Package apiclient is the transport to the NexusNU REST API: base URL,
// bearer token, JSON and multipart bodies, and error decoding.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

type tokenKey struct{}

// WithToken returns a context that carries the bearer token for outgoing calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token carried by ctx, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// MaxResponseBody caps how much of a response body is read.
const MaxResponseBody = 10 << 20

// ErrBodyTooLarge marks a response body over the read limit.
var ErrBodyTooLarge = fmt.Errorf("%w: response body too large", apperrors.ErrMalformedResponse)

// ReadBody reads at most limit bytes of r. A longer body is ErrBodyTooLarge.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrBodyTooLarge
	}
	return data, nil
}

// Client talks to the NexusNU backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBody    int64
	logger     zerolog.Logger
}

// New creates a Client rooted at baseURL (for example http://localhost:5000/api).
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxBody:    MaxResponseBody,
		logger:     logger,
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AssetURL resolves a backend-relative upload path (e.g. /uploads/x.jpg)
// against the server root, which is the API root without its /api suffix.
func (c *Client) AssetURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	root := strings.TrimSuffix(c.baseURL, "/api")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return root + path
}

// Get sends a GET and decodes the JSON answer into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Delete sends a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// PostMultipart sends fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string][]string, files []File, out any) error {
	return c.doMultipart(ctx, http.MethodPost, path, fields, files, out)
}

// PutMultipart sends fields and files as multipart/form-data.
func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string][]string, files []File, out any) error {
	return c.doMultipart(ctx, http.MethodPut, path, fields, files, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string][]string, files []File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(name, v); err != nil {
				return fmt.Errorf("write field %s: %w", name, err)
			}
		}
	}
	for _, f := range files {
		part, err := mw.CreatePart(fileHeader(f))
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if token := TokenFromContext(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", req.Method).Str("url", req.URL.Path).Msg("Backend request failed")
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Backend request")

	data, err := ReadBody(resp.Body, c.maxBody)
	if errors.Is(err, ErrBodyTooLarge) {
		c.logger.Warn().Str("method", req.Method).Str("url", req.URL.Path).Int64("limit", c.maxBody).Msg("Backend response over size limit")
		return fmt.Errorf("%w: %s %s", err, req.Method, req.URL.Path)
	}
	if err != nil {
		return fmt.Errorf("%w: read body: %v", apperrors.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return DecodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrMalformedResponse, req.Method, req.URL.Path, err)
	}
	return nil
}

// DecodeError turns an error body ({"message": ...} or {"error": ...}) into
// an *apperrors.APIError.
func DecodeError(status int, body []byte) error {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Message
		if message == "" && len(payload.Error) > 0 {
			message = errorField(payload.Error)
		}
	}
	return apperrors.NewAPIError(status, message)
}

// errorField accepts "error": "text" and "error": {"message": "text"}.
func errorField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}

func fileHeader(f File) map[string][]string {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return map[string][]string{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name)},
		"Content-Type":        {contentType},
	}
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrResourceNotFound)
}
