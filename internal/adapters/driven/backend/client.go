package backend

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
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Request headers understood by the backend.
const (
	HeaderCollectionName = "Collection-Name"
	HeaderDocumentName   = "Document-Name"
	HeaderRequestID      = "X-Request-ID"
)

// maxResponseBody bounds successful response bodies.
const maxResponseBody = 32 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// Timeout bounds each request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64

	// RateBurst is the limiter bucket size.
	RateBurst int

	// HTTPClient overrides the default transport.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from client settings.
func ConfigFromSettings(s domain.ClientSettings) Config {
	return Config{
		BaseURL:   s.BaseURL(),
		Timeout:   s.Timeout,
		RateLimit: s.RateLimit,
		RateBurst: s.RateBurst,
	}
}

// Client talks to the backend REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = domain.DefaultBackendURL
	}

	return &Client{
		baseURL:    trimSlash(baseURL),
		httpClient: httpClient,
		limiter:    NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListCollections implements driven.Backend.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "/api/collections")
	if err != nil {
		return nil, err
	}
	names, err := decodeCollectionNames(data)
	if err != nil {
		return nil, fmt.Errorf("decoding collections: %w", err)
	}
	return names, nil
}

// CreateCollection implements driven.Backend.
func (c *Client) CreateCollection(ctx context.Context, name string) error {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/api/collections", bytes.NewReader(body), jsonHeaders())
	return err
}

// DeleteCollection implements driven.Backend. The name is path-escaped.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/collections/"+url.PathEscape(name), nil, nil)
	return err
}

// ListDocuments implements driven.Backend.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	data, err := c.get(ctx, "/api/documents")
	if err != nil {
		return nil, err
	}
	docs, err := decodeDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument implements driven.Backend.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/documents/"+strconv.FormatInt(id, 10), nil, nil)
	return err
}

// DocumentChunks implements driven.Backend.
func (c *Client) DocumentChunks(ctx context.Context, id int64) (*domain.DocumentChunks, error) {
	data, err := c.get(ctx, "/api/documents/"+strconv.FormatInt(id, 10)+"/chunks")
	if err != nil {
		return nil, err
	}
	chunks, err := decodeDocumentChunks(data)
	if err != nil {
		return nil, fmt.Errorf("decoding chunks: %w", err)
	}
	chunks.DocumentID = id
	return chunks, nil
}

// UploadDocument implements driven.Backend. The file is sent as the
// multipart "file" field and the collection in the Collection-Name header.
func (c *Client) UploadDocument(ctx context.Context, upload driven.FileUpload) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", upload.Filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, upload.Body); err != nil {
		return fmt.Errorf("copying file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", writer.FormDataContentType())
	headers.Set(HeaderCollectionName, upload.Collection)

	_, err = c.do(ctx, http.MethodPost, "/api/documents/upload", &buf, headers)
	return err
}

// UploadText implements driven.Backend.
func (c *Client) UploadText(ctx context.Context, name, content, collection string) error {
	headers := http.Header{}
	headers.Set("Content-Type", "text/plain; charset=utf-8")
	headers.Set(HeaderCollectionName, collection)
	headers.Set(HeaderDocumentName, name)

	_, err := c.do(ctx, http.MethodPost, "/api/documents/upload/text", bytes.NewReader([]byte(content)), headers)
	return err
}

// queryRequest is the single query body schema.
type queryRequest struct {
	Query       string `json:"query"`
	Collections string `json:"collections"`
}

// Query implements driven.Backend.
func (c *Client) Query(ctx context.Context, text, collections string) ([]domain.QueryResult, error) {
	body, err := json.Marshal(queryRequest{Query: text, Collections: collections})
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, http.MethodPost, "/api/query", bytes.NewReader(body), jsonHeaders())
	if err != nil {
		return nil, err
	}
	results, err := decodeQueryResults(data)
	if err != nil {
		return nil, fmt.Errorf("decoding query results: %w", err)
	}
	return results, nil
}

// Health implements driven.Backend.
func (c *Client) Health(ctx context.Context) (string, error) {
	data, err := c.get(ctx, "/health")
	if err != nil {
		return "", err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return "", fmt.Errorf("decoding health: %w", err)
	}
	return body.Status, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

// do sends one request and returns the response body for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers http.Header) ([]byte, error) {
	op := method + " " + path

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("%s failed after %s [%s]: %v", op, time.Since(start), requestID, err)
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("%s -> %d in %s [%s]", op, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeHTTPError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}
	return data, nil
}

func jsonHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// IsTransport reports whether err came from the transport rather than
// an HTTP response.
func IsTransport(err error) bool {
	var ne *domain.NetworkError
	return errors.As(err, &ne)
}
