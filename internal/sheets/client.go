package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultBaseURL is the Google Docs host serving the gviz endpoint.
const DefaultBaseURL = "https://docs.google.com"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 32 << 20

// Client fetches one published sheet through the gviz query endpoint.
type Client struct {
	baseURL    string
	sheetID    string
	sheetName  string
	httpClient *http.Client

	Stats *FetchStats
}

func NewClient(baseURL, sheetID, sheetName string, stats *FetchStats) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		sheetID:   sheetID,
		sheetName: sheetName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Stats: stats,
	}
}

// URL returns the fully-qualified query URL for the configured sheet.
func (c *Client) URL() string {
	q := url.Values{}
	q.Set("tqx", "out:json")
	q.Set("sheet", c.sheetName)
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", c.baseURL, url.PathEscape(c.sheetID), q.Encode())
}

// Fetch issues a single GET and returns the raw response body. There are no
// retries.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	ctx, span := otel.Tracer("rosterboard/sheets").Start(ctx, "sheets.Fetch")
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, "transport")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if c.Stats != nil {
		c.Stats.Record(time.Since(start).Milliseconds())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "status")
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}
	if err != nil {
		span.SetStatus(codes.Error, "read body")
		return nil, &NetworkError{Err: err}
	}
	return body, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// NetworkError is a non-success HTTP status or a transport failure.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch sheet: %v", e.Err)
	}
	return fmt.Sprintf("fetch sheet: response not ok (status %d)", e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }
