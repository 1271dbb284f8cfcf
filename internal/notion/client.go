package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/go-resty/resty/v2"

	appLog "eventboard/internal/log"
)

const (
	DefaultBaseURL    = "https://api.notion.com/v1"
	DefaultVersion    = "2022-06-28"
	DefaultPageSize   = 100
	DefaultMaxRecords = 500
)

// ClientConfig holds what the Client needs to query one database.
type ClientConfig struct {
	BaseURL    string
	Token      string
	DatabaseID string
	Version    string
	PageSize   int
	MaxRecords int
	// Timeout bounds each request. Zero disables it.
	Timeout time.Duration
}

// QueryError is returned for a non-success query response.
type QueryError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("notion: query failed: %s -> %s", e.Status, e.Body)
}

// QueryResponse is one page of database query results.
type QueryResponse struct {
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

// Client queries a Notion database page by page. Requests are sequential
// and never retried.
type Client struct {
	http       *resty.Client
	databaseID string
	pageSize   int
	maxRecords int
	onPage     func(rows int)
}

// NewClient creates a new Client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetHeader("Notion-Version", cfg.Version).
		SetHeader("Content-Type", "application/json").
		SetLogger(restyLogger{})
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	return &Client{
		http:       rc,
		databaseID: cfg.DatabaseID,
		pageSize:   cfg.PageSize,
		maxRecords: cfg.MaxRecords,
	}
}

// OnPage registers fn to be called with the row count of every page pulled.
func (c *Client) OnPage(fn func(rows int)) {
	c.onPage = fn
}

// Query fetches a single page of results starting at cursor ("" for the
// first page).
func (c *Client) Query(ctx context.Context, cursor string) (*QueryResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("database", c.databaseID).
		SetBody(queryRequest{PageSize: c.pageSize, StartCursor: cursor}).
		Post("/databases/{database}/query")
	if err != nil {
		return nil, fmt.Errorf("notion: query: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &QueryError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}

	var out QueryResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("notion: decode query response: %w", err)
	}
	return &out, nil
}

// Pages yields the database one page of records at a time. Each step issues
// exactly one request. The sequence ends when the cursor is exhausted, when
// the record cap is reached, or after yielding the first error.
func (c *Client) Pages(ctx context.Context) iter.Seq2[[]Page, error] {
	return func(yield func([]Page, error) bool) {
		cursor := ""
		total := 0
		for n := 1; ; n++ {
			resp, err := c.Query(ctx, cursor)
			if err != nil {
				yield(nil, err)
				return
			}

			total += len(resp.Results)
			appLog.Info("notion page pulled", "page", n, "rows", len(resp.Results))
			if c.onPage != nil {
				c.onPage(len(resp.Results))
			}

			if !yield(resp.Results, nil) {
				return
			}
			if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" || total >= c.maxRecords {
				return
			}
			cursor = *resp.NextCursor
		}
	}
}

// FetchAll drains Pages and returns at most the configured record cap.
func (c *Client) FetchAll(ctx context.Context) ([]Page, error) {
	var all []Page
	for batch, err := range c.Pages(ctx) {
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	if len(all) > c.maxRecords {
		all = all[:c.maxRecords]
	}
	return all, nil
}

// restyLogger routes resty's internal messages through the app logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) {
	appLog.Error("notion http", fmt.Errorf(format, v...))
}

func (restyLogger) Warnf(format string, v ...any) {
	appLog.Warn("notion http: " + fmt.Sprintf(format, v...))
}

func (restyLogger) Debugf(format string, v ...any) {
	appLog.Debug("notion http: " + fmt.Sprintf(format, v...))
}
