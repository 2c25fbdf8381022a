// Package leaderboard fetches and decodes pages of the CrossFit Games
// leaderboard API.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	BaseURL        = "https://c3po.crossfit.com"
	DefaultTimeout = 30 * time.Second

	leaderboardPath = "/api/leaderboards/v2/competitions/games/%d/leaderboards?division=%d&sort=0&page=%d"
)

var tracer = otel.Tracer("ingest/leaderboard")

// Client issues single-attempt GETs against the leaderboard endpoint.
type Client struct {
	baseURL string
	http    *resty.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// New creates a client for baseURL, falling back to BaseURL when empty.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = BaseURL
	}

	http := resty.New()
	http.SetTimeout(DefaultTimeout)
	http.SetRetryCount(0)
	http.SetHeader("Accept", "application/json")

	c := &Client{
		baseURL: baseURL,
		http:    http,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "leaderboard-client")
	return c
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return New(BaseURL)
}

// Endpoint returns the request URL for one leaderboard page.
func (c *Client) Endpoint(year int, division Division, page int) string {
	return c.baseURL + fmt.Sprintf(leaderboardPath, year, int(division), page)
}

// FetchPage fetches and decodes one page.
func (c *Client) FetchPage(ctx context.Context, year int, division Division, page int) (*Page, error) {
	raw, err := c.FetchRaw(ctx, year, division, page)
	if err != nil {
		return nil, err
	}
	return DecodePage(raw)
}

// FetchRaw fetches one page and returns the parsed JSON untouched.
func (c *Client) FetchRaw(ctx context.Context, year int, division Division, page int) (map[string]any, error) {
	c.logger.InfoContext(ctx, "starting leaderboard request", "year", year, "division", int(division), "page", page)

	if err := validate(year, division, page); err != nil {
		c.logger.ErrorContext(ctx, "invalid leaderboard request", "err", err)
		return nil, err
	}

	url := c.Endpoint(year, division, page)
	c.logger.DebugContext(ctx, "request url", "url", url)

	ctx, span := tracer.Start(ctx, "leaderboard.FetchPage", trace.WithAttributes(
		attribute.Int("games.year", year),
		attribute.Int("games.division", int(division)),
		attribute.Int("games.page", page),
	))
	defer span.End()

	raw, err := c.get(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(ctx, "leaderboard request failed", "url", url, "err", err)
		return nil, err
	}

	c.logger.InfoContext(ctx, "fetched leaderboard page", "year", year, "division", int(division), "page", page)
	return raw, nil
}

func (c *Client) get(ctx context.Context, url string) (map[string]any, error) {
	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &NetworkError{URL: url, StatusCode: res.StatusCode()}
	}

	var raw map[string]any
	if err := json.Unmarshal(res.Body(), &raw); err != nil {
		return nil, &MalformedResponseError{Key: "$", Detail: fmt.Sprintf("decoding body: %v", err)}
	}
	if raw == nil {
		return nil, &MalformedResponseError{Key: "$", Detail: "empty body"}
	}
	return raw, nil
}

func validate(year int, division Division, page int) error {
	if year < FirstGamesYear {
		return invalidArgument("year", year)
	}
	if !division.Valid() {
		return invalidArgument("division", int(division))
	}
	if page < 1 {
		return invalidArgument("page", page)
	}
	return nil
}
