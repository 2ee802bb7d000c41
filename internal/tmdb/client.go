package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 15 * time.Second
	userAgent      = "Marquee/1.0"

	// maxErrorBody caps how much of a failed response is kept in APIError
	maxErrorBody = 512
)

// Client implements domain.Gateway against the TMDB v3 API
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLanguage sends the language parameter on every request (e.g. "en-US")
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tmdb API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// doRequest performs an authenticated GET and decodes the JSON body into dest
func (c *Client) doRequest(ctx context.Context, op, path string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}
	c.logger.Debug("tmdb request", "op", op, "path", path, "query", query.Encode())

	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "op", op, "error", redact(err, c.apiKey))
		return &domain.TransportError{Op: op, Err: redact(err, c.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("tmdb request error", "op", op, "status", resp.StatusCode, "body", string(body))
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &domain.APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "op", op, "error", err, "bodyLen", len(body))
		return &domain.ValidationError{Op: op, Reason: "malformed JSON", Err: err}
	}
	return nil
}

// redact strips the api key from url.Error messages
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.err }

// fetchPage runs a paginated request and validates the envelope
func (c *Client) fetchPage(ctx context.Context, op, path string, query url.Values) (*listResponse, error) {
	var resp listResponse
	if err := c.doRequest(ctx, op, path, query, &resp); err != nil {
		return nil, err
	}
	if resp.Page == nil {
		return nil, &domain.ValidationError{Op: op, Reason: "missing page"}
	}
	if resp.TotalPages < 0 || resp.TotalResults < 0 {
		return nil, &domain.ValidationError{Op: op, Reason: "negative totals"}
	}
	return &resp, nil
}

// FetchList returns one page of a popular, top-rated, or discover listing.
// sortKey and genreID apply to discover only.
func (c *Client) FetchList(ctx context.Context, kind domain.Kind, list domain.ListType, page int, sortKey string, genreID *int) (domain.Page, error) {
	if !kind.Valid() {
		return domain.Page{}, fmt.Errorf("fetch list: %w: %q", domain.ErrUnknownKind, kind)
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var path string
	switch list {
	case domain.ListPopular:
		path = fmt.Sprintf("/%s/popular", kind)
	case domain.ListTopRated:
		path = fmt.Sprintf("/%s/top_rated", kind)
	case domain.ListDiscover:
		path = fmt.Sprintf("/discover/%s", kind)
		if sortKey != "" {
			query.Set("sort_by", sortKey)
		}
		if genreID != nil {
			query.Set("with_genres", strconv.Itoa(*genreID))
		}
	default:
		return domain.Page{}, fmt.Errorf("fetch list: unknown list type %q", list)
	}

	op := "fetch " + string(list) + " " + string(kind)
	resp, err := c.fetchPage(ctx, op, path, query)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{
		Page:         *resp.Page,
		Results:      mapItems(resp.Results, kind),
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}

// FetchDetail returns full details for a movie or show
func (c *Client) FetchDetail(ctx context.Context, kind domain.Kind, id int) (*domain.Detail, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("fetch detail: %w: %q", domain.ErrUnknownKind, kind)
	}
	op := "fetch " + string(kind) + " detail"
	var resp detailResponse
	if err := c.doRequest(ctx, op, fmt.Sprintf("/%s/%d", kind, id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, &domain.ValidationError{Op: op, Reason: "missing id"}
	}
	return mapDetail(resp, kind), nil
}

// FetchWatchProviders returns per-country watch providers for an item
func (c *Client) FetchWatchProviders(ctx context.Context, kind domain.Kind, id int) (domain.WatchProviders, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("fetch watch providers: %w: %q", domain.ErrUnknownKind, kind)
	}
	var resp watchProviderResponse
	path := fmt.Sprintf("/%s/%d/watch/providers", kind, id)
	if err := c.doRequest(ctx, "fetch watch providers", path, nil, &resp); err != nil {
		return nil, err
	}
	return mapWatchProviders(resp), nil
}

// FetchGenres returns the genre reference list for a kind
func (c *Client) FetchGenres(ctx context.Context, kind domain.Kind) ([]domain.Genre, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("fetch genres: %w: %q", domain.ErrUnknownKind, kind)
	}
	var resp genreListResponse
	if err := c.doRequest(ctx, "fetch "+string(kind)+" genres", fmt.Sprintf("/genre/%s/list", kind), nil, &resp); err != nil {
		return nil, err
	}
	return mapGenres(resp.Genres), nil
}

// Search performs a multi-type search. An empty query returns an empty page
// without touching the network.
func (c *Client) Search(ctx context.Context, query string, page int) (domain.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.EmptyPage(), nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	resp, err := c.fetchPage(ctx, "search", "/search/multi", params)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{
		Page:         *resp.Page,
		Results:      mapSearchItems(resp.Results),
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}
