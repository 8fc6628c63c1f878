// Package remote loads catalog pages from the movie API over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pario-ai/cinecache/pkg/models"
)

// Config describes the upstream API.
type Config struct {
	BaseURL string
	APIKey  string
	Page    int
	Timeout time.Duration
}

// Loader fetches one page of popular movies.
type Loader struct {
	cfg    Config
	client *http.Client
	group  *singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// New creates a Loader for cfg.Page (page 1 if unset).
func New(cfg Config, opts ...Option) *Loader {
	if cfg.Page <= 0 {
		cfg.Page = 1
	}
	l := &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		group:  &singleflight.Group{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ForPage returns a Loader for another page sharing this loader's client.
func (l *Loader) ForPage(page int) *Loader {
	cfg := l.cfg
	cfg.Page = page
	if cfg.Page <= 0 {
		cfg.Page = 1
	}
	return &Loader{cfg: cfg, client: l.client, group: l.group}
}

// Endpoint returns the request URL for the configured page.
func (l *Loader) Endpoint() (string, error) {
	base, err := url.Parse(strings.TrimRight(l.cfg.BaseURL, "/") + "/movie/popular")
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	q := base.Query()
	q.Set("page", strconv.Itoa(l.cfg.Page))
	if l.cfg.APIKey != "" {
		q.Set("api_key", l.cfg.APIKey)
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// Load fetches the page. Concurrent calls for the same page share one
// request.
func (l *Loader) Load(ctx context.Context) (*models.Page, error) {
	endpoint, err := l.Endpoint()
	if err != nil {
		return nil, err
	}

	v, err, _ := l.group.Do(endpoint, func() (any, error) {
		return l.fetch(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}
	page := v.(models.Page)
	return &page, nil
}

func (l *Loader) fetch(ctx context.Context, endpoint string) (models.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return models.Page{}, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Page{}, &ConnectivityError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return models.Page{}, &InvalidDataError{StatusCode: resp.StatusCode}
	}

	var wire wirePage
	if err := json.Unmarshal(body, &wire); err != nil {
		return models.Page{}, &InvalidDataError{StatusCode: resp.StatusCode, Err: err}
	}
	if wire.Page == nil {
		return models.Page{}, &InvalidDataError{StatusCode: resp.StatusCode, Err: errors.New("missing page number")}
	}
	return wire.toModel(), nil
}
