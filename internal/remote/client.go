// Package remote talks to the adoption listing service.
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

	"go.uber.org/zap"

	"github.com/mithrel/kennel/pkg/api"
)

const (
	DefaultBaseURL  = "https://proxy.crbapps.com"
	DefaultPageSize = 200
	DefaultTimeout  = 15 * time.Second
)

// listingFilters are the status and sub-status ids the rescue's own site
// requests: adoptable, crosspost and the active sub-statuses.
var listingFilters = []string{
	"status:2", "status:4", "status:10",
	"sub:11", "sub:12", "sub:13",
}

// HTTPError is a non-2xx response from the listing service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
	HTTP     *http.Client
	Log      *zap.Logger
}

// Client fetches the listing and single dog details.
type Client struct {
	http     *http.Client
	baseURL  string
	pageSize int
	log      *zap.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	hc := opts.HTTP
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: hc, baseURL: strings.TrimRight(base, "/"), pageSize: size, log: log}, nil
}

// FetchListing returns the first page of adoptable dogs, ordered by name.
func (c *Client) FetchListing(ctx context.Context) ([]api.RemoteDog, error) {
	q := []string{
		"pageNumber=1",
		"pageSize=" + strconv.Itoa(c.pageSize),
		"includePhotos=true",
		"orderBy=name",
		"orderDirection=0",
	}
	for _, f := range listingFilters {
		q = append(q, "filters="+f)
	}
	var page api.ListingPage
	if err := c.getJSON(ctx, "/dogs?"+strings.Join(q, "&"), &page); err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	return page.Results, nil
}

// FetchDetail returns the full record of one dog.
func (c *Client) FetchDetail(ctx context.Context, id string) (api.DogDetail, error) {
	var d api.DogDetail
	if err := c.getJSON(ctx, "/dogs/"+url.PathEscape(id), &d); err != nil {
		return api.DogDetail{}, fmt.Errorf("fetch dog %s: %w", id, err)
	}
	return d, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	c.log.Debug("remote request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("took", time.Since(start)),
	)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if len(raw) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(raw, out)
}
