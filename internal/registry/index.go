package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"skillpack/internal/logx"
)

const (
	userAgent    = "skillpack/1.0"
	fetchTimeout = 15 * time.Second
	indexTTL     = time.Hour
)

// SyncRecorder is notified whenever a fresh index is fetched successfully.
// Implemented by the local state store.
type SyncRecorder interface {
	RecordSync(t time.Time) error
}

// Client fetches and caches the remote registry index. The cached index is
// read-only once a fetch completes; concurrent fetches are not deduplicated
// and callers needing that must serialize them.
type Client struct {
	url       string
	http      *http.Client
	log       *log.Logger
	sync      SyncRecorder
	index     *Index
	fetchedAt time.Time
}

// NewClient creates a registry client for the given index URL. sync may be
// nil when no state store participates (e.g. read-only queries).
func NewClient(url string, sync SyncRecorder, logger *log.Logger) *Client {
	if logger == nil {
		logger = logx.Discard()
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: fetchTimeout},
		log:  logger,
		sync: sync,
	}
}

// URL returns the configured index endpoint.
func (c *Client) URL() string {
	return c.url
}

// FetchIndex returns the registry index. A cached copy younger than the TTL
// is served unless force is set. Network failure falls back to the stale
// cache when one exists, otherwise to an empty index; it never returns an
// error to the caller.
func (c *Client) FetchIndex(force bool) *Index {
	if !force && c.index != nil && time.Since(c.fetchedAt) < indexTTL {
		return c.index
	}

	idx, err := c.fetch()
	if err != nil {
		if c.index != nil {
			c.log.Printf("registry: fetch %s failed, serving stale index: %v", c.url, err)
			return c.index
		}
		c.log.Printf("registry: fetch %s failed, no cached index: %v", c.url, err)
		return EmptyIndex()
	}

	c.index = idx
	c.fetchedAt = time.Now()

	if c.sync != nil {
		if err := c.sync.RecordSync(c.fetchedAt); err != nil {
			// Non-fatal
			c.log.Printf("registry: failed to record sync time: %v", err)
		}
	}

	return c.index
}

func (c *Client) fetch() (*Index, error) {
	body, err := c.get(c.url)
	if err != nil {
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &idx, nil
}

// Download fetches a skill payload over the same transport and timeout as
// index fetches.
func (c *Client) Download(url string) ([]byte, error) {
	return c.get(url)
}

func (c *Client) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
