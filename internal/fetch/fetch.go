// Package fetch retrieves remote spreadsheet/CSV documents and memoizes them
// per source URL so repeated filter interactions never re-download. The cache
// is invalidated only by an explicit refresh action.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// Client wraps an HTTP client with the fetch policy: non-2xx responses and
// HTML-looking bodies (an error page where a binary workbook was expected)
// are failures, never silently parsed.
type Client struct {
	http *http.Client
}

// NewClient builds a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Get downloads the document at url and returns its bytes.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if looksLikeMarkup(body) {
		return nil, fmt.Errorf("fetch %s: response looks like an HTML page, not a data file", url)
	}
	return body, nil
}

// looksLikeMarkup detects HTML/XML error pages served with a 200 status.
func looksLikeMarkup(body []byte) bool {
	head := bytes.TrimLeft(body, " \t\r\n")
	if len(head) == 0 {
		return false
	}
	for _, prefix := range [][]byte{[]byte("<!doctype"), []byte("<html"), []byte("<head"), []byte("<body")} {
		if len(head) >= len(prefix) && bytes.EqualFold(head[:len(prefix)], prefix) {
			return true
		}
	}
	return head[0] == '<' && !bytes.HasPrefix(head, []byte("<?xml"))
}

// ReadLocal is the fallback when no URL is configured.
func ReadLocal(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read local file: %w", err)
	}
	return b, nil
}

// Cache memoizes loaded documents by source URL. It is an explicit map with
// an explicit invalidation operation, guarded because the serve surface
// handles concurrent requests; the stored bytes are immutable after load.
type Cache struct {
	mu      sync.Mutex
	client  *Client
	entries map[string][]byte
}

// NewCache builds a Cache over the given client.
func NewCache(client *Client) *Cache {
	return &Cache{client: client, entries: make(map[string][]byte)}
}

// Get returns the cached document for url, fetching it on first use.
// Concurrent callers of the same URL perform at most one download.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.entries[url]; ok {
		return b, nil
	}
	b, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	c.entries[url] = b
	return b, nil
}

// Invalidate drops the cached copy of url so the next Get re-fetches.
func (c *Cache) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}
