package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client fetches the two read-only catalog endpoints: the path→object
// inventory (by_path.json) and individual metadata records (objs/...).
// Both are requested with the json=yes flag so servers that negotiate
// on it emit an application/json content type.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a Client for the catalog rooted at baseURL. If
// httpClient is nil, http.DefaultClient is used. The client applies no
// timeout or retry of its own; the caller's context governs every
// request.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog base URL %q: %w", baseURL, err)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: u, http: httpClient}, nil
}

// Inventory fetches by_path.json: the mapping from dataset-relative
// path (or "." for the root) to object location.
func (c *Client) Inventory(ctx context.Context) (map[string]string, error) {
	var inv map[string]string
	if err := c.getJSON(ctx, "by_path.json", &inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Object fetches the metadata record stored at objs/<loc>.
func (c *Client) Object(ctx context.Context, loc string) (map[string]any, error) {
	var record map[string]any
	if err := c.getJSON(ctx, "objs/"+loc, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// getJSON issues a GET for the given catalog-relative path and decodes
// the JSON body into out. Network failures, non-2xx statuses, and
// decode failures are all returned uniformly as errors.
func (c *Client) getJSON(ctx context.Context, relPath string, out any) error {
	ref := &url.URL{Path: relPath, RawQuery: "json=yes"}
	target := c.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", relPath, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", relPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("fetching %s: unexpected status %s", relPath, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", relPath, err)
	}
	return nil
}
