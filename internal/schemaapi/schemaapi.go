// Package schemaapi fetches sample events from the public OCSF schema
// server.
package schemaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// DefaultBaseURL is the public OCSF schema server's sample endpoint for
// the schema version this tool targets.
const DefaultBaseURL = "https://schema.ocsf.io/sample/" + ocsf.SchemaVersion

// Client fetches randomly generated sample events for an event class.
type Client struct {
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// FetchSample retrieves one sample event for the given class slug.
func (c *Client) FetchSample(ctx context.Context, slug string) (map[string]any, error) {
	url := fmt.Sprintf("%s/classes/%s?profiles=", c.base(), slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sample: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sample: unexpected status %s", res.Status)
	}

	var doc map[string]any
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}

	// The schema server leaves time unset on some samples.
	if _, ok := doc["time"]; !ok {
		doc["time"] = time.Now().UnixMilli()
	}
	return doc, nil
}
