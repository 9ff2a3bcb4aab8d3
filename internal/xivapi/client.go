// Package xivapi provides a client for the XIVAPI item catalog: item lookup
// by ID, name search, and recipe resolution.
package xivapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
)

// Client provides access to the XIVAPI catalog.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a new catalog client.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Item fetches a catalog entry by item ID.
func (c *Client) Item(ctx context.Context, id int) (models.Item, error) {
	var item models.Item
	if err := c.getJSON(ctx, fmt.Sprintf("%s/Item/%d", c.apiURL, id), &item); err != nil {
		return models.Item{}, fmt.Errorf("failed to fetch item %d: %w", id, err)
	}
	return item, nil
}

// Recipe fetches a recipe with its ingredient list by recipe ID.
func (c *Client) Recipe(ctx context.Context, id int) (models.Recipe, error) {
	var recipe models.Recipe
	if err := c.getJSON(ctx, fmt.Sprintf("%s/Recipe/%d", c.apiURL, id), &recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("failed to fetch recipe %d: %w", id, err)
	}
	return recipe, nil
}

// Search looks up catalog items by exact-match name.
func (c *Client) Search(ctx context.Context, name string) ([]models.SearchResult, error) {
	u := fmt.Sprintf("%s/search?indexes=Item&string_algo=match&string=%s", c.apiURL, url.QueryEscape(name))
	var resp models.SearchResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", name, err)
	}
	return resp.Results, nil
}

// getJSON performs a GET request with retry on transient failures and
// decodes the JSON response body into out.
func (c *Client) getJSON(ctx context.Context, urlStr string, out any) error {
	maxRetries := 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
