// Package menu is the read path to the backend: restaurant metadata, item
// catalog and category list, plus the consumer-side filtering pipeline.
package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"qrmenu-telegram/models"
)

// Gateway fetches read-only data by restaurant id. Every read is
// fail-soft: on network, status or decode errors it logs and returns a
// documented default instead of an error, so a transient failure degrades
// to an empty-state screen rather than breaking the session.
type Gateway struct {
	baseURL string
	client  *http.Client
}

func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchRestaurant returns the restaurant metadata, or nil when the
// restaurant cannot be loaded (treated as "not found" by the shell).
func (g *Gateway) FetchRestaurant(ctx context.Context, restaurantID string) *models.Restaurant {
	var r models.Restaurant
	if err := g.getJSON(ctx, "/restaurants/"+url.PathEscape(restaurantID), &r); err != nil {
		log.Printf("gateway: fetch restaurant %s: %v", restaurantID, err)
		return nil
	}
	if r.ID == "" {
		return nil
	}
	return &r
}

// FetchMenu returns the full item catalog, or an empty slice on failure.
func (g *Gateway) FetchMenu(ctx context.Context, restaurantID string) []models.MenuItem {
	var items []models.MenuItem
	if err := g.getJSON(ctx, "/restaurants/"+url.PathEscape(restaurantID)+"/menu", &items); err != nil {
		log.Printf("gateway: fetch menu %s: %v", restaurantID, err)
		return []models.MenuItem{}
	}
	return items
}

// FetchCategories returns the category list, or just the wildcard on
// failure.
func (g *Gateway) FetchCategories(ctx context.Context, restaurantID string) []string {
	var cats []string
	if err := g.getJSON(ctx, "/restaurants/"+url.PathEscape(restaurantID)+"/categories", &cats); err != nil {
		log.Printf("gateway: fetch categories %s: %v", restaurantID, err)
		return []string{models.CategoryAll}
	}
	if len(cats) == 0 {
		return []string{models.CategoryAll}
	}
	return cats
}

func (g *Gateway) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
