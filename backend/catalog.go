// Package backend is a reference implementation of the HTTP contract the
// client consumes, so the bot can be run end to end against demo data.
package backend

import (
	"sort"

	"qrmenu-telegram/models"
)

// Catalog holds the read-only demo data: restaurants and their menus.
type Catalog struct {
	restaurants map[string]models.Restaurant
	items       map[string][]models.MenuItem // restaurant id -> items
}

func NewCatalog() *Catalog {
	return &Catalog{
		restaurants: make(map[string]models.Restaurant),
		items:       make(map[string][]models.MenuItem),
	}
}

func (c *Catalog) AddRestaurant(r models.Restaurant, items []models.MenuItem) {
	c.restaurants[r.ID] = r
	c.items[r.ID] = items
}

func (c *Catalog) Restaurant(id string) (models.Restaurant, bool) {
	r, ok := c.restaurants[id]
	return r, ok
}

func (c *Catalog) Menu(id string) ([]models.MenuItem, bool) {
	items, ok := c.items[id]
	return items, ok
}

// Item looks an item up by restaurant and item id, for price recomputation
// at order time.
func (c *Catalog) Item(restaurantID, itemID string) (models.MenuItem, bool) {
	for _, it := range c.items[restaurantID] {
		if it.ID == itemID {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// Categories returns "All" followed by the restaurant's distinct
// categories in alphabetical order.
func (c *Catalog) Categories(id string) ([]string, bool) {
	items, ok := c.items[id]
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{})
	var cats []string
	for _, it := range items {
		if _, dup := seen[it.Category]; dup {
			continue
		}
		seen[it.Category] = struct{}{}
		cats = append(cats, it.Category)
	}
	sort.Strings(cats)
	return append([]string{models.CategoryAll}, cats...), true
}
