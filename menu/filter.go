package menu

import (
	"strings"

	"qrmenu-telegram/models"
)

// FilterByCategory keeps items matching the category exactly. "All" is the
// wildcard bypass.
func FilterByCategory(items []models.MenuItem, category string) []models.MenuItem {
	if category == "" || category == models.CategoryAll {
		return items
	}
	var out []models.MenuItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// FilterBySearch keeps items whose name or description contains the term,
// case-insensitively. In the list-rendering path the category matches too.
// Both filters compose conjunctively with FilterByCategory.
func FilterBySearch(items []models.MenuItem, term string, includeCategory bool) []models.MenuItem {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	var out []models.MenuItem
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) ||
			(includeCategory && strings.Contains(strings.ToLower(it.Category), needle)) {
			out = append(out, it)
		}
	}
	return out
}

// Filter applies the full pipeline: category first, then search.
func Filter(items []models.MenuItem, category, term string) []models.MenuItem {
	return FilterBySearch(FilterByCategory(items, category), term, true)
}
