package models

// MenuItem is immutable once fetched from the backend.
type MenuItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	IsPopular    bool    `json:"isPopular,omitempty"`
	IsVegetarian bool    `json:"isVegetarian,omitempty"`
}

type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type Restaurant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Logo  string `json:"logo"`
	Theme Theme  `json:"theme"`
}

// CategoryAll is the wildcard category that bypasses the category filter.
const CategoryAll = "All"
