package backend

import (
	"fmt"
	"math/rand"

	"qrmenu-telegram/models"
)

// Demo fixture data. Deterministic (fixed seed) so tests and demo runs see
// the same catalog.

var demoCategories = []string{
	"Appetizers", "Pasta", "Pizza", "Seafood", "Salads", "Steaks",
	"Desserts", "Beverages", "Soups", "Sandwiches", "Burgers", "Sushi",
}

var demoAdjectives = []string{
	"Delicious", "Premium", "Classic", "Signature", "Special",
	"Traditional", "Gourmet", "Fresh", "Homemade", "Artisan",
}

var baseItems = []models.MenuItem{
	{
		ID:          "001",
		Name:        "Truffle Pasta",
		Description: "Handmade pasta with black truffle, parmesan, and fresh herbs",
		Price:       28.99,
		Image:       "https://images.pexels.com/photos/1279330/pexels-photo-1279330.jpeg",
		Category:    "Pasta",
		IsPopular:   true,
	},
	{
		ID:           "002",
		Name:         "Margherita Pizza",
		Description:  "Classic wood-fired pizza with fresh mozzarella, tomatoes, and basil",
		Price:        22.50,
		Image:        "https://images.pexels.com/photos/2147491/pexels-photo-2147491.jpeg",
		Category:     "Pizza",
		IsVegetarian: true,
	},
	{
		ID:          "003",
		Name:        "Grilled Salmon",
		Description: "Atlantic salmon with lemon butter sauce and seasonal vegetables",
		Price:       32.00,
		Image:       "https://images.pexels.com/photos/3622479/pexels-photo-3622479.jpeg",
		Category:    "Seafood",
	},
	{
		ID:           "004",
		Name:         "Caesar Salad",
		Description:  "Crisp romaine lettuce with parmesan, croutons, and caesar dressing",
		Price:        16.99,
		Image:        "https://images.pexels.com/photos/2097090/pexels-photo-2097090.jpeg",
		Category:     "Salads",
		IsVegetarian: true,
	},
	{
		ID:          "005",
		Name:        "Ribeye Steak",
		Description: "Premium aged ribeye with roasted potatoes and red wine jus",
		Price:       45.00,
		Image:       "https://images.pexels.com/photos/361184/asparagus-steak-veal-steak-veal-361184.jpeg",
		Category:    "Steaks",
		IsPopular:   true,
	},
	{
		ID:          "006",
		Name:        "Chocolate Lava Cake",
		Description: "Warm chocolate cake with molten center and vanilla ice cream",
		Price:       12.99,
		Image:       "https://images.pexels.com/photos/291528/pexels-photo-291528.jpeg",
		Category:    "Desserts",
	},
}

// GenerateMenuItems pads the base items out to count entries across the
// demo categories, for exercising pagination with large menus.
func GenerateMenuItems(count int) []models.MenuItem {
	rng := rand.New(rand.NewSource(7))
	items := append([]models.MenuItem(nil), baseItems...)
	for i := len(baseItems); i < count; i++ {
		base := baseItems[i%len(baseItems)]
		items = append(items, models.MenuItem{
			ID:           fmt.Sprintf("item-%d", i+1),
			Name:         fmt.Sprintf("%s %s %d", demoAdjectives[i%len(demoAdjectives)], base.Name, i+1),
			Description:  base.Description + " - a house variation with seasonal ingredients.",
			Price:        float64(int(rng.Float64()*3000+1000)) / 100,
			Image:        base.Image,
			Category:     demoCategories[i%len(demoCategories)],
			IsPopular:    rng.Float64() > 0.8,
			IsVegetarian: rng.Float64() > 0.7,
		})
	}
	return items
}

// DemoCatalog builds the two demo restaurants from the landing page.
func DemoCatalog() *Catalog {
	c := NewCatalog()
	c.AddRestaurant(models.Restaurant{
		ID:   "resto1",
		Name: "Bella Vista",
		Logo: "🍝",
		Theme: models.Theme{
			Primary:   "#000000",
			Secondary: "#374151",
		},
	}, GenerateMenuItems(120))
	c.AddRestaurant(models.Restaurant{
		ID:   "resto2",
		Name: "Golden Spoon",
		Logo: "🥘",
		Theme: models.Theme{
			Primary:   "#374151",
			Secondary: "#10B981",
		},
	}, GenerateMenuItems(60))
	return c
}
