package order

import (
	"fmt"

	"qrmenu-telegram/models"
)

// Validate checks the order structurally and returns every violation, not
// just the first, so callers get precise diagnostics.
func Validate(o models.Order) []string {
	var errs []string

	if o.RestaurantID == "" {
		errs = append(errs, "restaurant id is required")
	}
	if o.Table == "" {
		errs = append(errs, "table number is required")
	}
	if len(o.Items) == 0 {
		errs = append(errs, "order must contain at least one item")
	}
	if o.Total <= 0 {
		errs = append(errs, "order total must be greater than 0")
	}
	for i, it := range o.Items {
		if it.ItemID == "" {
			errs = append(errs, fmt.Sprintf("item %d: item id is required", i+1))
		}
		if it.Quantity < 1 {
			errs = append(errs, fmt.Sprintf("item %d: quantity must be greater than 0", i+1))
		}
	}
	return errs
}
