package menu

import (
	"strings"

	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
)

// CategoryAll disables category filtering.
const CategoryAll = "All"

// CategoryOrder is the fixed display order of category chips.
var CategoryOrder = []string{CategoryAll, "Grill", "Fry", "Soup", "Rice", "Fast Food", "Drink", "Beer"}

// Filter keeps foods in the category (any, for "All") whose name contains
// search, case-insensitively. Catalog order is preserved.
func Filter(foods []catalog.FoodItem, category, search string) []catalog.FoodItem {
	q := strings.ToLower(strings.TrimSpace(search))
	if category == "" {
		category = CategoryAll
	}

	out := make([]catalog.FoodItem, 0, len(foods))
	for _, f := range foods {
		if category != CategoryAll && f.CategoryOrDefault() != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(f.Name), q) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Categories lists "All" plus every category of CategoryOrder present in foods.
func Categories(foods []catalog.FoodItem) []string {
	present := make(map[string]bool, len(foods))
	for _, f := range foods {
		present[f.CategoryOrDefault()] = true
	}
	out := make([]string, 0, len(CategoryOrder))
	for _, c := range CategoryOrder {
		if c == CategoryAll || present[c] {
			out = append(out, c)
		}
	}
	return out
}
