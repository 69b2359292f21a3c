package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when a food is saved with an empty category.
const DefaultCategory = "Other"

// FoodItem is one entry of the menu. JSON names match the stored layout.
type FoodItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"img"`
}

// CategoryOrDefault returns the category, "Other" when empty.
func (f FoodItem) CategoryOrDefault() string {
	if f.Category == "" {
		return DefaultCategory
	}
	return f.Category
}

// Foods is the stored catalog, in insertion order.
type Foods []FoodItem

// Validate rejects an item that could not have been written by this package.
func (f FoodItem) Validate() error {
	if f.ID == "" {
		return errors.New("food: missing id")
	}
	if f.Name == "" {
		return fmt.Errorf("food %q: missing name", f.ID)
	}
	if f.Price.IsNegative() {
		return fmt.Errorf("food %q: negative price", f.ID)
	}
	return nil
}

// Validate checks every item and rejects duplicate ids.
func (fs Foods) Validate() error {
	seen := make(map[string]struct{}, len(fs))
	for i, f := range fs {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("food %d: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("food %d: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// Find returns the index of id, -1 when absent.
func (fs Foods) Find(id string) int {
	for i := range fs {
		if fs[i].ID == id {
			return i
		}
	}
	return -1
}

// FoodInput carries the raw admin form fields.
// swagger:model FoodInput
type FoodInput struct {
	Name     string `json:"name"     example:"Pizza"`
	Price    string `json:"price"    example:"7.50"`
	Category string `json:"category" example:"Fast Food"`
	Image    string `json:"img"      example:"https://images.example.com/pizza.jpg"`
}
