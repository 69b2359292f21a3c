package catalog

import "github.com/shopspring/decimal"

var starter = []struct {
	name, price, category, img string
}{
	{"Fried Rice", "5.00", "Rice", "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800&q=80"},
	{"Noodles", "4.50", "Soup", "https://images.unsplash.com/photo-1526318896980-cf78c088247c?w=800&q=80"},
	{"Burger", "6.00", "Fast Food", "https://images.unsplash.com/photo-1550547660-d9450f859349?w=800&q=80"},
	{"French Fries", "2.00", "Fry", "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=800&q=80"},
	{"Grill Chicken", "5.50", "Grill", "https://images.unsplash.com/photo-1604908554049-25d644cd6b4b?w=800&q=80"},
	{"Coffee", "2.00", "Drink", "https://images.unsplash.com/photo-1509042239860-f550ce710b93?w=800&q=80"},
	{"Beer", "3.00", "Beer", "https://images.unsplash.com/photo-1544145945-f90425340c7e?w=800&q=80"},
}

// Starter returns the first-run menu with ids from newID.
func Starter(newID func() string) Foods {
	out := make(Foods, 0, len(starter))
	for _, s := range starter {
		out = append(out, FoodItem{
			ID:       newID(),
			Name:     s.name,
			Price:    decimal.RequireFromString(s.price),
			Category: s.category,
			Image:    s.img,
		})
	}
	return out
}
