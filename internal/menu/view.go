package menu

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
)

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string { return d.StringFixed(2) }

type Chip struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ItemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Image    string `json:"img"`
	Quantity int    `json:"qty"`
}

type LineView struct {
	FoodID   string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"qty"`
	Subtotal string `json:"subtotal"`
}

type CartView struct {
	Lines []LineView `json:"lines"`
	Total string     `json:"total"`
	Empty bool       `json:"empty"`
}

// View is everything the menu page renders.
// swagger:model MenuView
type View struct {
	SessionID  string     `json:"session_id"`
	Table      string     `json:"table"`
	Category   string     `json:"category"`
	Search     string     `json:"search"`
	Request    string     `json:"request"`
	Categories []Chip     `json:"categories"`
	Items      []ItemView `json:"items"`
	Cart       CartView   `json:"cart"`
}

// BuildView derives chips, the filtered list with quantity badges and the
// cart summary from one read of the session's cart.
func BuildView(s *Session, foods []catalog.FoodItem) View {
	v := View{
		SessionID: s.ID,
		Table:     s.Table,
		Category:  s.Category,
		Search:    s.Search,
		Request:   s.Request,
	}

	for _, c := range Categories(foods) {
		v.Categories = append(v.Categories, Chip{Name: c, Active: c == s.Category})
	}

	filtered := Filter(foods, s.Category, s.Search)
	v.Items = make([]ItemView, 0, len(filtered))
	for _, f := range filtered {
		v.Items = append(v.Items, ItemView{
			ID:       f.ID,
			Name:     f.Name,
			Price:    Money(f.Price),
			Category: f.CategoryOrDefault(),
			Image:    f.Image,
			Quantity: s.Cart.Quantity(f.ID),
		})
	}

	lines := s.Cart.Lines()
	v.Cart = CartView{
		Lines: make([]LineView, 0, len(lines)),
		Total: Money(s.Cart.Total()),
		Empty: len(lines) == 0,
	}
	for _, l := range lines {
		v.Cart.Lines = append(v.Cart.Lines, LineView{
			FoodID:   l.FoodID,
			Name:     l.Name,
			Price:    Money(l.Price),
			Quantity: l.Quantity,
			Subtotal: Money(l.Subtotal()),
		})
	}
	return v
}
