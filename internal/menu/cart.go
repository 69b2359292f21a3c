package menu

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
)

// CartLine is a snapshot of a food taken when it was first added.
type CartLine struct {
	FoodID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"qty"`
}

// Subtotal is price × quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps food id to line. A line never holds a quantity below one: it is
// dropped the moment it would.
type Cart struct {
	lines map[string]*CartLine
	order []string // first-add order, for rendering
}

func NewCart() *Cart {
	return &Cart{lines: make(map[string]*CartLine)}
}

// Increase adds one of foodID. Ids missing from foods are ignored.
func (c *Cart) Increase(foods []catalog.FoodItem, foodID string) bool {
	line, ok := c.lines[foodID]
	if !ok {
		var food *catalog.FoodItem
		for i := range foods {
			if foods[i].ID == foodID {
				food = &foods[i]
				break
			}
		}
		if food == nil {
			return false
		}
		line = &CartLine{FoodID: food.ID, Name: food.Name, Price: food.Price}
		c.lines[foodID] = line
		c.order = append(c.order, foodID)
	}
	line.Quantity++
	return true
}

// Decrease removes one of foodID, dropping the line at zero.
func (c *Cart) Decrease(foodID string) bool {
	line, ok := c.lines[foodID]
	if !ok {
		return false
	}
	line.Quantity--
	if line.Quantity <= 0 {
		c.drop(foodID)
	}
	return true
}

// Remove drops the whole line for foodID.
func (c *Cart) Remove(foodID string) bool {
	if _, ok := c.lines[foodID]; !ok {
		return false
	}
	c.drop(foodID)
	return true
}

func (c *Cart) drop(foodID string) {
	delete(c.lines, foodID)
	for i, id := range c.order {
		if id == foodID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Quantity is 0 for foods not in the cart.
func (c *Cart) Quantity(foodID string) int {
	if line, ok := c.lines[foodID]; ok {
		return line.Quantity
	}
	return 0
}

func (c *Cart) Len() int { return len(c.lines) }

// Lines returns copies of the lines in first-add order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Total sums snapshot price × quantity. Later catalog edits do not affect it.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) Reset() {
	c.lines = make(map[string]*CartLine)
	c.order = nil
}
