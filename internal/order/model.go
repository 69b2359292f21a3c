package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date stored on every order.
const DateLayout = "2006-01-02"

// Order is immutable once appended to the log.
type Order struct {
	ID        string          `json:"id"`
	Table     string          `json:"table"`
	Items     []Item          `json:"items"`
	Request   string          `json:"request"`
	Total     decimal.Decimal `json:"total"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Item is the snapshot of one cart line at submission.
type Item struct {
	FoodID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"qty"`
}

// Orders is the order log, oldest first.
type Orders []Order

// Validate rejects an order that could not have been produced by Submit.
func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order: missing id")
	}
	if o.Total.IsNegative() {
		return fmt.Errorf("order %q: negative total", o.ID)
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("order %q: item %q has quantity %d", o.ID, it.FoodID, it.Quantity)
		}
	}
	return nil
}
