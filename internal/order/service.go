// Package order turns a table's cart into an immutable order and keeps the order log.
package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/apperr"
	"github.com/MikeMC777/ordenes-mesa/internal/menu"
)

// Notifier is told about every order after it is stored.
type Notifier interface {
	OrderPlaced(ctx context.Context, o Order) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(repo Repository, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit appends an order built from lines. An empty cart is rejected
// without writing.
func (s *Service) Submit(ctx context.Context, table string, lines []menu.CartLine, request string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, apperr.Invalid("Please select at least 1 item.")
	}

	now := s.now().UTC()
	o := Order{
		ID:        s.newID(),
		Table:     menu.TableFrom(table),
		Items:     make([]Item, 0, len(lines)),
		Request:   strings.TrimSpace(request),
		Total:     decimal.Zero,
		Date:      now.Format(DateLayout),
		CreatedAt: now,
	}
	for _, l := range lines {
		o.Items = append(o.Items, Item{FoodID: l.FoodID, Name: l.Name, Price: l.Price, Quantity: l.Quantity})
		o.Total = o.Total.Add(l.Subtotal())
	}

	if err := s.repo.Append(ctx, o); err != nil {
		return Order{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, o); err != nil {
			s.logger.Warn("kitchen notification failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

// SubmitSession submits the session's cart and request draft. The cart and
// the draft are cleared together, and only when the order was stored.
// Callers hold the session lock.
func (s *Service) SubmitSession(ctx context.Context, sess *menu.Session) (Order, error) {
	o, err := s.Submit(ctx, sess.Table, sess.Cart.Lines(), sess.Request)
	if err != nil {
		return Order{}, err
	}
	sess.ClearAfterSubmit()
	return o, nil
}

func (s *Service) List(ctx context.Context) (Orders, error) { return s.repo.List(ctx) }

func (s *Service) Clear(ctx context.Context, confirmed bool) error {
	return s.repo.Clear(ctx, confirmed)
}
