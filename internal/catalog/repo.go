// Package catalog owns the food list: validation, create, update, delete and listing.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/apperr"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
)

// Key is the store key holding the catalog.
const Key = "foods"

type Manager struct {
	store  kv.Store
	logger *zap.Logger
	newID  func() string

	mu sync.Mutex // serializes read-modify-write of Key
}

func NewManager(store kv.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger, newID: uuid.NewString}
}

// List returns the valid items in stored order. An absent or non-list value
// reads as empty; entries that fail validation are skipped.
func (m *Manager) List(ctx context.Context) (Foods, error) {
	elems, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return Foods(kv.Valid(elems)), nil
}

func (m *Manager) Get(ctx context.Context, id string) (FoodItem, bool, error) {
	foods, err := m.List(ctx)
	if err != nil {
		return FoodItem{}, false, err
	}
	i := foods.Find(id)
	if i < 0 {
		return FoodItem{}, false, nil
	}
	return foods[i], true, nil
}

func (m *Manager) Add(ctx context.Context, in FoodInput) (FoodItem, error) {
	item, err := in.parse()
	if err != nil {
		return FoodItem{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	elems, err := m.load(ctx)
	if err != nil {
		return FoodItem{}, err
	}
	item.ID = m.newID()
	e, err := kv.NewElement(item)
	if err != nil {
		return FoodItem{}, err
	}
	if err := kv.SetElements(ctx, m.store, Key, append(elems, e)); err != nil {
		return FoodItem{}, err
	}
	return item, nil
}

// Update replaces the mutable fields of id. An unknown id is a silent no-op
// reported through found=false.
func (m *Manager) Update(ctx context.Context, id string, in FoodInput) (FoodItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elems, err := m.load(ctx)
	if err != nil {
		return FoodItem{}, false, err
	}
	i := find(elems, id)
	if i < 0 {
		return FoodItem{}, false, nil
	}

	next, err := in.parse()
	if err != nil {
		return FoodItem{}, true, apperr.Invalid("Invalid data. Please check name/price/image.")
	}
	next.ID = id
	e, err := kv.NewElement(next)
	if err != nil {
		return FoodItem{}, true, err
	}
	elems[i] = e
	if err := kv.SetElements(ctx, m.store, Key, elems); err != nil {
		return FoodItem{}, true, err
	}
	return next, true, nil
}

// Delete removes id once confirmed. Unknown ids are ignored.
func (m *Manager) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return apperr.ErrConfirmationRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	elems, err := m.load(ctx)
	if err != nil {
		return err
	}
	next := make([]kv.Element[FoodItem], 0, len(elems))
	for _, e := range elems {
		if !e.OK || e.Value.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(elems) {
		return nil
	}
	return kv.SetElements(ctx, m.store, Key, next)
}

// load returns every stored entry. Entries that are not valid items are kept
// raw so writers put them back unchanged. Only a value that is not a list at
// all is replaced by an empty catalog.
func (m *Manager) load(ctx context.Context) ([]kv.Element[FoodItem], error) {
	raw, err := m.store.Get(ctx, Key)
	if errors.Is(err, kv.ErrMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	elems, skipped, err := decode(raw)
	if err != nil {
		m.logger.Warn("catalog unreadable, using empty list", zap.Error(err))
		return nil, nil
	}
	if skipped > 0 {
		m.logger.Warn("catalog entries skipped", zap.Int("count", skipped))
	}
	return elems, nil
}

// decode splits the stored catalog. Later duplicates of an id count as invalid.
func decode(raw []byte) ([]kv.Element[FoodItem], int, error) {
	elems, err := kv.DecodeElements[FoodItem](Key, raw)
	if err != nil {
		return nil, 0, err
	}
	seen := make(map[string]struct{}, len(elems))
	skipped := 0
	for i := range elems {
		if !elems[i].OK {
			skipped++
			continue
		}
		if _, dup := seen[elems[i].Value.ID]; dup {
			elems[i].OK = false
			skipped++
			continue
		}
		seen[elems[i].Value.ID] = struct{}{}
	}
	return elems, skipped, nil
}

// Usable reports whether raw is a stored catalog with at least one valid item.
func Usable(raw []byte) bool {
	elems, skipped, err := decode(raw)
	return err == nil && len(elems) > skipped
}

func find(elems []kv.Element[FoodItem], id string) int {
	for i, e := range elems {
		if e.OK && e.Value.ID == id {
			return i
		}
	}
	return -1
}

func (in FoodInput) parse() (FoodItem, error) {
	name := strings.TrimSpace(in.Name)
	img := strings.TrimSpace(in.Image)
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	price, perr := decimal.NewFromString(strings.TrimSpace(in.Price))
	if name == "" || perr != nil || price.IsNegative() || img == "" {
		return FoodItem{}, apperr.Invalid("Please enter name, price, category, and image URL.")
	}
	return FoodItem{
		Name:     name,
		Price:    price,
		Category: category,
		Image:    img,
	}, nil
}
