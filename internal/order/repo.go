package order

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/apperr"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
)

// LogKey is the store key holding the order log.
const LogKey = "orders"

// Repository is the append-only order log.
type Repository interface {
	List(ctx context.Context) (Orders, error)
	Append(ctx context.Context, o Order) error
	Clear(ctx context.Context, confirmed bool) error
}

type KVLog struct {
	store  kv.Store
	logger *zap.Logger

	mu sync.Mutex
}

func NewKVLog(store kv.Store, logger *zap.Logger) *KVLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVLog{store: store, logger: logger}
}

// List returns the valid orders, oldest first. An absent or non-list log reads
// as empty; entries that fail validation are skipped.
func (l *KVLog) List(ctx context.Context) (Orders, error) {
	elems, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return Orders(kv.Valid(elems)), nil
}

// Append adds o at the end. Stored entries, readable or not, are written back
// unchanged.
func (l *KVLog) Append(ctx context.Context, o Order) error {
	e, err := kv.NewElement(o)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	elems, err := l.load(ctx)
	if err != nil {
		return err
	}
	return kv.SetElements(ctx, l.store, LogKey, append(elems, e))
}

func (l *KVLog) load(ctx context.Context) ([]kv.Element[Order], error) {
	elems, err := kv.LookupElements[Order](ctx, l.store, LogKey)
	if err != nil {
		if !kv.Recoverable(err) {
			return nil, err
		}
		if !errors.Is(err, kv.ErrMissing) {
			l.logger.Warn("order log is not a list, starting a new one", zap.Error(err))
		}
		return nil, nil
	}
	skipped := 0
	for _, e := range elems {
		if !e.OK {
			skipped++
		}
	}
	if skipped > 0 {
		l.logger.Warn("order log entries skipped", zap.Int("count", skipped))
	}
	return elems, nil
}

// Clear truncates the log once confirmed.
func (l *KVLog) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return apperr.ErrConfirmationRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return kv.Set(ctx, l.store, LogKey, Orders{})
}
