package backend

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"qrmenu-telegram/models"

	"github.com/google/uuid"
)

// StoredOrder is an accepted order with its server-side lifecycle fields.
type StoredOrder struct {
	ID            string
	Order         models.Order
	Status        string
	EstimatedTime int // minutes
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var ErrOrderNotFound = errors.New("order not found")

// OrderStore persists accepted orders. The demo server runs on the memory
// store by default and on Postgres when DB_ENABLE is set.
type OrderStore interface {
	Create(ctx context.Context, o models.Order, estimatedTime int) (*StoredOrder, error)
	Get(ctx context.Context, id string) (*StoredOrder, error)
	// Cancel returns false without error when the order exists but is
	// past the point of cancellation.
	Cancel(ctx context.Context, id string) (bool, error)
	HistoryByTable(ctx context.Context, restaurantID, table string) ([]StoredOrder, error)
}

// MemoryStore keeps orders in a mutex-guarded map.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*StoredOrder
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*StoredOrder)}
}

func (s *MemoryStore) Create(ctx context.Context, o models.Order, estimatedTime int) (*StoredOrder, error) {
	now := time.Now().UTC()
	so := &StoredOrder{
		ID:            uuid.NewString(),
		Order:         o,
		Status:        models.OrderStatusPending,
		EstimatedTime: estimatedTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.mu.Lock()
	s.orders[so.ID] = so
	s.mu.Unlock()
	return so, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	so, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *so
	return &cp, nil
}

func (s *MemoryStore) Cancel(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	so, ok := s.orders[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if so.Status != models.OrderStatusPending && so.Status != models.OrderStatusConfirmed {
		return false, nil
	}
	so.Status = models.OrderStatusCancelled
	so.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *MemoryStore) HistoryByTable(ctx context.Context, restaurantID, table string) ([]StoredOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []StoredOrder
	for _, so := range s.orders {
		if so.Order.RestaurantID == restaurantID && so.Order.Table == table {
			out = append(out, *so)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
