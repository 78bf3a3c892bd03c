package memory

import (
	"context"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// OrderRepo is the in-memory IOrderRepository.
type OrderRepo struct {
	s *Store
}

var _ interfaces.IOrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) CreateForSku(_ context.Context, o entities.Order, sku entities.Sku) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	active := 0
	for _, existing := range r.s.orders {
		if existing.SkuID == sku.ID && existing.Status.Active() {
			active++
		}
	}
	if active >= sku.Quantity {
		return entities.Order{}, interfaces.ErrSkuSoldOut
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Date = r.s.now()
	r.s.orders[o.ID] = o
	return o, nil
}

func (r *OrderRepo) GetBySession(_ context.Context, sessionID string) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.SessionID == sessionID {
			return o, nil
		}
	}
	return entities.Order{}, nil
}

func (r *OrderRepo) Update(_ context.Context, o entities.Order) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID] = o
	return o, nil
}

func (r *OrderRepo) CountActiveBySku(_ context.Context, skuID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, o := range r.s.orders {
		if o.SkuID == skuID && o.Status.Active() {
			n++
		}
	}
	return n, nil
}
