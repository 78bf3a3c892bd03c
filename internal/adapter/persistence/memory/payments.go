package memory

import (
	"context"
	"sort"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// PaymentRepo is the in-memory IPaymentRepository.
type PaymentRepo struct {
	s *Store
}

var _ interfaces.IPaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) Create(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.payments[p.ID] = p
	return p, nil
}

func (r *PaymentRepo) Update(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.UpdatedAt = r.s.now()
	r.s.payments[p.ID] = p
	return p, nil
}

func (r *PaymentRepo) ListBySession(_ context.Context, sessionID string) ([]entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Payment
	for _, p := range r.s.payments {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
