package memory

import (
	"context"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// MessageRepo is the in-memory IMessageRepository.
type MessageRepo struct {
	s *Store
}

var _ interfaces.IMessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Log(_ context.Context, m entities.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Date = r.s.now()
	r.s.messages = append(r.s.messages, m)
	return nil
}
