package memory

import (
	"context"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// SessionRepo is the in-memory ISessionRepository.
type SessionRepo struct {
	s *Store
}

var _ interfaces.ISessionRepository = (*SessionRepo)(nil)

func (r *SessionRepo) GetOrCreate(_ context.Context, sess entities.DropSession) (entities.DropSession, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(sess.CustomerPhone, sess.DropID)
	if id, ok := r.s.sessionByPair[key]; ok {
		return r.s.sessions[id], false, nil
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	now := r.s.now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	r.s.sessions[sess.ID] = sess
	r.s.sessionByPair[key] = sess.ID
	return sess, true, nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (entities.DropSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sessions[id], nil
}

func (r *SessionRepo) Update(_ context.Context, sess entities.DropSession) (entities.DropSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess.UpdatedAt = r.s.now()
	r.s.sessions[sess.ID] = sess
	return sess, nil
}

func (r *SessionRepo) FindActiveByCustomer(_ context.Context, phone string, dropType entities.DropType) (entities.DropSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sess := range r.s.sessions {
		if sess.CustomerPhone == phone && sess.DropType == dropType && sess.Active() {
			return sess, nil
		}
	}
	return entities.DropSession{}, nil
}

func (r *SessionRepo) CountByCustomerDropAndState(_ context.Context, phone, dropID string, state int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sess := range r.s.sessions {
		if sess.CustomerPhone == phone && sess.DropID == dropID && sess.State == state {
			n++
		}
	}
	return n, nil
}

func (r *SessionRepo) ClaimBonusCoin(_ context.Context, sessionID string, coin entities.BonusCoin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[sessionID]
	if !ok {
		return interfaces.ErrBonusCoinExhausted
	}
	if sess.BonusCoinClaimed != "" {
		return interfaces.ErrBonusAlreadyClaimed
	}
	claimed := 0
	for _, other := range r.s.sessions {
		if other.BonusCoinClaimed == coin.ID {
			claimed++
		}
	}
	if claimed >= coin.NumberAvailable {
		return interfaces.ErrBonusCoinExhausted
	}
	sess.BonusCoinClaimed = coin.ID
	sess.UpdatedAt = r.s.now()
	r.s.sessions[sessionID] = sess
	return nil
}

func (r *SessionRepo) CountBonusCoinClaims(_ context.Context, coinID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sess := range r.s.sessions {
		if sess.BonusCoinClaimed == coinID {
			n++
		}
	}
	return n, nil
}

func (r *SessionRepo) ListActiveIdleSince(_ context.Context, cutoff time.Time) ([]entities.DropSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.DropSession
	for _, sess := range r.s.sessions {
		if sess.Active() && !sess.UpdatedAt.After(cutoff) {
			out = append(out, sess)
		}
	}
	return out, nil
}
