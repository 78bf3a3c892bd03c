package interfaces

import (
	"context"
	"errors"
	"time"

	"dropbot/internal/domain/entities"
)

var (
	// ErrBonusCoinExhausted is returned by ClaimBonusCoin when every unit of
	// the coin has already been claimed.
	ErrBonusCoinExhausted = errors.New("bonus coin exhausted")
	// ErrBonusAlreadyClaimed is returned when the session already holds a
	// bonus coin. A session claims at most one, ever.
	ErrBonusAlreadyClaimed = errors.New("session already claimed a bonus coin")
)

// ISessionRepository abstracts persistence for DropSession rows.
//
// GetOrCreate is conditional on the (customer, drop) pair so two racing first
// messages cannot create two sessions.
//
// ClaimBonusCoin atomically records the claim on the session and consumes one
// unit of the coin's supply; it fails with ErrBonusCoinExhausted or
// ErrBonusAlreadyClaimed instead of oversubscribing.

type ISessionRepository interface {
	GetOrCreate(ctx context.Context, s entities.DropSession) (session entities.DropSession, created bool, err error)
	GetByID(ctx context.Context, id string) (entities.DropSession, error)
	Update(ctx context.Context, s entities.DropSession) (entities.DropSession, error)

	// FindActiveByCustomer returns the customer's single active session of the
	// given drop type, or a zero session when none exists.
	FindActiveByCustomer(ctx context.Context, phone string, dropType entities.DropType) (entities.DropSession, error)
	CountByCustomerDropAndState(ctx context.Context, phone, dropID string, state int) (int, error)

	ClaimBonusCoin(ctx context.Context, sessionID string, coin entities.BonusCoin) error
	CountBonusCoinClaims(ctx context.Context, coinID string) (int, error)

	// ListActiveIdleSince returns active sessions whose last update is at or
	// before cutoff, for the idle sweep.
	ListActiveIdleSince(ctx context.Context, cutoff time.Time) ([]entities.DropSession, error)
}
