package interfaces

import (
	"context"

	"dropbot/internal/domain/entities"
)

// ICustomerRepository abstracts persistence for customers, their per-store
// contact preferences and their per-drop fee-refund allowance.
//
// GetStorePreferences is an explicit optional lookup: the bool result tells
// the caller whether a preference row exists at all, which the session flows
// use to decide between asking for contact permission and saying goodbye.
//
// ClaimFeeRefund increments the customer's fee-covered refund count for a drop
// only while it is below max, atomically; the bool result reports whether the
// fee cover was granted.

type ICustomerRepository interface {
	GetOrCreate(ctx context.Context, phone string) (entities.Customer, error)
	GetStorePreferences(ctx context.Context, phone, storeID string) (entities.CustomerStorePreferences, bool, error)
	UpsertStorePreferences(ctx context.Context, prefs entities.CustomerStorePreferences) (entities.CustomerStorePreferences, error)
	ClaimFeeRefund(ctx context.Context, phone, dropID string, max int) (bool, error)
}
