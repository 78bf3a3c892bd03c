package interfaces

import (
	"context"
	"errors"
	"time"

	"dropbot/internal/domain/entities"
)

// ErrOverQuota is returned by ClaimInitialCoin once a drop's initial payout
// quota is exhausted.
var ErrOverQuota = errors.New("drop initial coin quota exhausted")

// ICatalogRepository abstracts persistence for the store-configured catalog:
// stores, drops, items, SKUs and bonus-coin pools. The catalog is populated by
// the administrative surface; the bot only reads it, except for the initial
// coin quota counter.
//
// ClaimInitialCoin consumes one unit of the drop's initial payout quota with a
// conditional write (claims < initial_coin_limit). It is the atomic step that
// makes the quota check race-safe: callers claim first and transition after,
// instead of counting rows and hoping.

type ICatalogRepository interface {
	GetStore(ctx context.Context, id string) (entities.Store, error)
	GetDrop(ctx context.Context, id string) (entities.Drop, error)
	GetActiveDrop(ctx context.Context, now time.Time) (entities.Drop, error)
	GetAdvertisingDrop(ctx context.Context, now time.Time) (entities.Drop, error)
	GetItem(ctx context.Context, id string) (entities.Item, error)
	ListSkus(ctx context.Context, itemID string) ([]entities.Sku, error)
	FindSkuByIdentifier(ctx context.Context, itemID, identifier string) (entities.Sku, error)
	ListBonusCoins(ctx context.Context, dropID string) ([]entities.BonusCoin, error)

	ClaimInitialCoin(ctx context.Context, dropID string) error
	CountInitialClaims(ctx context.Context, dropID string) (int, error)
}
