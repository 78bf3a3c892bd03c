package usecase

import (
	"context"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// InventoryUseCase answers availability questions for the three scarce
// resources of a drop: SKU stock, bonus-coin supply and the initial coin
// quota. All counts are derived, never cached; the atomic claim operations on
// the repositories are the source of truth under concurrency.
type InventoryUseCase struct {
	catalogRepo interfaces.ICatalogRepository
	sessionRepo interfaces.ISessionRepository
	orderRepo   interfaces.IOrderRepository
}

func NewInventoryUseCase(
	catalogRepo interfaces.ICatalogRepository,
	sessionRepo interfaces.ISessionRepository,
	orderRepo interfaces.IOrderRepository,
) *InventoryUseCase {
	return &InventoryUseCase{catalogRepo: catalogRepo, sessionRepo: sessionRepo, orderRepo: orderRepo}
}

// SkuRemaining returns how many units of the SKU are not consumed by an
// active order.
func (uc *InventoryUseCase) SkuRemaining(ctx context.Context, sku entities.Sku) (int, error) {
	active, err := uc.orderRepo.CountActiveBySku(ctx, sku.ID)
	if err != nil {
		return 0, err
	}
	remaining := sku.Quantity - active
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// AvailableSkus returns the item's SKUs that still have stock, in sort order.
func (uc *InventoryUseCase) AvailableSkus(ctx context.Context, itemID string) ([]entities.Sku, error) {
	skus, err := uc.catalogRepo.ListSkus(ctx, itemID)
	if err != nil {
		return nil, err
	}
	available := make([]entities.Sku, 0, len(skus))
	for _, sku := range skus {
		remaining, err := uc.SkuRemaining(ctx, sku)
		if err != nil {
			return nil, err
		}
		if remaining > 0 {
			available = append(available, sku)
		}
	}
	return available, nil
}

// ItemInStock reports whether any SKU of the item has stock left.
func (uc *InventoryUseCase) ItemInStock(ctx context.Context, itemID string) (bool, error) {
	available, err := uc.AvailableSkus(ctx, itemID)
	if err != nil {
		return false, err
	}
	return len(available) > 0, nil
}

// BonusCoinRemaining returns how many units of one bonus coin are unclaimed.
func (uc *InventoryUseCase) BonusCoinRemaining(ctx context.Context, coin entities.BonusCoin) (int, error) {
	claimed, err := uc.sessionRepo.CountBonusCoinClaims(ctx, coin.ID)
	if err != nil {
		return 0, err
	}
	remaining := coin.NumberAvailable - claimed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// RemainingBonusPool returns the drop's bonus coins paired with their
// remaining unit counts, skipping exhausted coins.
func (uc *InventoryUseCase) RemainingBonusPool(ctx context.Context, dropID string) ([]entities.BonusCoin, []int, error) {
	coins, err := uc.catalogRepo.ListBonusCoins(ctx, dropID)
	if err != nil {
		return nil, nil, err
	}
	var (
		pool   []entities.BonusCoin
		counts []int
	)
	for _, coin := range coins {
		remaining, err := uc.BonusCoinRemaining(ctx, coin)
		if err != nil {
			return nil, nil, err
		}
		if remaining > 0 {
			pool = append(pool, coin)
			counts = append(counts, remaining)
		}
	}
	return pool, counts, nil
}

// UnderDropQuota reports whether the drop's initial coin quota has room left.
// The answer is advisory; ClaimInitialCoin is the race-safe gate.
func (uc *InventoryUseCase) UnderDropQuota(ctx context.Context, drop entities.Drop) (bool, error) {
	claims, err := uc.catalogRepo.CountInitialClaims(ctx, drop.ID)
	if err != nil {
		return false, err
	}
	return claims < drop.InitialCoinLimit, nil
}

// ClaimInitialCoin consumes one unit of the drop's initial payout quota.
// It returns interfaces.ErrOverQuota once the quota is exhausted.
func (uc *InventoryUseCase) ClaimInitialCoin(ctx context.Context, dropID string) error {
	return uc.catalogRepo.ClaimInitialCoin(ctx, dropID)
}
