package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// CatalogRepo is the in-memory ICatalogRepository.
type CatalogRepo struct {
	s *Store
}

var _ interfaces.ICatalogRepository = (*CatalogRepo)(nil)

func (r *CatalogRepo) GetStore(_ context.Context, id string) (entities.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.stores[id], nil
}

func (r *CatalogRepo) GetDrop(_ context.Context, id string) (entities.Drop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.drops[id], nil
}

func (r *CatalogRepo) GetActiveDrop(_ context.Context, now time.Time) (entities.Drop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.drops {
		if d.Active(now) {
			return d, nil
		}
	}
	return entities.Drop{}, nil
}

func (r *CatalogRepo) GetAdvertisingDrop(_ context.Context, now time.Time) (entities.Drop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.drops {
		if d.Advertising(now) {
			return d, nil
		}
	}
	return entities.Drop{}, nil
}

func (r *CatalogRepo) GetItem(_ context.Context, id string) (entities.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.items[id], nil
}

func (r *CatalogRepo) ListSkus(_ context.Context, itemID string) ([]entities.Sku, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Sku
	for _, sku := range r.s.skus {
		if sku.ItemID == itemID {
			out = append(out, sku)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *CatalogRepo) FindSkuByIdentifier(_ context.Context, itemID, identifier string) (entities.Sku, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sku := range r.s.skus {
		if sku.ItemID == itemID && strings.EqualFold(sku.Identifier, strings.TrimSpace(identifier)) {
			return sku, nil
		}
	}
	return entities.Sku{}, nil
}

func (r *CatalogRepo) ListBonusCoins(_ context.Context, dropID string) ([]entities.BonusCoin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.BonusCoin
	for _, c := range r.s.coins {
		if c.DropID == dropID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepo) ClaimInitialCoin(_ context.Context, dropID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	drop, ok := r.s.drops[dropID]
	if !ok || r.s.initialClaims[dropID] >= drop.InitialCoinLimit {
		return interfaces.ErrOverQuota
	}
	r.s.initialClaims[dropID]++
	return nil
}

func (r *CatalogRepo) CountInitialClaims(_ context.Context, dropID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.initialClaims[dropID], nil
}
