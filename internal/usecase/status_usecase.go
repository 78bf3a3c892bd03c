package usecase

import (
	"context"
	"fmt"
	"strings"

	"dropbot/internal/domain/entities"
	"dropbot/pkg/mob"
)

// Operator-facing inventory reports, served over the ops HTTP surface and the
// operator chat commands.

type CoinStatus struct {
	ID         string `json:"id"`
	AmountPmob int64  `json:"amount_pmob"`
	Available  int    `json:"available"`
	Remaining  int    `json:"remaining"`
}

type CoinsReport struct {
	DropID         string       `json:"drop_id"`
	InitialClaimed int          `json:"initial_claimed"`
	InitialLimit   int          `json:"initial_limit"`
	Coins          []CoinStatus `json:"coins"`
}

type SkuStatus struct {
	Identifier string `json:"identifier"`
	Quantity   int    `json:"quantity"`
	Remaining  int    `json:"remaining"`
}

type ItemsReport struct {
	ItemID   string      `json:"item_id"`
	ItemName string      `json:"item_name"`
	Skus     []SkuStatus `json:"skus"`
}

// CoinsReport summarizes the active airdrop's quota and bonus pool.
func (uc *DispatcherUseCase) CoinsReport(ctx context.Context) (CoinsReport, error) {
	drop, err := uc.currentDrop(ctx)
	if err != nil || drop.ID == "" || drop.DropType != entities.DropTypeAirdrop {
		return CoinsReport{}, err
	}
	claimed, err := uc.catalog.CountInitialClaims(ctx, drop.ID)
	if err != nil {
		return CoinsReport{}, err
	}
	report := CoinsReport{DropID: drop.ID, InitialClaimed: claimed, InitialLimit: drop.InitialCoinLimit}

	coins, err := uc.catalog.ListBonusCoins(ctx, drop.ID)
	if err != nil {
		return CoinsReport{}, err
	}
	for _, coin := range coins {
		remaining, err := uc.inventory.BonusCoinRemaining(ctx, coin)
		if err != nil {
			return CoinsReport{}, err
		}
		report.Coins = append(report.Coins, CoinStatus{
			ID:         coin.ID,
			AmountPmob: coin.AmountPmob,
			Available:  coin.NumberAvailable,
			Remaining:  remaining,
		})
	}
	return report, nil
}

// ItemsReport summarizes the active item drop's stock per SKU.
func (uc *DispatcherUseCase) ItemsReport(ctx context.Context) (ItemsReport, error) {
	drop, err := uc.currentDrop(ctx)
	if err != nil || drop.ID == "" || drop.DropType != entities.DropTypeItem {
		return ItemsReport{}, err
	}
	item, err := uc.catalog.GetItem(ctx, drop.ItemID)
	if err != nil {
		return ItemsReport{}, err
	}
	report := ItemsReport{ItemID: item.ID, ItemName: item.Name}

	skus, err := uc.catalog.ListSkus(ctx, item.ID)
	if err != nil {
		return ItemsReport{}, err
	}
	for _, sku := range skus {
		remaining, err := uc.inventory.SkuRemaining(ctx, sku)
		if err != nil {
			return ItemsReport{}, err
		}
		report.Skus = append(report.Skus, SkuStatus{
			Identifier: sku.Identifier,
			Quantity:   sku.Quantity,
			Remaining:  remaining,
		})
	}
	return report, nil
}

func (uc *DispatcherUseCase) currentDrop(ctx context.Context) (entities.Drop, error) {
	now := uc.now()
	drop, err := uc.catalog.GetActiveDrop(ctx, now)
	if err != nil || drop.ID != "" {
		return drop, err
	}
	return uc.catalog.GetAdvertisingDrop(ctx, now)
}

func (uc *DispatcherUseCase) sendCoinsStatus(ctx context.Context, phone string) error {
	report, err := uc.CoinsReport(ctx)
	if err != nil {
		return err
	}
	if report.DropID == "" {
		return uc.messenger.LogAndSend(ctx, phone, "No airdrop running.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Initial coins: %d/%d claimed\n", report.InitialClaimed, report.InitialLimit)
	for _, coin := range report.Coins {
		fmt.Fprintf(&b, "%s MOB: %d/%d left\n", mob.FormatMob(coin.AmountPmob), coin.Remaining, coin.Available)
	}
	return uc.messenger.LogAndSend(ctx, phone, strings.TrimSuffix(b.String(), "\n"))
}

func (uc *DispatcherUseCase) sendItemsStatus(ctx context.Context, phone string) error {
	report, err := uc.ItemsReport(ctx)
	if err != nil {
		return err
	}
	if report.ItemID == "" {
		return uc.messenger.LogAndSend(ctx, phone, "No item drop running.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", report.ItemName)
	for _, sku := range report.Skus {
		fmt.Fprintf(&b, "%s: %d/%d left\n", sku.Identifier, sku.Remaining, sku.Quantity)
	}
	return uc.messenger.LogAndSend(ctx, phone, strings.TrimSuffix(b.String(), "\n"))
}
