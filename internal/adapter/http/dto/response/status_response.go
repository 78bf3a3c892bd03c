package response

import (
	"dropbot/internal/usecase"
	"dropbot/pkg/mob"
)

// CoinStatusResponse is one bonus-coin line of the airdrop status.
type CoinStatusResponse struct {
	ID        string `json:"id"`
	AmountMob string `json:"amount_mob"`
	Available int    `json:"available"`
	Remaining int    `json:"remaining"`
}

// CoinsStatusResponse reports the active airdrop's quota and bonus pool.
type CoinsStatusResponse struct {
	DropID         string               `json:"drop_id"`
	InitialClaimed int                  `json:"initial_claimed"`
	InitialLimit   int                  `json:"initial_limit"`
	Coins          []CoinStatusResponse `json:"coins"`
}

func FromCoinsReport(r usecase.CoinsReport) CoinsStatusResponse {
	out := CoinsStatusResponse{
		DropID:         r.DropID,
		InitialClaimed: r.InitialClaimed,
		InitialLimit:   r.InitialLimit,
		Coins:          make([]CoinStatusResponse, 0, len(r.Coins)),
	}
	for _, c := range r.Coins {
		out.Coins = append(out.Coins, CoinStatusResponse{
			ID:        c.ID,
			AmountMob: mob.FormatMob(c.AmountPmob),
			Available: c.Available,
			Remaining: c.Remaining,
		})
	}
	return out
}

// SkuStatusResponse is one SKU line of the item drop status.
type SkuStatusResponse struct {
	Identifier string `json:"identifier"`
	Quantity   int    `json:"quantity"`
	Remaining  int    `json:"remaining"`
}

// ItemsStatusResponse reports the active item drop's stock.
type ItemsStatusResponse struct {
	ItemID   string              `json:"item_id"`
	ItemName string              `json:"item_name"`
	Skus     []SkuStatusResponse `json:"skus"`
}

func FromItemsReport(r usecase.ItemsReport) ItemsStatusResponse {
	out := ItemsStatusResponse{
		ItemID:   r.ItemID,
		ItemName: r.ItemName,
		Skus:     make([]SkuStatusResponse, 0, len(r.Skus)),
	}
	for _, s := range r.Skus {
		out.Skus = append(out.Skus, SkuStatusResponse{
			Identifier: s.Identifier,
			Quantity:   s.Quantity,
			Remaining:  s.Remaining,
		})
	}
	return out
}
