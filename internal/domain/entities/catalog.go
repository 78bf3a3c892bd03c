package entities

// Item is a sellable product owned by a store. Price is a minor-unit (pmob)
// integer.
type Item struct {
	ID               string `json:"id"`
	StoreID          string `json:"store_id"`
	Name             string `json:"name"`
	PriceInPmob      int64  `json:"price_in_pmob"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	ImageLink        string `json:"image_link,omitempty"`
}

// Sku is a purchasable variant of an item with a fixed quantity.
//
// Availability is quantity minus non-cancelled orders referencing the SKU;
// repositories expose that count and enforce it atomically on order creation.
type Sku struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	Identifier string `json:"identifier"`
	Quantity   int    `json:"quantity"`
	SortOrder  int    `json:"sort_order"`
}
