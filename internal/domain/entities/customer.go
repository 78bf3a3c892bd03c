package entities

// Customer is identified by phone number (the unique key across the service).
type Customer struct {
	PhoneNumber         string `json:"phone_number"`
	ReceivedStickerPack bool   `json:"received_sticker_pack"`
}

// CustomerStorePreferences records the contact opt-in decision a customer made
// for one store. Created at most once per (customer, store) and updated
// idempotently afterwards.
//
// Storage model (DynamoDB):
//   - PK: customer_phone
//   - SK: store_id
type CustomerStorePreferences struct {
	CustomerPhone string `json:"customer_phone"`
	StoreID       string `json:"store_id"`
	AllowsContact bool   `json:"allows_contact"`
}

// CustomerDropRefunds counts how many refunds for a drop already had their
// transaction fee covered by the store. It caps a per-drop benefit; the count
// is incremented exactly once per granted fee-covered refund.
type CustomerDropRefunds struct {
	CustomerPhone         string `json:"customer_phone"`
	DropID                string `json:"drop_id"`
	NumberOfTimesRefunded int    `json:"number_of_times_refunded"`
}
