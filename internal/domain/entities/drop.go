package entities

import "time"

// DropType distinguishes the two promotional campaign kinds.
type DropType int

const (
	DropTypeAirdrop DropType = 0
	DropTypeItem    DropType = 1
)

func (t DropType) String() string {
	if t == DropTypeItem {
		return "item"
	}
	return "airdrop"
}

// Drop is a time-boxed promotional campaign: a coin giveaway (airdrop) or an
// item sale, advertised before its start window and restricted by country.
//
// Storage model (DynamoDB):
//   - PK: id
//   - initial_claims is a counter consumed with a conditional update
//     (initial_claims < initial_coin_limit) so the quota cannot be oversold.
type Drop struct {
	ID                     string    `json:"id"`
	StoreID                string    `json:"store_id"`
	DropType               DropType  `json:"drop_type"`
	PreDropDescription     string    `json:"pre_drop_description"`
	AdvertisementStartTime time.Time `json:"advertisement_start_time"`
	StartTime              time.Time `json:"start_time"`
	EndTime                time.Time `json:"end_time"`
	ItemID                 string    `json:"item_id"`
	Timezone               string    `json:"timezone"`

	NumberRestriction           string  `json:"number_restriction"`
	CountryCodeRestriction      string  `json:"country_code_restriction"`
	CountryLongNameRestriction  string  `json:"country_long_name_restriction"`
	ConversionRateMobToCurrency float64 `json:"conversion_rate_mob_to_currency"`
	CurrencySymbol              string  `json:"currency_symbol"`

	InitialCoinAmountPmob int64 `json:"initial_coin_amount_pmob"`
	InitialCoinLimit      int   `json:"initial_coin_limit"`

	MaxRefundTransactionFeesCovered int `json:"max_refund_transaction_fees_covered"`
}

// Advertising reports whether the drop is in its pre-start advertisement window.
func (d Drop) Advertising(now time.Time) bool {
	return !d.AdvertisementStartTime.After(now) && d.StartTime.After(now)
}

// Active reports whether the drop is currently running.
func (d Drop) Active(now time.Time) bool {
	return !d.StartTime.After(now) && !d.EndTime.Before(now)
}

// BonusCoin is one limited-supply reward tier of an airdrop. The claimed
// counter is consumed atomically with the session claim so that
// claimed <= number_available holds under concurrency.
type BonusCoin struct {
	ID              string `json:"id"`
	DropID          string `json:"drop_id"`
	AmountPmob      int64  `json:"amount_pmob"`
	NumberAvailable int    `json:"number_available"`
}
