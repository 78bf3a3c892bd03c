package entities

import "time"

// AirdropState is the conversational state of an airdrop session.
type AirdropState int

const (
	AirdropStateCancelled             AirdropState = -1
	AirdropStateReady                 AirdropState = 0
	AirdropStateWaitingForBonusTx     AirdropState = 1
	AirdropStateAllowContactRequested AirdropState = 2
	AirdropStateCompleted             AirdropState = 3
)

// ItemSessionState is the conversational state of an item-sale session.
// Negative values are terminal or parked states; positive values walk the
// purchase flow in order.
type ItemSessionState int

const (
	ItemStateIdleAndRefundable        ItemSessionState = -4
	ItemStateIdle                     ItemSessionState = -3
	ItemStateRefunded                 ItemSessionState = -2
	ItemStateCancelled                ItemSessionState = -1
	ItemStateNew                      ItemSessionState = 0
	ItemStateWaitingForPayment        ItemSessionState = 1
	ItemStateWaitingForSize           ItemSessionState = 2
	ItemStateWaitingForName           ItemSessionState = 3
	ItemStateWaitingForAddress        ItemSessionState = 4
	ItemStateShippingInfoConfirmation ItemSessionState = 5
	ItemStateAllowContactRequested    ItemSessionState = 6
	ItemStateCompleted                ItemSessionState = 7
)

// ItemRefundableStates are the states in which a customer has already paid and
// may still cancel for a refund.
var ItemRefundableStates = map[ItemSessionState]bool{
	ItemStateIdleAndRefundable:        true,
	ItemStateWaitingForSize:           true,
	ItemStateWaitingForName:           true,
	ItemStateWaitingForAddress:        true,
	ItemStateShippingInfoConfirmation: true,
}

// DropSession is the per-(customer, drop) conversational and transactional
// state machine instance. It is created lazily on first qualifying contact and
// mutated only by the session usecases, one handler at a time.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI: customer_phone-drop_id-index (at most one session per pair)
//
// State holds either an AirdropState or an ItemSessionState value depending on
// the drop's type.
type DropSession struct {
	ID               string    `json:"id"`
	CustomerPhone    string    `json:"customer_phone"`
	DropID           string    `json:"drop_id"`
	DropType         DropType  `json:"drop_type"`
	State            int       `json:"state"`
	ManualOverride   bool      `json:"manual_override"`
	BonusCoinClaimed string    `json:"bonus_coin_claimed,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s DropSession) AirdropState() AirdropState { return AirdropState(s.State) }

func (s DropSession) ItemState() ItemSessionState { return ItemSessionState(s.State) }

// ActiveAirdrop reports whether an airdrop session still accepts events.
func (s DropSession) ActiveAirdrop() bool {
	st := s.AirdropState()
	return st >= AirdropStateReady && st < AirdropStateCompleted
}

// ActiveItem reports whether an item session still accepts events.
func (s DropSession) ActiveItem() bool {
	st := s.ItemState()
	return st >= ItemStateNew && st < ItemStateCompleted
}

// Active reports whether the session accepts events for its drop type.
func (s DropSession) Active() bool {
	if s.DropType == DropTypeItem {
		return s.ActiveItem()
	}
	return s.ActiveAirdrop()
}

// Terminal reports whether the session has reached a state that no inbound
// event may mutate.
func (s DropSession) Terminal() bool {
	if s.DropType == DropTypeItem {
		st := s.ItemState()
		return st == ItemStateCompleted || st == ItemStateCancelled || st == ItemStateRefunded
	}
	st := s.AirdropState()
	return st == AirdropStateCompleted || st == AirdropStateCancelled
}
