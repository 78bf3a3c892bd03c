package entities

import "time"

// MessageDirection distinguishes inbound customer text from outbound replies.
type MessageDirection int

const (
	MessageDirectionReceived MessageDirection = 0
	MessageDirectionSent     MessageDirection = 1
)

// Message is one logged chat line. Every inbound and outbound message is
// persisted so a human operator can reconstruct a conversation.
type Message struct {
	ID            string           `json:"id"`
	CustomerPhone string           `json:"customer_phone"`
	StoreID       string           `json:"store_id"`
	Text          string           `json:"text"`
	Direction     MessageDirection `json:"direction"`
	Date          time.Time        `json:"date"`
}
