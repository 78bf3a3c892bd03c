package entities

import "time"

// PaymentDirection tells which way the money moved.
type PaymentDirection int

const (
	PaymentDirectionToStore    PaymentDirection = 0
	PaymentDirectionToCustomer PaymentDirection = 1
)

// PaymentStatus is the settlement outcome of one money movement attempt.
type PaymentStatus string

const (
	PaymentStatusNotStarted   PaymentStatus = "not_started"
	PaymentStatusInProgress   PaymentStatus = "in_progress"
	PaymentStatusSucceeded    PaymentStatus = "succeeded"
	PaymentStatusFailure      PaymentStatus = "failure"
	PaymentStatusNotNecessary PaymentStatus = "not_necessary"
	PaymentStatusNoAddress    PaymentStatus = "no_address"
)

// Payment is an audit record of one attempted money movement. It is created
// before the movement is attempted and finalized in place exactly once; a
// retry is a new Payment, never a mutation of a settled one.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI: session_id-index
type Payment struct {
	ID            string           `json:"id"`
	SessionID     string           `json:"session_id,omitempty"`
	CustomerPhone string           `json:"customer_phone"`
	Direction     PaymentDirection `json:"direction"`
	AmountPmob    int64            `json:"amount_pmob"`
	Status        PaymentStatus    `json:"status"`
	TxoID         string           `json:"txo_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
