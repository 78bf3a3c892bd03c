package interfaces

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrTxoNotFound is returned by GetTxo while a submitted transaction has
	// not landed on chain yet.
	ErrTxoNotFound = errors.New("txo not found")
	// ErrMultipleTxOutputs is returned when a bot-initiated transaction
	// produced more than one payout output. Continuing would risk
	// double-payment, so the coordinator treats it as fatal.
	ErrMultipleTxOutputs = errors.New("transaction produced more than one payout output")
)

// TransactionStatus is the settlement status of an inbound receipt.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionSucceeded TransactionStatus = "succeeded"
	TransactionFailed    TransactionStatus = "failed"
)

// ReceiptStatus is the result of polling the network for an inbound receipt.
type ReceiptStatus struct {
	Status     TransactionStatus
	AmountPmob int64
}

// IWalletClient abstracts the payment-network wallet (MobileCoin
// full-service). Transaction proposals are opaque provider JSON, kept raw the
// same way the provider response payloads are.

type IWalletClient interface {
	GetUnspentPmob(ctx context.Context, accountID string) (int64, error)
	GetMinimumFeePmob(ctx context.Context) (int64, error)
	BuildTransaction(ctx context.Context, accountID string, amountPmob int64, toAddress string) (json.RawMessage, error)
	SubmitTransaction(ctx context.Context, proposal json.RawMessage, accountID string) (txoID string, err error)
	GetTxo(ctx context.Context, txoID string) error
	CreateReceipt(ctx context.Context, proposal json.RawMessage) (string, error)
	CheckReceiptStatus(ctx context.Context, receipt string) (ReceiptStatus, error)
}
