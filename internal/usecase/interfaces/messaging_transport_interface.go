package interfaces

import "context"

// IMessagingTransport abstracts the chat channel (e.g. Signal via signald).
//
// GetPaymentsAddress resolves the payment address from the destination's
// messaging profile; an empty string means the customer has not enabled
// payments and cannot receive funds.

type IMessagingTransport interface {
	SendMessage(ctx context.Context, destination, text string, attachments []string) error
	SendPaymentReceipt(ctx context.Context, destination, receipt, note string) error
	GetPaymentsAddress(ctx context.Context, destination string) (string, error)
}
