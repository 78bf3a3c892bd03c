package interfaces

import (
	"context"

	"dropbot/internal/domain/entities"
)

// IPaymentRepository abstracts persistence for Payment audit rows. Rows are
// created before a movement is attempted and updated in place as the attempt
// resolves; they are never deleted.

type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	Update(ctx context.Context, p entities.Payment) (entities.Payment, error)
	ListBySession(ctx context.Context, sessionID string) ([]entities.Payment, error)
}
