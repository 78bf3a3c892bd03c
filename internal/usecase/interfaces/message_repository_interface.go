package interfaces

import (
	"context"

	"dropbot/internal/domain/entities"
)

// IMessageRepository logs chat traffic in both directions for operator review.

type IMessageRepository interface {
	Log(ctx context.Context, m entities.Message) error
}
