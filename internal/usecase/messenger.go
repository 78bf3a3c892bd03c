package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// Messenger sends outbound chat messages and logs both directions to the
// message repository. Logging is best effort: a failed log never blocks the
// conversation.
type Messenger struct {
	transport interfaces.IMessagingTransport
	messages  interfaces.IMessageRepository
	storeID   string
}

func NewMessenger(transport interfaces.IMessagingTransport, messages interfaces.IMessageRepository, storeID string) *Messenger {
	return &Messenger{transport: transport, messages: messages, storeID: storeID}
}

// LogAndSend persists the outbound message and delivers it over the transport.
func (m *Messenger) LogAndSend(ctx context.Context, phone, text string) error {
	m.logMessage(ctx, phone, text, entities.MessageDirectionSent)
	if err := m.transport.SendMessage(ctx, phone, text, nil); err != nil {
		log.Printf("[messenger][usecase] send to %s failed: %v", phone, err)
		return err
	}
	return nil
}

// LogReceived persists an inbound customer message.
func (m *Messenger) LogReceived(ctx context.Context, phone, text string) {
	m.logMessage(ctx, phone, text, entities.MessageDirectionReceived)
}

func (m *Messenger) logMessage(ctx context.Context, phone, text string, dir entities.MessageDirection) {
	err := m.messages.Log(ctx, entities.Message{
		ID:            uuid.NewString(),
		CustomerPhone: phone,
		StoreID:       m.storeID,
		Text:          text,
		Direction:     dir,
		Date:          time.Now().UTC(),
	})
	if err != nil {
		log.Printf("[messenger][usecase] message log failed for %s: %v", phone, err)
	}
}
