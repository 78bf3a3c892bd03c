package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// DispatcherUseCase is the bot's top-level entry point. It serializes all
// handling per customer, resolves which session or drop an inbound message or
// payment belongs to, and routes to the airdrop or item state machine.
type DispatcherUseCase struct {
	cfg       Config
	catalog   interfaces.ICatalogRepository
	sessions  interfaces.ISessionRepository
	customers interfaces.ICustomerRepository
	airdrop   *AirdropUseCase
	item      *ItemUseCase
	inventory *InventoryUseCase
	payments  *PaymentUseCase
	messenger *Messenger

	locks *keyedMutex
	now   func() time.Time
}

func NewDispatcherUseCase(
	cfg Config,
	catalog interfaces.ICatalogRepository,
	sessions interfaces.ISessionRepository,
	customers interfaces.ICustomerRepository,
	airdrop *AirdropUseCase,
	item *ItemUseCase,
	inventory *InventoryUseCase,
	payments *PaymentUseCase,
	messenger *Messenger,
) *DispatcherUseCase {
	return &DispatcherUseCase{
		cfg:       cfg,
		catalog:   catalog,
		sessions:  sessions,
		customers: customers,
		airdrop:   airdrop,
		item:      item,
		inventory: inventory,
		payments:  payments,
		messenger: messenger,
		locks:     newKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HandleMessage processes one inbound chat message end to end.
func (uc *DispatcherUseCase) HandleMessage(ctx context.Context, phone, text string) error {
	unlock := uc.locks.lock(phone)
	defer unlock()

	uc.messenger.LogReceived(ctx, phone, text)

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "subscribe":
		return uc.handleSubscribe(ctx, phone)
	case "unsubscribe":
		return uc.handleUnsubscribe(ctx, phone)
	case "coins":
		if uc.isOperator(phone) {
			return uc.sendCoinsStatus(ctx, phone)
		}
	case "items":
		if uc.isOperator(phone) {
			return uc.sendItemsStatus(ctx, phone)
		}
	}

	session, drop, err := uc.activeSession(ctx, phone)
	if err != nil {
		return err
	}
	if session.ID != "" {
		if session.ManualOverride {
			log.Printf("[dispatcher][usecase] manual override set on session %s, suppressing", session.ID)
			return nil
		}
		if session.DropType == entities.DropTypeItem {
			return uc.item.HandleText(ctx, session, drop, text)
		}
		return uc.airdrop.HandleText(ctx, session, drop, text)
	}

	now := uc.now()
	active, err := uc.catalog.GetActiveDrop(ctx, now)
	if err != nil {
		return err
	}
	if active.ID != "" {
		if active.DropType == entities.DropTypeItem {
			return uc.item.StartSession(ctx, phone, active)
		}
		return uc.airdrop.StartSession(ctx, phone, active)
	}

	advertising, err := uc.catalog.GetAdvertisingDrop(ctx, now)
	if err != nil {
		return err
	}
	if advertising.ID != "" {
		return uc.messenger.LogAndSend(ctx, phone,
			msgStoreClosed(advertising.StartTime, advertising.Timezone, advertising.PreDropDescription))
	}
	return uc.messenger.LogAndSend(ctx, phone, msgStoreClosedShort)
}

// HandlePayment processes one inbound payment receipt end to end. A payment
// with no session waiting for it is refunded in full with no fee adjustment.
func (uc *DispatcherUseCase) HandlePayment(ctx context.Context, phone, receipt string) error {
	unlock := uc.locks.lock(phone)
	defer unlock()

	session, drop, err := uc.activeSession(ctx, phone)
	if err != nil {
		return err
	}

	amount, ok, err := uc.payments.ReceivePayment(ctx, session.ID, phone, receipt)
	if err != nil {
		return err
	}
	if !ok {
		return uc.messenger.LogAndSend(ctx, phone, msgPaymentNotConfirmed)
	}
	if session.ID != "" && !session.ManualOverride {
		var handled bool
		if session.DropType == entities.DropTypeItem {
			handled, err = uc.item.HandlePayment(ctx, session, drop, amount)
		} else {
			handled, err = uc.airdrop.HandlePayment(ctx, session, drop, amount)
		}
		if err != nil || handled {
			return err
		}
	}

	log.Printf("[dispatcher][usecase] unsolicited payment of %d pmob from %s, refunding", amount, phone)
	if _, err := uc.payments.SendMobToCustomer(ctx, "", phone, amount, FeeExact); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, phone, msgUnsolicitedPayment)
}

// activeSession returns the customer's single active session and its drop.
// Airdrop sessions take priority over item sessions.
func (uc *DispatcherUseCase) activeSession(ctx context.Context, phone string) (entities.DropSession, entities.Drop, error) {
	for _, dt := range []entities.DropType{entities.DropTypeAirdrop, entities.DropTypeItem} {
		session, err := uc.sessions.FindActiveByCustomer(ctx, phone, dt)
		if err != nil {
			return entities.DropSession{}, entities.Drop{}, err
		}
		if session.ID != "" {
			drop, err := uc.catalog.GetDrop(ctx, session.DropID)
			if err != nil {
				return entities.DropSession{}, entities.Drop{}, err
			}
			return session, drop, nil
		}
	}
	return entities.DropSession{}, entities.Drop{}, nil
}

func (uc *DispatcherUseCase) handleSubscribe(ctx context.Context, phone string) error {
	prefs, found, err := uc.customers.GetStorePreferences(ctx, phone, uc.cfg.Store.ID)
	if err != nil {
		return err
	}
	if found && prefs.AllowsContact {
		return uc.messenger.LogAndSend(ctx, phone, msgAlreadySubscribed)
	}
	_, err = uc.customers.UpsertStorePreferences(ctx, entities.CustomerStorePreferences{
		CustomerPhone: phone,
		StoreID:       uc.cfg.Store.ID,
		AllowsContact: true,
	})
	if err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, phone, msgSubscribeNotify)
}

func (uc *DispatcherUseCase) handleUnsubscribe(ctx context.Context, phone string) error {
	prefs, found, err := uc.customers.GetStorePreferences(ctx, phone, uc.cfg.Store.ID)
	if err != nil {
		return err
	}
	if !found || !prefs.AllowsContact {
		return uc.messenger.LogAndSend(ctx, phone, msgNotificationsOff)
	}
	prefs.AllowsContact = false
	if _, err := uc.customers.UpsertStorePreferences(ctx, prefs); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, phone, msgDisableNotifications)
}

func (uc *DispatcherUseCase) isOperator(phone string) bool {
	return phone != "" && phone == uc.cfg.Store.PhoneNumber
}
