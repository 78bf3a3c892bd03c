package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dropbot/internal/domain/commands"
	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// ItemUseCase drives the item-sale session state machine: payment first, then
// size, shipping name, shipping address and a final confirmation. Every state
// past payment is refundable until the order is confirmed.
type ItemUseCase struct {
	cfg       Config
	router    *commands.Router
	contact   contactPrompt
	catalog   interfaces.ICatalogRepository
	sessions  interfaces.ISessionRepository
	customers interfaces.ICustomerRepository
	orders    interfaces.IOrderRepository
	geocoder  interfaces.IGeocoder
	transport interfaces.IMessagingTransport
	inventory *InventoryUseCase
	payments  *PaymentUseCase
	messenger *Messenger
}

func NewItemUseCase(
	cfg Config,
	router *commands.Router,
	catalog interfaces.ICatalogRepository,
	sessions interfaces.ISessionRepository,
	customers interfaces.ICustomerRepository,
	orders interfaces.IOrderRepository,
	geocoder interfaces.IGeocoder,
	transport interfaces.IMessagingTransport,
	inventory *InventoryUseCase,
	payments *PaymentUseCase,
	messenger *Messenger,
) *ItemUseCase {
	return &ItemUseCase{
		cfg:       cfg,
		router:    router,
		contact:   contactPrompt{router: router, sessions: sessions, customers: customers, messenger: messenger, store: cfg.Store},
		catalog:   catalog,
		sessions:  sessions,
		customers: customers,
		orders:    orders,
		geocoder:  geocoder,
		transport: transport,
		inventory: inventory,
		payments:  payments,
		messenger: messenger,
	}
}

// StartSession qualifies the customer for an active item drop and opens the
// session in WAITING_FOR_PAYMENT with the sales pitch.
func (uc *ItemUseCase) StartSession(ctx context.Context, phone string, drop entities.Drop) error {
	if !phoneAllowed(drop, phone) {
		return uc.messenger.LogAndSend(ctx, phone, msgCountryRestricted)
	}
	item, err := uc.catalog.GetItem(ctx, drop.ItemID)
	if err != nil {
		return err
	}

	address, err := uc.transport.GetPaymentsAddress(ctx, phone)
	if err != nil {
		return err
	}
	if address == "" {
		return uc.messenger.LogAndSend(ctx, phone, msgPaymentsEnabledHelp(item.ShortDescription))
	}

	inStock, err := uc.inventory.ItemInStock(ctx, item.ID)
	if err != nil {
		return err
	}
	if !inStock {
		return uc.messenger.LogAndSend(ctx, phone, msgOutOfStock)
	}

	if _, err := uc.customers.GetOrCreate(ctx, phone); err != nil {
		return err
	}
	session, created, err := uc.sessions.GetOrCreate(ctx, newSession(phone, drop, time.Now().UTC()))
	if err != nil {
		return err
	}
	if !created {
		if session.Terminal() {
			return uc.messenger.LogAndSend(ctx, phone, msgItemAlreadyOrdered)
		}
		return uc.HandleText(ctx, session, drop, "")
	}

	session.State = int(entities.ItemStateWaitingForPayment)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	pitch := msgItemDropGreeting(uc.cfg.Store, item) + "\n\n" +
		msgItemPrice(item, drop) + "\n\n" +
		msgPaymentRequest(item.PriceInPmob)
	return uc.messenger.LogAndSend(ctx, phone, pitch)
}

// HandleText advances an active item session on an inbound customer message.
func (uc *ItemUseCase) HandleText(ctx context.Context, session entities.DropSession, drop entities.Drop, text string) error {
	if session.Terminal() {
		return nil
	}
	item, err := uc.catalog.GetItem(ctx, drop.ItemID)
	if err != nil {
		return err
	}
	switch session.ItemState() {
	case entities.ItemStateNew, entities.ItemStateWaitingForPayment:
		return uc.handleWaitingForPayment(ctx, session, item, text)
	case entities.ItemStateWaitingForSize:
		return uc.handleWaitingForSize(ctx, session, drop, item, text)
	case entities.ItemStateWaitingForName:
		return uc.handleWaitingForName(ctx, session, drop, item, text)
	case entities.ItemStateWaitingForAddress:
		return uc.handleWaitingForAddress(ctx, session, drop, item, text)
	case entities.ItemStateShippingInfoConfirmation:
		return uc.handleShippingConfirmation(ctx, session, drop, item, text)
	case entities.ItemStateAllowContactRequested:
		_, err := uc.contact.handle(ctx, session, text, msgBye)
		return err
	default:
		return fmt.Errorf("item session %s in unhandled state %d", session.ID, session.State)
	}
}

func (uc *ItemUseCase) handleWaitingForPayment(ctx context.Context, session entities.DropSession, item entities.Item, text string) error {
	switch uc.router.Resolve(text) {
	case commands.No:
		// Nothing has been paid yet, so cancelling here owes no refund.
		session.State = int(entities.ItemStateCancelled)
		if _, err := uc.sessions.Update(ctx, session); err != nil {
			return err
		}
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgSessionCancelled)
	case commands.Pay:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPayHelp)
	case commands.Privacy, commands.Terms:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))
	case commands.Info:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, item.Description)
	default:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgItemHelp(item.PriceInPmob))
	}
}

func (uc *ItemUseCase) handleWaitingForSize(ctx context.Context, session entities.DropSession, drop entities.Drop, item entities.Item, text string) error {
	switch {
	case uc.router.Matches(text, commands.No) || uc.router.Matches(text, commands.Refund):
		return uc.cancelAndRefund(ctx, session, drop, item, msgItemOptionCancel)
	case uc.router.Matches(text, commands.Privacy):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))
	case uc.router.Matches(text, commands.Chart) || uc.router.Matches(text, commands.Info):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgItemOptionHelp())
	case uc.router.Matches(text, commands.Help):
		return uc.sendSizeOptions(ctx, session, item)
	}

	sku, err := uc.catalog.FindSkuByIdentifier(ctx, item.ID, strings.TrimSpace(text))
	if err != nil {
		return err
	}
	if sku.ID == "" {
		if err := uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgMissingSize(strings.TrimSpace(text))); err != nil {
			return err
		}
		return uc.sendSizeOptions(ctx, session, item)
	}

	order := entities.Order{
		ID:                          uuid.NewString(),
		CustomerPhone:               session.CustomerPhone,
		SessionID:                   session.ID,
		SkuID:                       sku.ID,
		Date:                        time.Now().UTC(),
		Status:                      entities.OrderStatusStarted,
		ConversionRateMobToCurrency: drop.ConversionRateMobToCurrency,
	}
	if _, err := uc.orders.CreateForSku(ctx, order, sku); err != nil {
		if err == interfaces.ErrSkuSoldOut {
			inStock, serr := uc.inventory.ItemInStock(ctx, item.ID)
			if serr != nil {
				return serr
			}
			if !inStock {
				return uc.cancelAndRefund(ctx, session, drop, item, msgOutOfStockRefund)
			}
			if err := uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgItemSoldOut); err != nil {
				return err
			}
			return uc.sendSizeOptions(ctx, session, item)
		}
		return err
	}

	session.State = int(entities.ItemStateWaitingForName)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNameRequest)
}

func (uc *ItemUseCase) handleWaitingForName(ctx context.Context, session entities.DropSession, drop entities.Drop, item entities.Item, text string) error {
	switch {
	case uc.router.Matches(text, commands.No) || uc.router.Matches(text, commands.Refund):
		return uc.cancelAndRefund(ctx, session, drop, item, msgItemOptionCancel)
	case uc.router.Matches(text, commands.Privacy):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))
	case uc.router.Matches(text, commands.Help):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNameHelp)
	}

	order, err := uc.orders.GetBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	if order.ID == "" {
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgMissingOrder)
	}
	order.ShippingName = strings.TrimSpace(text)
	if _, err := uc.orders.Update(ctx, order); err != nil {
		return err
	}

	session.State = int(entities.ItemStateWaitingForAddress)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgAddressRequest)
}

func (uc *ItemUseCase) handleWaitingForAddress(ctx context.Context, session entities.DropSession, drop entities.Drop, item entities.Item, text string) error {
	switch {
	case uc.router.Matches(text, commands.No) || uc.router.Matches(text, commands.Refund):
		return uc.cancelAndRefund(ctx, session, drop, item, msgItemOptionCancel)
	case uc.router.Matches(text, commands.Privacy):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))
	case uc.router.Matches(text, commands.Help):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgAddressHelp(item.Name))
	}

	result, err := uc.geocoder.Geocode(ctx, text, drop.CountryCodeRestriction)
	if err != nil {
		return err
	}
	if !result.Found {
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgAddressNotFound)
	}
	if !strings.EqualFold(result.CountryCode, drop.CountryCodeRestriction) {
		return uc.cancelAndRefund(ctx, session, drop, item, msgAddressRestriction(drop.CountryLongNameRestriction))
	}

	order, err := uc.orders.GetBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	if order.ID == "" {
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgMissingOrder)
	}
	order.ShippingAddress = result.FormattedAddress
	if _, err := uc.orders.Update(ctx, order); err != nil {
		return err
	}

	session.State = int(entities.ItemStateShippingInfoConfirmation)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgVerifyShipping(order.ShippingName, order.ShippingAddress))
}

func (uc *ItemUseCase) handleShippingConfirmation(ctx context.Context, session entities.DropSession, drop entities.Drop, item entities.Item, text string) error {
	switch {
	case uc.router.Matches(text, commands.No) || uc.router.Matches(text, commands.Refund):
		return uc.cancelAndRefund(ctx, session, drop, item, msgItemOptionCancel)
	case uc.router.Matches(text, commands.Name):
		session.State = int(entities.ItemStateWaitingForName)
		if _, err := uc.sessions.Update(ctx, session); err != nil {
			return err
		}
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNameRequest)
	case uc.router.Matches(text, commands.Privacy):
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))
	case uc.router.Matches(text, commands.Help):
		order, err := uc.orders.GetBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		if order.ID == "" {
			return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgMissingOrder)
		}
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgShippingConfirmationHelp(order.ShippingName, order.ShippingAddress))
	}

	// Anything else confirms the order as shown.
	order, err := uc.orders.GetBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	if order.ID == "" {
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgMissingOrder)
	}
	var sku entities.Sku
	for _, candidate := range uc.mustListSkus(ctx, item.ID) {
		if candidate.ID == order.SkuID {
			sku = candidate
			break
		}
	}

	order.Status = entities.OrderStatusConfirmed
	if order, err = uc.orders.Update(ctx, order); err != nil {
		return err
	}
	confirmation := msgOrderConfirmation(order, item, sku, uc.cfg.Store, drop, uc.cfg.VATID)
	if err := uc.messenger.LogAndSend(ctx, session.CustomerPhone, confirmation); err != nil {
		return err
	}

	onFile, err := uc.contact.hasStorePreferences(ctx, session.CustomerPhone)
	if err != nil {
		return err
	}
	if onFile {
		_, err := uc.contact.complete(ctx, session, msgBye)
		return err
	}
	session.State = int(entities.ItemStateAllowContactRequested)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNotificationsAsk)
}

// HandlePayment reconciles an inbound settled payment against the item price.
// handled is false when the session is not waiting for one.
func (uc *ItemUseCase) HandlePayment(ctx context.Context, session entities.DropSession, drop entities.Drop, paidPmob int64) (handled bool, err error) {
	if st := session.ItemState(); st != entities.ItemStateNew && st != entities.ItemStateWaitingForPayment {
		return false, nil
	}
	item, err := uc.catalog.GetItem(ctx, drop.ItemID)
	if err != nil {
		return true, err
	}

	inStock, err := uc.inventory.ItemInStock(ctx, item.ID)
	if err != nil {
		return true, err
	}
	if !inStock {
		if _, err := uc.payments.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, paidPmob, FeeCover); err != nil {
			return true, err
		}
		session.State = int(entities.ItemStateRefunded)
		if _, err := uc.sessions.Update(ctx, session); err != nil {
			return true, err
		}
		return true, uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgOutOfStockRefund)
	}

	outcome, refund, err := uc.payments.ReconcileItemPayment(ctx, session, item.PriceInPmob, paidPmob)
	if err != nil {
		return true, err
	}
	switch outcome {
	case ReconcileUnderpaidNoRefund:
		return true, uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNotEnough)
	case ReconcileUnderpaidRefunded:
		if refund.Status == entities.PaymentStatusSucceeded {
			return true, uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNotEnoughRefund(refund.AmountPmob))
		}
		return true, uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPaymentNotConfirmed)
	case ReconcileOverpaidRefunded:
		if refund.Status == entities.PaymentStatusSucceeded {
			if err := uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgExcessPayment(refund.AmountPmob)); err != nil {
				return true, err
			}
		}
	}

	session.State = int(entities.ItemStateWaitingForSize)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return true, err
	}
	if err := uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPaymentReceived(paidPmob)); err != nil {
		return true, err
	}
	return true, uc.sendSizeOptions(ctx, session, item)
}

// cancelAndRefund cancels any open order, refunds the item price and parks
// the session in REFUNDED. The transaction fee is covered by the store while
// the customer is under the drop's fee-refund cap, deducted from the refund
// after that.
func (uc *ItemUseCase) cancelAndRefund(ctx context.Context, session entities.DropSession, drop entities.Drop, item entities.Item, notice string) error {
	if order, err := uc.orders.GetBySession(ctx, session.ID); err == nil && order.ID != "" && order.Status.Active() {
		order.Status = entities.OrderStatusCancelled
		if _, err := uc.orders.Update(ctx, order); err != nil {
			return err
		}
	}

	granted, err := uc.customers.ClaimFeeRefund(ctx, session.CustomerPhone, drop.ID, drop.MaxRefundTransactionFeesCovered)
	if err != nil {
		return err
	}
	mode := FeeDeduct
	if granted {
		mode = FeeCover
	}
	payment, err := uc.payments.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, item.PriceInPmob, mode)
	if err != nil {
		return err
	}

	session.State = int(entities.ItemStateRefunded)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	if payment.Status == entities.PaymentStatusNoAddress {
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone,
			fmt.Sprintf(msgPaymentsDeactivated, uc.cfg.Store.PhoneNumber))
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, notice)
}

func (uc *ItemUseCase) sendSizeOptions(ctx context.Context, session entities.DropSession, item entities.Item) error {
	available, err := uc.inventory.AvailableSkus(ctx, item.ID)
	if err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgSizeOptions(available))
}

func (uc *ItemUseCase) mustListSkus(ctx context.Context, itemID string) []entities.Sku {
	skus, err := uc.catalog.ListSkus(ctx, itemID)
	if err != nil {
		return nil
	}
	return skus
}
