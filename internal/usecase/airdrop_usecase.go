package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"dropbot/internal/domain/commands"
	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// AirdropUseCase drives the airdrop session state machine. Sessions walk
// READY -> WAITING_FOR_BONUS_TX -> ALLOW_CONTACT_REQUESTED -> COMPLETED and
// are advanced by customer text in the early states and by an inbound payment
// in the waiting state.
type AirdropUseCase struct {
	cfg       Config
	router    *commands.Router
	contact   contactPrompt
	catalog   interfaces.ICatalogRepository
	sessions  interfaces.ISessionRepository
	customers interfaces.ICustomerRepository
	wallet    interfaces.IWalletClient
	transport interfaces.IMessagingTransport
	inventory *InventoryUseCase
	payments  *PaymentUseCase
	messenger *Messenger

	// randIntn draws the flattened bonus pool index. Overridden in tests.
	randIntn func(n int) int
}

func NewAirdropUseCase(
	cfg Config,
	router *commands.Router,
	catalog interfaces.ICatalogRepository,
	sessions interfaces.ISessionRepository,
	customers interfaces.ICustomerRepository,
	wallet interfaces.IWalletClient,
	transport interfaces.IMessagingTransport,
	inventory *InventoryUseCase,
	payments *PaymentUseCase,
	messenger *Messenger,
) *AirdropUseCase {
	return &AirdropUseCase{
		cfg:       cfg,
		router:    router,
		contact:   contactPrompt{router: router, sessions: sessions, customers: customers, messenger: messenger, store: cfg.Store},
		catalog:   catalog,
		sessions:  sessions,
		customers: customers,
		wallet:    wallet,
		transport: transport,
		inventory: inventory,
		payments:  payments,
		messenger: messenger,
		randIntn:  rand.Intn,
	}
}

// StartSession qualifies the customer for an active airdrop and creates the
// READY session. Every disqualification is explained in chat and leaves no
// session behind.
func (uc *AirdropUseCase) StartSession(ctx context.Context, phone string, drop entities.Drop) error {
	if !phoneAllowed(drop, phone) {
		return uc.messenger.LogAndSend(ctx, phone, msgCountryRestricted)
	}

	address, err := uc.transport.GetPaymentsAddress(ctx, phone)
	if err != nil {
		return err
	}
	if address == "" {
		return uc.messenger.LogAndSend(ctx, phone, msgPaymentsEnabledHelp("free MOB"))
	}

	underQuota, err := uc.inventory.UnderDropQuota(ctx, drop)
	if err != nil {
		return err
	}
	if !underQuota {
		return uc.messenger.LogAndSend(ctx, phone, msgOverQuota)
	}
	ok, err := uc.reserveCoversInitial(ctx, drop)
	if err != nil {
		return err
	}
	if !ok {
		return uc.messenger.LogAndSend(ctx, phone, msgNoCoinLeft)
	}

	if _, err := uc.customers.GetOrCreate(ctx, phone); err != nil {
		return err
	}
	session, created, err := uc.sessions.GetOrCreate(ctx, newSession(phone, drop, time.Now().UTC()))
	if err != nil {
		return err
	}
	if !created {
		// The pair already has a session; a terminal one means the customer
		// played this drop before.
		if session.Terminal() {
			return uc.messenger.LogAndSend(ctx, phone, msgAirdropSummary)
		}
		return uc.HandleText(ctx, session, drop, "")
	}

	greeting := msgAirdropDescription + "\n\n" + msgAirdropInstructions(drop) + "\n\n" + msgAirdropReady
	return uc.messenger.LogAndSend(ctx, phone, greeting)
}

// HandleText advances an active airdrop session on an inbound customer
// message.
func (uc *AirdropUseCase) HandleText(ctx context.Context, session entities.DropSession, drop entities.Drop, text string) error {
	if session.Terminal() {
		return nil
	}
	switch session.AirdropState() {
	case entities.AirdropStateReady:
		return uc.handleReady(ctx, session, drop, text)
	case entities.AirdropStateWaitingForBonusTx:
		return uc.handleWaiting(ctx, session, drop, text)
	case entities.AirdropStateAllowContactRequested:
		_, err := uc.contact.handle(ctx, session, text, msgAirdropCompleted)
		return err
	default:
		return fmt.Errorf("airdrop session %s in unhandled state %d", session.ID, session.State)
	}
}

func (uc *AirdropUseCase) handleReady(ctx context.Context, session entities.DropSession, drop entities.Drop, text string) error {
	switch uc.router.Resolve(text) {
	case commands.No:
		session.State = int(entities.AirdropStateCancelled)
		if _, err := uc.sessions.Update(ctx, session); err != nil {
			return err
		}
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgSessionCancelled)

	case commands.Yes:
		return uc.startPayout(ctx, session, drop)

	case commands.Privacy:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))

	default:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgYesNoHelp)
	}
}

// startPayout consumes one unit of the initial-coin quota and sends the
// initial amount. The quota claim is the race-safe gate: when two customers
// race the last unit, the conditional write decides.
func (uc *AirdropUseCase) startPayout(ctx context.Context, session entities.DropSession, drop entities.Drop) error {
	if err := uc.inventory.ClaimInitialCoin(ctx, drop.ID); err != nil {
		if err == interfaces.ErrOverQuota {
			return uc.finishWith(ctx, session, msgOverQuota)
		}
		return err
	}
	ok, err := uc.reserveCoversInitial(ctx, drop)
	if err != nil {
		return err
	}
	if !ok {
		return uc.finishWith(ctx, session, msgNoCoinLeft)
	}

	payment, err := uc.payments.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, drop.InitialCoinAmountPmob, FeeCover)
	if err != nil {
		return err
	}
	switch payment.Status {
	case entities.PaymentStatusSucceeded:
		session.State = int(entities.AirdropStateWaitingForBonusTx)
		if _, err := uc.sessions.Update(ctx, session); err != nil {
			return err
		}
		msg := msgAirdropInitialize(drop) + "\n\n" + msgAirdropResponse(drop)
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msg)
	case entities.PaymentStatusNoAddress:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone,
			fmt.Sprintf(msgPaymentsDeactivated, uc.cfg.Store.PhoneNumber))
	default:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPaymentNotConfirmed)
	}
}

func (uc *AirdropUseCase) handleWaiting(ctx context.Context, session entities.DropSession, drop entities.Drop, text string) error {
	switch uc.router.Resolve(text) {
	case commands.Pay:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPayHelp)
	case commands.Describe:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgAirdropInstructions(drop))
	case commands.Privacy:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicy(uc.cfg.Store.PrivacyPolicyURL))
	default:
		return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgAirdropCommands)
	}
}

// HandlePayment settles the customer's returned coin: draw a bonus from the
// flattened remaining pool, claim it atomically, and pay back the
// contribution plus the bonus plus one network fee. handled is false when the
// session is not waiting for a payment, in which case the dispatcher treats
// the payment as unsolicited.
func (uc *AirdropUseCase) HandlePayment(ctx context.Context, session entities.DropSession, drop entities.Drop, paidPmob int64) (handled bool, err error) {
	if session.AirdropState() != entities.AirdropStateWaitingForBonusTx {
		return false, nil
	}

	coin, drawn, err := uc.drawBonusCoin(ctx, session, drop)
	if err != nil {
		return true, err
	}
	if !drawn {
		if _, err := uc.payments.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, paidPmob, FeeCover); err != nil {
			return true, err
		}
		return true, uc.finishWith(ctx, session, msgBonusSoldOutRefund(paidPmob))
	}
	session.BonusCoinClaimed = coin.ID

	payout := paidPmob + coin.AmountPmob
	payment, err := uc.payments.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, payout, FeeCover)
	if err != nil {
		return true, err
	}
	if payment.Status != entities.PaymentStatusSucceeded {
		return true, uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgPaymentNotConfirmed)
	}

	prize := drop.InitialCoinAmountPmob + coin.AmountPmob
	if err := uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgRefundSent(payment.AmountPmob, prize)); err != nil {
		return true, err
	}

	onFile, err := uc.contact.hasStorePreferences(ctx, session.CustomerPhone)
	if err != nil {
		return true, err
	}
	if onFile {
		return true, uc.finishWith(ctx, session, msgAirdropCompleted)
	}
	session.State = int(entities.AirdropStateAllowContactRequested)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return true, err
	}
	return true, uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgNotificationsAsk)
}

// drawBonusCoin picks uniformly over the flattened remaining pool and claims
// the pick. A claim lost to a concurrent customer re-draws from a fresh pool;
// drawn is false once nothing is left.
func (uc *AirdropUseCase) drawBonusCoin(ctx context.Context, session entities.DropSession, drop entities.Drop) (entities.BonusCoin, bool, error) {
	for {
		pool, counts, err := uc.inventory.RemainingBonusPool(ctx, drop.ID)
		if err != nil {
			return entities.BonusCoin{}, false, err
		}
		total := 0
		for _, c := range counts {
			total += c
		}
		if total == 0 {
			return entities.BonusCoin{}, false, nil
		}

		pick := uc.randIntn(total)
		var coin entities.BonusCoin
		for i, c := range counts {
			if pick < c {
				coin = pool[i]
				break
			}
			pick -= c
		}

		switch err := uc.sessions.ClaimBonusCoin(ctx, session.ID, coin); err {
		case nil:
			return coin, true, nil
		case interfaces.ErrBonusCoinExhausted:
			log.Printf("[airdrop][usecase] bonus coin %s exhausted under race, redrawing", coin.ID)
		default:
			return entities.BonusCoin{}, false, err
		}
	}
}

// reserveCoversInitial reports whether the wallet holds enough unspent MOB to
// fund one more initial payout plus its fee.
func (uc *AirdropUseCase) reserveCoversInitial(ctx context.Context, drop entities.Drop) (bool, error) {
	unspent, err := uc.wallet.GetUnspentPmob(ctx, uc.cfg.AccountID)
	if err != nil {
		return false, err
	}
	fee, err := uc.wallet.GetMinimumFeePmob(ctx)
	if err != nil {
		return false, err
	}
	return unspent >= drop.InitialCoinAmountPmob+fee, nil
}

func (uc *AirdropUseCase) finishWith(ctx context.Context, session entities.DropSession, msg string) error {
	session.State = int(entities.AirdropStateCompleted)
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msg)
}
