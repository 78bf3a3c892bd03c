package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
	"dropbot/pkg/mob"
)

// FeeMode controls how the network transaction fee is charged on an outbound
// payment.
type FeeMode int

const (
	// FeeCover adds the network fee on top of the requested amount, so the
	// customer receives the full amount and the store absorbs the fee.
	FeeCover FeeMode = iota
	// FeeDeduct subtracts the network fee from the requested amount before
	// sending, so the fee comes out of the customer's refund.
	FeeDeduct
	// FeeExact sends the requested amount with no adjustment. Used for
	// returning unsolicited payments as received.
	FeeExact
)

// Polling tunables. Package vars so tests can shrink them.
var (
	TxPollAttempts     = 10
	TxPollInterval     = time.Second
	ReceiptTimeout     = 30 * time.Second
	ReceiptBackoffBase = time.Second
	ReceiptBackoffMax  = 8 * time.Second
)

// ReconcileOutcome classifies an inbound item payment against the item price.
type ReconcileOutcome int

const (
	ReconcileExact ReconcileOutcome = iota
	ReconcileUnderpaidRefunded
	ReconcileUnderpaidNoRefund
	ReconcileOverpaidRefunded
)

// PaymentUseCase coordinates every money movement: outbound payouts and
// refunds, inbound receipt settlement and item payment reconciliation. Every
// attempt is recorded as a Payment row before the wallet is touched and
// finalized in place exactly once.
type PaymentUseCase struct {
	wallet      interfaces.IWalletClient
	transport   interfaces.IMessagingTransport
	paymentRepo interfaces.IPaymentRepository
	messenger   *Messenger
	accountID   string
}

func NewPaymentUseCase(
	wallet interfaces.IWalletClient,
	transport interfaces.IMessagingTransport,
	paymentRepo interfaces.IPaymentRepository,
	messenger *Messenger,
	accountID string,
) *PaymentUseCase {
	return &PaymentUseCase{
		wallet:      wallet,
		transport:   transport,
		paymentRepo: paymentRepo,
		messenger:   messenger,
		accountID:   accountID,
	}
}

// SendMobToCustomer pays amountPmob to the customer, adjusted by the network
// minimum fee per mode. It returns the final payment record, whose AmountPmob
// is the adjusted amount actually sent; callers branch on its Status:
//
//	NOT_NECESSARY - the amount after fee deduction was zero or negative
//	NO_ADDRESS    - the customer has payments deactivated
//	SUCCEEDED     - the transaction landed and a receipt was delivered
//	FAILURE       - the transaction could not be confirmed
func (uc *PaymentUseCase) SendMobToCustomer(ctx context.Context, sessionID, phone string, amountPmob int64, mode FeeMode) (entities.Payment, error) {
	now := time.Now().UTC()
	payment, err := uc.paymentRepo.Create(ctx, entities.Payment{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		CustomerPhone: phone,
		Direction:     entities.PaymentDirectionToCustomer,
		AmountPmob:    amountPmob,
		Status:        entities.PaymentStatusNotStarted,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return entities.Payment{}, err
	}

	if mode != FeeExact {
		fee, err := uc.wallet.GetMinimumFeePmob(ctx)
		if err != nil {
			return uc.finalize(ctx, payment, entities.PaymentStatusFailure)
		}
		if mode == FeeCover {
			amountPmob += fee
		} else {
			amountPmob -= fee
			if amountPmob <= 0 {
				return uc.finalize(ctx, payment, entities.PaymentStatusNotNecessary)
			}
		}
		payment.AmountPmob = amountPmob
	}

	address, err := uc.transport.GetPaymentsAddress(ctx, phone)
	if err != nil {
		log.Printf("[payment][usecase] payments address lookup for %s failed: %v", phone, err)
		return uc.finalize(ctx, payment, entities.PaymentStatusFailure)
	}
	if address == "" {
		return uc.finalize(ctx, payment, entities.PaymentStatusNoAddress)
	}

	proposal, err := uc.wallet.BuildTransaction(ctx, uc.accountID, amountPmob, address)
	if err != nil {
		log.Printf("[payment][usecase] build transaction failed: %v", err)
		return uc.finalize(ctx, payment, entities.PaymentStatusFailure)
	}

	payment.Status = entities.PaymentStatusInProgress
	if payment, err = uc.paymentRepo.Update(ctx, payment); err != nil {
		return entities.Payment{}, err
	}

	txoID, err := uc.wallet.SubmitTransaction(ctx, proposal, uc.accountID)
	if err != nil {
		log.Printf("[payment][usecase] submit transaction failed: %v", err)
		return uc.finalize(ctx, payment, entities.PaymentStatusFailure)
	}
	payment.TxoID = txoID

	if !uc.awaitTxo(ctx, txoID) {
		log.Printf("[payment][usecase] txo %s not confirmed after %d attempts", txoID, TxPollAttempts)
		return uc.finalize(ctx, payment, entities.PaymentStatusFailure)
	}

	payment, err = uc.finalize(ctx, payment, entities.PaymentStatusSucceeded)
	if err != nil {
		return entities.Payment{}, err
	}

	// The payment stands even when the receipt cannot be produced; the
	// customer is told so they can reconcile on their side.
	receipt, rerr := uc.wallet.CreateReceipt(ctx, proposal)
	if rerr == nil {
		note := mob.FormatMob(amountPmob) + " MOB"
		rerr = uc.transport.SendPaymentReceipt(ctx, phone, receipt, note)
	}
	if rerr != nil {
		log.Printf("[payment][usecase] receipt for txo %s failed: %v", txoID, rerr)
		_ = uc.messenger.LogAndSend(ctx, phone, msgReceiptFailure)
	}
	return payment, nil
}

// awaitTxo polls the wallet until the submitted transaction lands on chain.
func (uc *PaymentUseCase) awaitTxo(ctx context.Context, txoID string) bool {
	for i := 0; i < TxPollAttempts; i++ {
		if err := uc.wallet.GetTxo(ctx, txoID); err == nil {
			return true
		}
		if !sleepCtx(ctx, TxPollInterval) {
			return false
		}
	}
	return false
}

// ReceivePayment settles an inbound payment receipt. It polls the network
// with exponential backoff until the receipt resolves or ReceiptTimeout
// elapses, records a Payment row for the outcome against the customer's open
// session (empty sessionID for unsolicited money), and returns the settled
// amount. ok is false when the receipt failed or timed out.
func (uc *PaymentUseCase) ReceivePayment(ctx context.Context, sessionID, phone, receipt string) (amountPmob int64, ok bool, err error) {
	status := entities.PaymentStatusFailure
	deadline := time.Now().Add(ReceiptTimeout)
	backoff := ReceiptBackoffBase

poll:
	for {
		rs, rerr := uc.wallet.CheckReceiptStatus(ctx, receipt)
		if rerr != nil {
			log.Printf("[payment][usecase] receipt status check failed: %v", rerr)
			break
		}
		switch rs.Status {
		case interfaces.TransactionSucceeded:
			amountPmob = rs.AmountPmob
			status = entities.PaymentStatusSucceeded
			break poll
		case interfaces.TransactionFailed:
			break poll
		}
		if time.Now().After(deadline) {
			log.Printf("[payment][usecase] receipt from %s still pending after %s, giving up", phone, ReceiptTimeout)
			break
		}
		if !sleepCtx(ctx, backoff) {
			break
		}
		backoff *= 2
		if backoff > ReceiptBackoffMax {
			backoff = ReceiptBackoffMax
		}
	}

	now := time.Now().UTC()
	_, err = uc.paymentRepo.Create(ctx, entities.Payment{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		CustomerPhone: phone,
		Direction:     entities.PaymentDirectionToStore,
		AmountPmob:    amountPmob,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return 0, false, err
	}
	return amountPmob, status == entities.PaymentStatusSucceeded, nil
}

// ReconcileItemPayment compares a settled inbound payment against the item
// price and returns any difference to the customer. Underpayments are
// refunded minus the network fee; when the amount does not even cover the
// fee, nothing is sent back. Overpayments refund the excess minus the fee.
// The refund record is zero-valued for ReconcileExact and
// ReconcileUnderpaidNoRefund.
func (uc *PaymentUseCase) ReconcileItemPayment(ctx context.Context, session entities.DropSession, pricePmob, paidPmob int64) (ReconcileOutcome, entities.Payment, error) {
	switch {
	case paidPmob == pricePmob:
		return ReconcileExact, entities.Payment{}, nil

	case paidPmob < pricePmob:
		fee, err := uc.wallet.GetMinimumFeePmob(ctx)
		if err != nil {
			return 0, entities.Payment{}, err
		}
		if paidPmob-fee <= 0 {
			return ReconcileUnderpaidNoRefund, entities.Payment{}, nil
		}
		refund, err := uc.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, paidPmob, FeeDeduct)
		if err != nil {
			return 0, entities.Payment{}, err
		}
		return ReconcileUnderpaidRefunded, refund, nil

	default:
		refund, err := uc.SendMobToCustomer(ctx, session.ID, session.CustomerPhone, paidPmob-pricePmob, FeeDeduct)
		if err != nil {
			return 0, entities.Payment{}, err
		}
		return ReconcileOverpaidRefunded, refund, nil
	}
}

func (uc *PaymentUseCase) finalize(ctx context.Context, p entities.Payment, status entities.PaymentStatus) (entities.Payment, error) {
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return uc.paymentRepo.Update(ctx, p)
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
