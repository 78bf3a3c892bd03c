package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"dropbot/internal/adapter/persistence/memory"
	"dropbot/internal/domain/commands"
	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces/mocks"
)

const (
	testPhone   = "+447700900001"
	testInitial = 3_000_000_000_000 // 3 MOB
	testBonus   = 1_000_000_000_000 // 1 MOB
	testUnspent = 1_000_000_000_000_000
)

func testAirdrop() entities.Drop {
	now := time.Now().UTC()
	return entities.Drop{
		ID:                    "drop-1",
		StoreID:               "store-1",
		DropType:              entities.DropTypeAirdrop,
		StartTime:             now.Add(-time.Hour),
		EndTime:               now.Add(time.Hour),
		NumberRestriction:     "+44",
		InitialCoinAmountPmob: testInitial,
		InitialCoinLimit:      2,
	}
}

type airdropFixture struct {
	uc        *AirdropUseCase
	wallet    *mocks.MockIWalletClient
	transport *mocks.MockIMessagingTransport
	mem       *memory.Store
	drop      entities.Drop
}

func newAirdropFixture(t *testing.T) *airdropFixture {
	t.Helper()
	shrinkPollTunables(t)
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockIWalletClient(ctrl)
	transport := mocks.NewMockIMessagingTransport(ctrl)
	mem := memory.New()

	cfg := Config{
		Store: entities.Store{
			ID:               "store-1",
			PhoneNumber:      "+15550000000",
			PrivacyPolicyURL: "https://example.com/privacy",
		},
		AccountID: "account-1",
	}
	messenger := NewMessenger(transport, mem.Messages(), cfg.Store.ID)
	payments := NewPaymentUseCase(wallet, transport, mem.Payments(), messenger, cfg.AccountID)
	inventory := NewInventoryUseCase(mem.Catalog(), mem.Sessions(), mem.Orders())
	router := commands.NewRouter(commands.Help)
	uc := NewAirdropUseCase(cfg, router, mem.Catalog(), mem.Sessions(), mem.Customers(), wallet, transport, inventory, payments, messenger)

	drop := testAirdrop()
	mem.SeedDrop(drop)
	return &airdropFixture{uc: uc, wallet: wallet, transport: transport, mem: mem, drop: drop}
}

// expectChat accepts any number of plain outbound messages.
func (f *airdropFixture) expectChat(ctx context.Context) {
	f.transport.EXPECT().SendMessage(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// expectReserve satisfies the wallet balance check before an initial payout.
func (f *airdropFixture) expectReserve(ctx context.Context) {
	f.wallet.EXPECT().GetUnspentPmob(ctx, "account-1").Return(int64(testUnspent), nil).AnyTimes()
	f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil).AnyTimes()
}

// expectPayout wires a full successful outbound payment of amount.
func (f *airdropFixture) expectPayout(ctx context.Context, amount int64) {
	proposal := json.RawMessage(`{"tx":"proposal"}`)
	f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)
	f.wallet.EXPECT().BuildTransaction(ctx, "account-1", amount, "addr-1").Return(proposal, nil)
	f.wallet.EXPECT().SubmitTransaction(ctx, proposal, "account-1").Return("txo-1", nil)
	f.wallet.EXPECT().GetTxo(ctx, "txo-1").Return(nil)
	f.wallet.EXPECT().CreateReceipt(ctx, proposal).Return("receipt-1", nil)
	f.transport.EXPECT().SendPaymentReceipt(ctx, testPhone, "receipt-1", gomock.Any()).Return(nil)
}

func (f *airdropFixture) session(t *testing.T, state entities.AirdropState) entities.DropSession {
	t.Helper()
	ctx := context.Background()
	sess, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, f.drop, time.Now().UTC()))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	sess.State = int(state)
	sess, err = f.mem.Sessions().Update(ctx, sess)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	return sess
}

func (f *airdropFixture) sessionState(t *testing.T, id string) entities.AirdropState {
	t.Helper()
	sess, err := f.mem.Sessions().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return sess.AirdropState()
}

func lastMessage(t *testing.T, mem *memory.Store) string {
	t.Helper()
	log := mem.MessageLog()
	if len(log) == 0 {
		t.Fatal("no message logged")
	}
	return log[len(log)-1].Text
}

func TestAirdropStartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects restricted numbers", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)

		if err := f.uc.StartSession(ctx, "+15551234567", f.drop); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		if got := lastMessage(t, f.mem); got != msgCountryRestricted {
			t.Fatalf("message = %q, want country restriction", got)
		}
	})

	t.Run("no payments address leaves no session", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("", nil)

		if err := f.uc.StartSession(ctx, testPhone, f.drop); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		sess, err := f.mem.Sessions().FindActiveByCustomer(ctx, testPhone, entities.DropTypeAirdrop)
		if err != nil {
			t.Fatalf("FindActiveByCustomer: %v", err)
		}
		if sess.ID != "" {
			t.Fatalf("session %s created before payments were enabled", sess.ID)
		}
		if got := lastMessage(t, f.mem); got != msgPaymentsEnabledHelp("free MOB") {
			t.Fatalf("message = %q, want payments help", got)
		}
	})

	t.Run("creates a ready session", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.expectReserve(ctx)
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)

		if err := f.uc.StartSession(ctx, testPhone, f.drop); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		sess, err := f.mem.Sessions().FindActiveByCustomer(ctx, testPhone, entities.DropTypeAirdrop)
		if err != nil {
			t.Fatalf("FindActiveByCustomer: %v", err)
		}
		if sess.ID == "" || sess.AirdropState() != entities.AirdropStateReady {
			t.Fatalf("session = %+v, want READY", sess)
		}
	})

	t.Run("quota exhausted before the session exists", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)
		for i := 0; i < f.drop.InitialCoinLimit; i++ {
			if err := f.mem.Catalog().ClaimInitialCoin(ctx, f.drop.ID); err != nil {
				t.Fatalf("ClaimInitialCoin: %v", err)
			}
		}

		if err := f.uc.StartSession(ctx, testPhone, f.drop); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		if got := lastMessage(t, f.mem); got != msgOverQuota {
			t.Fatalf("message = %q, want over quota", got)
		}
	})

	t.Run("terminal session replays the summary", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.expectReserve(ctx)
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)
		sess := f.session(t, entities.AirdropStateCompleted)

		if err := f.uc.StartSession(ctx, testPhone, f.drop); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCompleted {
			t.Fatalf("state = %d, terminal session was mutated", got)
		}
		if got := lastMessage(t, f.mem); got != msgAirdropSummary {
			t.Fatalf("message = %q, want summary", got)
		}
	})
}

func TestAirdropReady(t *testing.T) {
	ctx := context.Background()

	t.Run("no cancels the session", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		sess := f.session(t, entities.AirdropStateReady)

		if err := f.uc.HandleText(ctx, sess, f.drop, "cancel"); err != nil {
			t.Fatalf("HandleText: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCancelled {
			t.Fatalf("state = %d, want cancelled", got)
		}
	})

	t.Run("yes claims quota and pays the initial coin", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.expectReserve(ctx)
		// The store covers the network fee on top of the initial amount.
		f.expectPayout(ctx, testInitial+testFeePmob)
		sess := f.session(t, entities.AirdropStateReady)

		if err := f.uc.HandleText(ctx, sess, f.drop, "yes"); err != nil {
			t.Fatalf("HandleText: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateWaitingForBonusTx {
			t.Fatalf("state = %d, want waiting for bonus tx", got)
		}
		claims, err := f.mem.Catalog().CountInitialClaims(ctx, f.drop.ID)
		if err != nil {
			t.Fatalf("CountInitialClaims: %v", err)
		}
		if claims != 1 {
			t.Fatalf("initial claims = %d, want 1", claims)
		}
	})

	t.Run("yes after the quota ran out completes without paying", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		sess := f.session(t, entities.AirdropStateReady)
		for i := 0; i < f.drop.InitialCoinLimit; i++ {
			if err := f.mem.Catalog().ClaimInitialCoin(ctx, f.drop.ID); err != nil {
				t.Fatalf("ClaimInitialCoin: %v", err)
			}
		}

		if err := f.uc.HandleText(ctx, sess, f.drop, "yes"); err != nil {
			t.Fatalf("HandleText: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCompleted {
			t.Fatalf("state = %d, want completed", got)
		}
		if got := lastMessage(t, f.mem); got != msgOverQuota {
			t.Fatalf("message = %q, want over quota", got)
		}
	})

	t.Run("anything else reprompts", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		sess := f.session(t, entities.AirdropStateReady)

		if err := f.uc.HandleText(ctx, sess, f.drop, "maybe"); err != nil {
			t.Fatalf("HandleText: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateReady {
			t.Fatalf("state = %d, want ready", got)
		}
		if got := lastMessage(t, f.mem); got != msgYesNoHelp {
			t.Fatalf("message = %q, want yes/no help", got)
		}
	})
}

func TestAirdropHandlePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("ignored outside the waiting state", func(t *testing.T) {
		f := newAirdropFixture(t)
		sess := f.session(t, entities.AirdropStateReady)

		handled, err := f.uc.HandlePayment(ctx, sess, f.drop, testInitial)
		if err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		if handled {
			t.Fatal("payment handled in READY state")
		}
	})

	t.Run("pays back contribution plus bonus plus fee", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.mem.SeedBonusCoin(entities.BonusCoin{ID: "coin-1", DropID: f.drop.ID, AmountPmob: testBonus, NumberAvailable: 1})
		f.uc.randIntn = func(n int) int { return 0 }
		sess := f.session(t, entities.AirdropStateWaitingForBonusTx)

		payout := int64(testInitial + testBonus + testFeePmob)
		f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil)
		f.expectPayout(ctx, payout)

		handled, err := f.uc.HandlePayment(ctx, sess, f.drop, testInitial)
		if err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		if !handled {
			t.Fatal("waiting session did not handle the payment")
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateAllowContactRequested {
			t.Fatalf("state = %d, want allow contact requested", got)
		}
		claimed, err := f.mem.Sessions().CountBonusCoinClaims(ctx, "coin-1")
		if err != nil {
			t.Fatalf("CountBonusCoinClaims: %v", err)
		}
		if claimed != 1 {
			t.Fatalf("coin claims = %d, want 1", claimed)
		}
		if got := lastMessage(t, f.mem); got != msgNotificationsAsk {
			t.Fatalf("message = %q, want notifications ask", got)
		}
	})

	t.Run("known customer completes without the contact prompt", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.mem.SeedBonusCoin(entities.BonusCoin{ID: "coin-1", DropID: f.drop.ID, AmountPmob: testBonus, NumberAvailable: 1})
		f.uc.randIntn = func(n int) int { return 0 }
		if _, err := f.mem.Customers().UpsertStorePreferences(ctx, entities.CustomerStorePreferences{
			CustomerPhone: testPhone,
			StoreID:       "store-1",
			AllowsContact: true,
		}); err != nil {
			t.Fatalf("UpsertStorePreferences: %v", err)
		}
		sess := f.session(t, entities.AirdropStateWaitingForBonusTx)

		f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil)
		f.expectPayout(ctx, int64(testInitial+testBonus+testFeePmob))

		if _, err := f.uc.HandlePayment(ctx, sess, f.drop, testInitial); err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCompleted {
			t.Fatalf("state = %d, want completed", got)
		}
	})

	t.Run("empty bonus pool refunds the contribution", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		sess := f.session(t, entities.AirdropStateWaitingForBonusTx)

		// The refund carries the fee the customer burned paying in.
		f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil)
		f.expectPayout(ctx, testInitial+testFeePmob)

		handled, err := f.uc.HandlePayment(ctx, sess, f.drop, testInitial)
		if err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		if !handled {
			t.Fatal("payment not handled")
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCompleted {
			t.Fatalf("state = %d, want completed", got)
		}
		if got := lastMessage(t, f.mem); got != msgBonusSoldOutRefund(testInitial) {
			t.Fatalf("message = %q, want sold-out refund notice", got)
		}
	})

	t.Run("last coin goes to exactly one of two racing sessions", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		f.mem.SeedBonusCoin(entities.BonusCoin{ID: "coin-1", DropID: f.drop.ID, AmountPmob: testBonus, NumberAvailable: 1})
		f.uc.randIntn = func(n int) int { return 0 }

		first := f.session(t, entities.AirdropStateWaitingForBonusTx)
		second, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession("+447700900002", f.drop, time.Now().UTC()))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		second.State = int(entities.AirdropStateWaitingForBonusTx)
		if second, err = f.mem.Sessions().Update(ctx, second); err != nil {
			t.Fatalf("Update: %v", err)
		}

		f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil).Times(2)
		f.expectPayout(ctx, int64(testInitial+testBonus+testFeePmob))
		if _, err := f.uc.HandlePayment(ctx, first, f.drop, testInitial); err != nil {
			t.Fatalf("first HandlePayment: %v", err)
		}

		// The pool is now empty; the second customer gets a refund instead.
		proposal := json.RawMessage(`{"tx":"proposal"}`)
		f.transport.EXPECT().GetPaymentsAddress(ctx, "+447700900002").Return("addr-2", nil)
		f.wallet.EXPECT().BuildTransaction(ctx, "account-1", int64(testInitial+testFeePmob), "addr-2").Return(proposal, nil)
		f.wallet.EXPECT().SubmitTransaction(ctx, proposal, "account-1").Return("txo-2", nil)
		f.wallet.EXPECT().GetTxo(ctx, "txo-2").Return(nil)
		f.wallet.EXPECT().CreateReceipt(ctx, proposal).Return("receipt-2", nil)
		f.transport.EXPECT().SendPaymentReceipt(ctx, "+447700900002", "receipt-2", gomock.Any()).Return(nil)
		if _, err := f.uc.HandlePayment(ctx, second, f.drop, testInitial); err != nil {
			t.Fatalf("second HandlePayment: %v", err)
		}

		claimed, err := f.mem.Sessions().CountBonusCoinClaims(ctx, "coin-1")
		if err != nil {
			t.Fatalf("CountBonusCoinClaims: %v", err)
		}
		if claimed != 1 {
			t.Fatalf("coin claims = %d, want exactly 1", claimed)
		}
	})
}

func TestAirdropContactPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("yes records the preference and completes", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		sess := f.session(t, entities.AirdropStateAllowContactRequested)

		if err := f.uc.HandleText(ctx, sess, f.drop, "yes"); err != nil {
			t.Fatalf("HandleText: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCompleted {
			t.Fatalf("state = %d, want completed", got)
		}
		prefs, found, err := f.mem.Customers().GetStorePreferences(ctx, testPhone, "store-1")
		if err != nil {
			t.Fatalf("GetStorePreferences: %v", err)
		}
		if !found || !prefs.AllowsContact {
			t.Fatalf("prefs = (%+v, %v), want contact allowed", prefs, found)
		}
	})

	t.Run("no still completes the session", func(t *testing.T) {
		f := newAirdropFixture(t)
		f.expectChat(ctx)
		sess := f.session(t, entities.AirdropStateAllowContactRequested)

		if err := f.uc.HandleText(ctx, sess, f.drop, "no"); err != nil {
			t.Fatalf("HandleText: %v", err)
		}
		if got := f.sessionState(t, sess.ID); got != entities.AirdropStateCompleted {
			t.Fatalf("state = %d, want completed", got)
		}
		prefs, found, err := f.mem.Customers().GetStorePreferences(ctx, testPhone, "store-1")
		if err != nil {
			t.Fatalf("GetStorePreferences: %v", err)
		}
		if !found || prefs.AllowsContact {
			t.Fatalf("prefs = (%+v, %v), want contact declined", prefs, found)
		}
	})
}
