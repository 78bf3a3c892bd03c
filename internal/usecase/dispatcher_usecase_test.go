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
	"dropbot/internal/usecase/interfaces"
	"dropbot/internal/usecase/interfaces/mocks"
)

type dispatcherFixture struct {
	uc        *DispatcherUseCase
	wallet    *mocks.MockIWalletClient
	transport *mocks.MockIMessagingTransport
	geocoder  *mocks.MockIGeocoder
	mem       *memory.Store
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	shrinkPollTunables(t)
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockIWalletClient(ctrl)
	transport := mocks.NewMockIMessagingTransport(ctrl)
	geocoder := mocks.NewMockIGeocoder(ctrl)
	mem := memory.New()

	cfg := Config{
		Store: entities.Store{
			ID:               "store-1",
			Name:             "Hoodie Shop",
			PhoneNumber:      "+15550000000",
			PrivacyPolicyURL: "https://example.com/privacy",
		},
		AccountID:   "account-1",
		IdleTimeout: time.Hour,
	}
	messenger := NewMessenger(transport, mem.Messages(), cfg.Store.ID)
	payments := NewPaymentUseCase(wallet, transport, mem.Payments(), messenger, cfg.AccountID)
	inventory := NewInventoryUseCase(mem.Catalog(), mem.Sessions(), mem.Orders())
	router := commands.NewRouter(commands.Help)
	airdrop := NewAirdropUseCase(cfg, router, mem.Catalog(), mem.Sessions(), mem.Customers(), wallet, transport, inventory, payments, messenger)
	item := NewItemUseCase(cfg, router, mem.Catalog(), mem.Sessions(), mem.Customers(), mem.Orders(), geocoder, transport, inventory, payments, messenger)
	uc := NewDispatcherUseCase(cfg, mem.Catalog(), mem.Sessions(), mem.Customers(), airdrop, item, inventory, payments, messenger)

	return &dispatcherFixture{uc: uc, wallet: wallet, transport: transport, geocoder: geocoder, mem: mem}
}

func (f *dispatcherFixture) expectChat(ctx context.Context) {
	f.transport.EXPECT().SendMessage(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f *dispatcherFixture) expectReceipt(ctx context.Context, receipt string, amount int64) {
	f.wallet.EXPECT().CheckReceiptStatus(ctx, receipt).
		Return(interfaces.ReceiptStatus{Status: interfaces.TransactionSucceeded, AmountPmob: amount}, nil)
}

func TestDispatcherHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing running", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)

		if err := f.uc.HandleMessage(ctx, testPhone, "hi"); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
		if got := lastMessage(t, f.mem); got != msgStoreClosedShort {
			t.Fatalf("message = %q, want store closed", got)
		}
	})

	t.Run("advertising drop announces the opening", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		now := time.Now().UTC()
		drop := testAirdrop()
		drop.AdvertisementStartTime = now.Add(-time.Hour)
		drop.StartTime = now.Add(time.Hour)
		drop.EndTime = now.Add(2 * time.Hour)
		drop.PreDropDescription = "A big giveaway is coming."
		drop.Timezone = "Europe/London"
		f.mem.SeedDrop(drop)

		if err := f.uc.HandleMessage(ctx, testPhone, "hi"); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
		want := msgStoreClosed(drop.StartTime, drop.Timezone, drop.PreDropDescription)
		if got := lastMessage(t, f.mem); got != want {
			t.Fatalf("message = %q, want %q", got, want)
		}
	})

	t.Run("active airdrop starts a session", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		f.mem.SeedDrop(testAirdrop())
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)
		f.wallet.EXPECT().GetUnspentPmob(ctx, "account-1").Return(int64(testUnspent), nil)
		f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil)

		if err := f.uc.HandleMessage(ctx, testPhone, "hi"); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
		sess, err := f.mem.Sessions().FindActiveByCustomer(ctx, testPhone, entities.DropTypeAirdrop)
		if err != nil {
			t.Fatalf("FindActiveByCustomer: %v", err)
		}
		if sess.ID == "" {
			t.Fatal("no session created for the active drop")
		}
	})

	t.Run("existing session receives the text", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		drop := testAirdrop()
		f.mem.SeedDrop(drop)
		sess, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, drop, time.Now().UTC()))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}

		if err := f.uc.HandleMessage(ctx, testPhone, "no"); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
		got, err := f.mem.Sessions().GetByID(ctx, sess.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.AirdropState() != entities.AirdropStateCancelled {
			t.Fatalf("state = %d, want cancelled", got.State)
		}
	})

	t.Run("manual override mutes the bot", func(t *testing.T) {
		f := newDispatcherFixture(t)
		drop := testAirdrop()
		f.mem.SeedDrop(drop)
		sess, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, drop, time.Now().UTC()))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		sess.ManualOverride = true
		if _, err := f.mem.Sessions().Update(ctx, sess); err != nil {
			t.Fatalf("Update: %v", err)
		}

		// No SendMessage expectation: any outbound message fails the test.
		if err := f.uc.HandleMessage(ctx, testPhone, "no"); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
		got, err := f.mem.Sessions().GetByID(ctx, sess.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.AirdropState() != entities.AirdropStateReady {
			t.Fatalf("state = %d, overridden session was advanced", got.State)
		}
	})

	t.Run("subscribe and unsubscribe", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)

		if err := f.uc.HandleMessage(ctx, testPhone, "subscribe"); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		prefs, found, err := f.mem.Customers().GetStorePreferences(ctx, testPhone, "store-1")
		if err != nil {
			t.Fatalf("GetStorePreferences: %v", err)
		}
		if !found || !prefs.AllowsContact {
			t.Fatalf("prefs = (%+v, %v), want subscribed", prefs, found)
		}

		if err := f.uc.HandleMessage(ctx, testPhone, "subscribe"); err != nil {
			t.Fatalf("second subscribe: %v", err)
		}
		if got := lastMessage(t, f.mem); got != msgAlreadySubscribed {
			t.Fatalf("message = %q, want already subscribed", got)
		}

		if err := f.uc.HandleMessage(ctx, testPhone, "unsubscribe"); err != nil {
			t.Fatalf("unsubscribe: %v", err)
		}
		prefs, _, err = f.mem.Customers().GetStorePreferences(ctx, testPhone, "store-1")
		if err != nil {
			t.Fatalf("GetStorePreferences: %v", err)
		}
		if prefs.AllowsContact {
			t.Fatal("still subscribed after unsubscribe")
		}
	})

	t.Run("operator coins command", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		drop := testAirdrop()
		f.mem.SeedDrop(drop)
		f.mem.SeedBonusCoin(entities.BonusCoin{ID: "coin-1", DropID: drop.ID, AmountPmob: testBonus, NumberAvailable: 5})

		if err := f.uc.HandleMessage(ctx, "+15550000000", "coins"); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
		if got := lastMessage(t, f.mem); got != "Initial coins: 0/2 claimed\n1 MOB: 5/5 left" {
			t.Fatalf("message = %q", got)
		}
	})
}

func TestDispatcherHandlePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfirmed receipt", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		f.wallet.EXPECT().CheckReceiptStatus(ctx, "receipt-1").
			Return(interfaces.ReceiptStatus{Status: interfaces.TransactionFailed}, nil)

		if err := f.uc.HandlePayment(ctx, testPhone, "receipt-1"); err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		if got := lastMessage(t, f.mem); got != msgPaymentNotConfirmed {
			t.Fatalf("message = %q, want not confirmed", got)
		}
	})

	t.Run("unsolicited payment is returned as received", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		f.expectReceipt(ctx, "receipt-1", testPricePmob)

		// FeeExact: the refund is built for the full amount, no fee lookup.
		proposal := json.RawMessage(`{"tx":"proposal"}`)
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)
		f.wallet.EXPECT().BuildTransaction(ctx, "account-1", int64(testPricePmob), "addr-1").Return(proposal, nil)
		f.wallet.EXPECT().SubmitTransaction(ctx, proposal, "account-1").Return("txo-1", nil)
		f.wallet.EXPECT().GetTxo(ctx, "txo-1").Return(nil)
		f.wallet.EXPECT().CreateReceipt(ctx, proposal).Return("receipt-2", nil)
		f.transport.EXPECT().SendPaymentReceipt(ctx, testPhone, "receipt-2", gomock.Any()).Return(nil)

		if err := f.uc.HandlePayment(ctx, testPhone, "receipt-1"); err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		if got := lastMessage(t, f.mem); got != msgUnsolicitedPayment {
			t.Fatalf("message = %q, want unsolicited notice", got)
		}
	})

	t.Run("waiting item session receives the payment", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		now := time.Now().UTC()
		item := entities.Item{ID: "item-1", StoreID: "store-1", Name: "Hoodie", PriceInPmob: testPricePmob}
		drop := entities.Drop{
			ID:        "drop-2",
			StoreID:   "store-1",
			DropType:  entities.DropTypeItem,
			StartTime: now.Add(-time.Hour),
			EndTime:   now.Add(time.Hour),
			ItemID:    item.ID,
		}
		f.mem.SeedDrop(drop)
		f.mem.SeedItem(item)
		f.mem.SeedSku(entities.Sku{ID: "sku-s", ItemID: item.ID, Identifier: "S", Quantity: 1})
		sess, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, drop, now))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		sess.State = int(entities.ItemStateWaitingForPayment)
		if _, err := f.mem.Sessions().Update(ctx, sess); err != nil {
			t.Fatalf("Update: %v", err)
		}
		f.expectReceipt(ctx, "receipt-1", testPricePmob)

		if err := f.uc.HandlePayment(ctx, testPhone, "receipt-1"); err != nil {
			t.Fatalf("HandlePayment: %v", err)
		}
		got, err := f.mem.Sessions().GetByID(ctx, sess.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.ItemState() != entities.ItemStateWaitingForSize {
			t.Fatalf("state = %d, want waiting for size", got.State)
		}
	})
}

func TestSweepIdleSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("idle airdrop session is cancelled", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		drop := testAirdrop()
		f.mem.SeedDrop(drop)
		sess, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, drop, time.Now().UTC()))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		f.uc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

		n, err := f.uc.SweepIdleSessions(ctx)
		if err != nil {
			t.Fatalf("SweepIdleSessions: %v", err)
		}
		if n != 1 {
			t.Fatalf("expired = %d, want 1", n)
		}
		got, err := f.mem.Sessions().GetByID(ctx, sess.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.AirdropState() != entities.AirdropStateCancelled {
			t.Fatalf("state = %d, want cancelled", got.State)
		}
		if got := lastMessage(t, f.mem); got != msgSessionExpired {
			t.Fatalf("message = %q, want expiry notice", got)
		}
	})

	t.Run("idle paid item session is refunded", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.expectChat(ctx)
		now := time.Now().UTC()
		item := entities.Item{ID: "item-1", StoreID: "store-1", Name: "Hoodie", PriceInPmob: testPricePmob}
		drop := entities.Drop{
			ID:                              "drop-2",
			StoreID:                         "store-1",
			DropType:                        entities.DropTypeItem,
			StartTime:                       now.Add(-time.Hour),
			EndTime:                         now.Add(time.Hour),
			ItemID:                          item.ID,
			MaxRefundTransactionFeesCovered: 3,
		}
		f.mem.SeedDrop(drop)
		f.mem.SeedItem(item)
		sess, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, drop, now))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		sess.State = int(entities.ItemStateWaitingForSize)
		if _, err := f.mem.Sessions().Update(ctx, sess); err != nil {
			t.Fatalf("Update: %v", err)
		}
		f.uc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

		proposal := json.RawMessage(`{"tx":"proposal"}`)
		f.wallet.EXPECT().GetMinimumFeePmob(ctx).Return(int64(testFeePmob), nil)
		f.transport.EXPECT().GetPaymentsAddress(ctx, testPhone).Return("addr-1", nil)
		f.wallet.EXPECT().BuildTransaction(ctx, "account-1", int64(testPricePmob+testFeePmob), "addr-1").Return(proposal, nil)
		f.wallet.EXPECT().SubmitTransaction(ctx, proposal, "account-1").Return("txo-1", nil)
		f.wallet.EXPECT().GetTxo(ctx, "txo-1").Return(nil)
		f.wallet.EXPECT().CreateReceipt(ctx, proposal).Return("receipt-1", nil)
		f.transport.EXPECT().SendPaymentReceipt(ctx, testPhone, "receipt-1", gomock.Any()).Return(nil)

		if _, err := f.uc.SweepIdleSessions(ctx); err != nil {
			t.Fatalf("SweepIdleSessions: %v", err)
		}
		got, err := f.mem.Sessions().GetByID(ctx, sess.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.ItemState() != entities.ItemStateRefunded {
			t.Fatalf("state = %d, want refunded", got.State)
		}
		if got := lastMessage(t, f.mem); got != msgSessionExpiredRefunded {
			t.Fatalf("message = %q, want refund notice", got)
		}
	})

	t.Run("fresh and overridden sessions are left alone", func(t *testing.T) {
		f := newDispatcherFixture(t)
		drop := testAirdrop()
		f.mem.SeedDrop(drop)
		fresh, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession(testPhone, drop, time.Now().UTC()))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		overridden, _, err := f.mem.Sessions().GetOrCreate(ctx, newSession("+447700900002", drop, time.Now().UTC()))
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		overridden.ManualOverride = true
		if _, err := f.mem.Sessions().Update(ctx, overridden); err != nil {
			t.Fatalf("Update: %v", err)
		}

		n, err := f.uc.SweepIdleSessions(ctx)
		if err != nil {
			t.Fatalf("SweepIdleSessions: %v", err)
		}
		if n != 0 {
			t.Fatalf("expired = %d, want 0", n)
		}
		for _, id := range []string{fresh.ID, overridden.ID} {
			sess, err := f.mem.Sessions().GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if !sess.Active() {
				t.Fatalf("session %s was expired", id)
			}
		}
	})
}

func TestStatusReports(t *testing.T) {
	ctx := context.Background()

	t.Run("coins report counts claims and remaining bonuses", func(t *testing.T) {
		f := newDispatcherFixture(t)
		drop := testAirdrop()
		f.mem.SeedDrop(drop)
		f.mem.SeedBonusCoin(entities.BonusCoin{ID: "coin-1", DropID: drop.ID, AmountPmob: testBonus, NumberAvailable: 5})
		if err := f.mem.Catalog().ClaimInitialCoin(ctx, drop.ID); err != nil {
			t.Fatalf("ClaimInitialCoin: %v", err)
		}

		report, err := f.uc.CoinsReport(ctx)
		if err != nil {
			t.Fatalf("CoinsReport: %v", err)
		}
		if report.DropID != drop.ID || report.InitialClaimed != 1 || report.InitialLimit != 2 {
			t.Fatalf("report = %+v", report)
		}
		if len(report.Coins) != 1 || report.Coins[0].Remaining != 5 {
			t.Fatalf("coins = %+v", report.Coins)
		}
	})

	t.Run("items report counts stock per sku", func(t *testing.T) {
		f := newDispatcherFixture(t)
		now := time.Now().UTC()
		item := entities.Item{ID: "item-1", StoreID: "store-1", Name: "Hoodie", PriceInPmob: testPricePmob}
		drop := entities.Drop{
			ID:        "drop-2",
			StoreID:   "store-1",
			DropType:  entities.DropTypeItem,
			StartTime: now.Add(-time.Hour),
			EndTime:   now.Add(time.Hour),
			ItemID:    item.ID,
		}
		f.mem.SeedDrop(drop)
		f.mem.SeedItem(item)
		sku := entities.Sku{ID: "sku-s", ItemID: item.ID, Identifier: "S", Quantity: 2}
		f.mem.SeedSku(sku)
		if _, err := f.mem.Orders().CreateForSku(ctx, entities.Order{CustomerPhone: testPhone, SkuID: sku.ID}, sku); err != nil {
			t.Fatalf("CreateForSku: %v", err)
		}

		report, err := f.uc.ItemsReport(ctx)
		if err != nil {
			t.Fatalf("ItemsReport: %v", err)
		}
		if report.ItemID != item.ID || len(report.Skus) != 1 {
			t.Fatalf("report = %+v", report)
		}
		if report.Skus[0].Remaining != 1 || report.Skus[0].Quantity != 2 {
			t.Fatalf("sku status = %+v", report.Skus[0])
		}
	})

	t.Run("no drop yields empty reports", func(t *testing.T) {
		f := newDispatcherFixture(t)

		coins, err := f.uc.CoinsReport(ctx)
		if err != nil {
			t.Fatalf("CoinsReport: %v", err)
		}
		if coins.DropID != "" {
			t.Fatalf("coins report = %+v, want empty", coins)
		}
		items, err := f.uc.ItemsReport(ctx)
		if err != nil {
			t.Fatalf("ItemsReport: %v", err)
		}
		if items.ItemID != "" {
			t.Fatalf("items report = %+v, want empty", items)
		}
	})
}
