package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "dropbot/docs"
	"dropbot/internal/adapter/http/handlers"
	"dropbot/internal/adapter/http/routes"
	"dropbot/internal/adapter/persistence/memory"
	"dropbot/internal/adapter/persistence/repository"
	"dropbot/internal/domain/commands"
	"dropbot/internal/domain/entities"
	"dropbot/internal/infrastructure/database"
	"dropbot/internal/infrastructure/geocode"
	"dropbot/internal/infrastructure/messaging"
	"dropbot/internal/infrastructure/wallet"
	"dropbot/internal/usecase"
	"dropbot/internal/usecase/interfaces"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Dropbot Ops API
// @version         1.0
// @description     Operator status surface for the drop chatbot (airdrop quota, bonus pool, item stock).
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		catalogRepo  interfaces.ICatalogRepository
		sessionRepo  interfaces.ISessionRepository
		orderRepo    interfaces.IOrderRepository
		paymentRepo  interfaces.IPaymentRepository
		customerRepo interfaces.ICustomerRepository
		messageRepo  interfaces.IMessageRepository
	)
	switch storage := getenvDefault("STORAGE", "dynamodb"); storage {
	case "memory":
		log.Printf("[bot][main] using in-memory storage")
		mem := memory.New()
		catalogRepo = mem.Catalog()
		sessionRepo = mem.Sessions()
		orderRepo = mem.Orders()
		paymentRepo = mem.Payments()
		customerRepo = mem.Customers()
		messageRepo = mem.Messages()
	default:
		ddb := database.ConnectDynamoDB()
		catalogRepo = repository.NewCatalogDynamoRepository(ddb)
		sessionRepo = repository.NewSessionDynamoRepository(ddb)
		orderRepo = repository.NewOrderDynamoRepository(ddb)
		paymentRepo = repository.NewPaymentDynamoRepository(ddb)
		customerRepo = repository.NewCustomerDynamoRepository(ddb)
		messageRepo = repository.NewMessageDynamoRepository(ddb)
	}

	walletClient := wallet.NewFullServiceClient()
	transport := messaging.NewSignaldClient()

	var geocoder interfaces.IGeocoder
	if g, err := geocode.NewGoogleGeocoder(os.Getenv("GOOGLE_MAPS_API_KEY")); err != nil {
		log.Printf("[bot][main] geocoder not configured: %v", err)
	} else {
		geocoder = g
	}

	cfg := buildConfig(ctx, catalogRepo)

	messenger := usecase.NewMessenger(transport, messageRepo, cfg.Store.ID)
	payments := usecase.NewPaymentUseCase(walletClient, transport, paymentRepo, messenger, cfg.AccountID)
	inventory := usecase.NewInventoryUseCase(catalogRepo, sessionRepo, orderRepo)
	router := commands.NewRouter(commands.Help)

	airdrop := usecase.NewAirdropUseCase(cfg, router, catalogRepo, sessionRepo, customerRepo, walletClient, transport, inventory, payments, messenger)
	item := usecase.NewItemUseCase(cfg, router, catalogRepo, sessionRepo, customerRepo, orderRepo, geocoder, transport, inventory, payments, messenger)
	dispatcher := usecase.NewDispatcherUseCase(cfg, catalogRepo, sessionRepo, customerRepo, airdrop, item, inventory, payments, messenger)

	go dispatcher.RunSweeper(ctx)

	go func() {
		err := transport.Run(ctx, messaging.Handlers{
			OnMessage: func(ctx context.Context, source, text string) {
				go func() {
					if err := dispatcher.HandleMessage(ctx, source, text); err != nil {
						log.Printf("[bot][main] message from %s failed: %v", source, err)
					}
				}()
			},
			OnPayment: func(ctx context.Context, source, receipt string) {
				go func() {
					if err := dispatcher.HandlePayment(ctx, source, receipt); err != nil {
						log.Printf("[bot][main] payment from %s failed: %v", source, err)
					}
				}()
			},
		})
		if err != nil && ctx.Err() == nil {
			log.Fatalf("[bot][main] receive loop exited: %v", err)
		}
	}()

	routes.Run(handlers.NewStatusHandler(dispatcher))
}

// buildConfig loads the store record and bot settings. The store row is
// admin-populated; env values fill the gaps for local runs.
func buildConfig(ctx context.Context, catalogRepo interfaces.ICatalogRepository) usecase.Config {
	storeID := getenvDefault("STORE_ID", "store")
	store, err := catalogRepo.GetStore(ctx, storeID)
	if err != nil {
		log.Printf("[bot][main] store lookup failed: %v", err)
	}
	if store.ID == "" {
		store = entities.Store{
			ID:               storeID,
			Name:             getenvDefault("STORE_NAME", "MOBot Store"),
			PhoneNumber:      os.Getenv("BOT_NUMBER"),
			Description:      os.Getenv("STORE_DESCRIPTION"),
			PrivacyPolicyURL: getenvDefault("PRIVACY_POLICY_URL", "https://mobilecoin.com/privacy"),
		}
	}

	return usecase.Config{
		Store:         store,
		AccountID:     os.Getenv("ACCOUNT_ID"),
		VATID:         getenvDefault("VAT_ID", "DE000000000"),
		IdleTimeout:   getenvDuration("SESSION_IDLE_TIMEOUT", usecase.DefaultIdleTimeout),
		SweepInterval: getenvDuration("SESSION_SWEEP_INTERVAL", usecase.DefaultSweepInterval),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[bot][main] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
