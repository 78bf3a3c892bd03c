// Package memory holds all bot state in memory behind a single mutex. It
// backs local development (STORAGE=memory) and the concurrency tests; the
// DynamoDB repositories are the production implementations.
package memory

import (
	"sync"
	"time"

	"dropbot/internal/domain/entities"
)

// Store is the shared in-memory state. Repository views over it implement the
// usecase interfaces; all check-then-act operations run under one mutex, which
// gives the same atomicity the DynamoDB repositories get from conditional
// writes.
type Store struct {
	mu sync.Mutex

	stores    map[string]entities.Store
	drops     map[string]entities.Drop
	items     map[string]entities.Item
	skus      map[string]entities.Sku
	coins     map[string]entities.BonusCoin
	customers map[string]entities.Customer
	sessions  map[string]entities.DropSession
	orders    map[string]entities.Order
	payments  map[string]entities.Payment
	messages  []entities.Message

	sessionByPair map[string]string // customer_phone|drop_id -> session id
	initialClaims map[string]int    // drop id -> consumed initial-coin quota
	prefs         map[string]entities.CustomerStorePreferences
	refunds       map[string]entities.CustomerDropRefunds

	now func() time.Time
}

func New() *Store {
	return &Store{
		stores:        make(map[string]entities.Store),
		drops:         make(map[string]entities.Drop),
		items:         make(map[string]entities.Item),
		skus:          make(map[string]entities.Sku),
		coins:         make(map[string]entities.BonusCoin),
		customers:     make(map[string]entities.Customer),
		sessions:      make(map[string]entities.DropSession),
		orders:        make(map[string]entities.Order),
		payments:      make(map[string]entities.Payment),
		sessionByPair: make(map[string]string),
		initialClaims: make(map[string]int),
		prefs:         make(map[string]entities.CustomerStorePreferences),
		refunds:       make(map[string]entities.CustomerDropRefunds),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func pairKey(a, b string) string { return a + "|" + b }

// Repository views.

func (s *Store) Catalog() *CatalogRepo    { return &CatalogRepo{s: s} }
func (s *Store) Sessions() *SessionRepo   { return &SessionRepo{s: s} }
func (s *Store) Orders() *OrderRepo       { return &OrderRepo{s: s} }
func (s *Store) Payments() *PaymentRepo   { return &PaymentRepo{s: s} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }
func (s *Store) Messages() *MessageRepo   { return &MessageRepo{s: s} }

// Seeding helpers. The catalog is admin-populated in production; local mode
// and tests seed it directly.

func (s *Store) SeedStore(st entities.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[st.ID] = st
}

func (s *Store) SeedDrop(d entities.Drop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops[d.ID] = d
}

func (s *Store) SeedItem(it entities.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
}

func (s *Store) SeedSku(sku entities.Sku) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skus[sku.ID] = sku
}

func (s *Store) SeedBonusCoin(c entities.BonusCoin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coins[c.ID] = c
}

// MessageLog returns a copy of the chat log, oldest first.
func (s *Store) MessageLog() []entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Message, len(s.messages))
	copy(out, s.messages)
	return out
}
