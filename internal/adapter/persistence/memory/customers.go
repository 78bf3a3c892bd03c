package memory

import (
	"context"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// CustomerRepo is the in-memory ICustomerRepository.
type CustomerRepo struct {
	s *Store
}

var _ interfaces.ICustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) GetOrCreate(_ context.Context, phone string) (entities.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.customers[phone]; ok {
		return c, nil
	}
	c := entities.Customer{PhoneNumber: phone}
	r.s.customers[phone] = c
	return c, nil
}

func (r *CustomerRepo) GetStorePreferences(_ context.Context, phone, storeID string) (entities.CustomerStorePreferences, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prefs[pairKey(phone, storeID)]
	return p, ok, nil
}

func (r *CustomerRepo) UpsertStorePreferences(_ context.Context, prefs entities.CustomerStorePreferences) (entities.CustomerStorePreferences, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.prefs[pairKey(prefs.CustomerPhone, prefs.StoreID)] = prefs
	return prefs, nil
}

func (r *CustomerRepo) ClaimFeeRefund(_ context.Context, phone, dropID string, max int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(phone, dropID)
	refunds, ok := r.s.refunds[key]
	if !ok {
		refunds = entities.CustomerDropRefunds{CustomerPhone: phone, DropID: dropID}
	}
	if refunds.NumberOfTimesRefunded >= max {
		r.s.refunds[key] = refunds
		return false, nil
	}
	refunds.NumberOfTimesRefunded++
	r.s.refunds[key] = refunds
	return true, nil
}
