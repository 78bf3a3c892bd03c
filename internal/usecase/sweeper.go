package usecase

import (
	"context"
	"log"
	"time"

	"dropbot/internal/domain/entities"
)

// RunSweeper expires idle sessions on a fixed interval until the context is
// cancelled. It shares the dispatcher's per-customer locks, so a sweep never
// races a live conversation.
func (uc *DispatcherUseCase) RunSweeper(ctx context.Context) {
	interval := uc.cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[sweeper][usecase] sweeping idle sessions every %s (timeout %s)", interval, uc.idleTimeout())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := uc.SweepIdleSessions(ctx); err != nil {
				log.Printf("[sweeper][usecase] sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[sweeper][usecase] expired %d idle session(s)", n)
			}
		}
	}
}

// SweepIdleSessions cancels every active session idle past the configured
// timeout. Item sessions in a refundable state get their payment back; the
// rest are plainly cancelled. Returns how many sessions were expired.
func (uc *DispatcherUseCase) SweepIdleSessions(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(-uc.idleTimeout())
	idle, err := uc.sessions.ListActiveIdleSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, stale := range idle {
		if err := uc.expireSession(ctx, stale.ID, cutoff); err != nil {
			log.Printf("[sweeper][usecase] could not expire session %s: %v", stale.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (uc *DispatcherUseCase) expireSession(ctx context.Context, sessionID string, cutoff time.Time) error {
	// The listing ran without the customer's lock; re-check under it.
	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	unlock := uc.locks.lock(session.CustomerPhone)
	defer unlock()

	session, err = uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.Active() || session.UpdatedAt.After(cutoff) || session.ManualOverride {
		return nil
	}

	if session.DropType == entities.DropTypeItem && entities.ItemRefundableStates[session.ItemState()] {
		drop, err := uc.catalog.GetDrop(ctx, session.DropID)
		if err != nil {
			return err
		}
		item, err := uc.catalog.GetItem(ctx, drop.ItemID)
		if err != nil {
			return err
		}
		return uc.item.cancelAndRefund(ctx, session, drop, item, msgSessionExpiredRefunded)
	}

	session.State = int(entities.ItemStateCancelled) // -1 for both drop types
	if _, err := uc.sessions.Update(ctx, session); err != nil {
		return err
	}
	return uc.messenger.LogAndSend(ctx, session.CustomerPhone, msgSessionExpired)
}

func (uc *DispatcherUseCase) idleTimeout() time.Duration {
	if uc.cfg.IdleTimeout > 0 {
		return uc.cfg.IdleTimeout
	}
	return DefaultIdleTimeout
}
