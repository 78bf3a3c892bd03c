package usecase

import (
	"context"
	"strings"
	"time"

	"dropbot/internal/domain/commands"
	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"
)

// phoneAllowed reports whether the customer's number satisfies the drop's
// country prefix restriction.
func phoneAllowed(drop entities.Drop, phone string) bool {
	return strings.HasPrefix(phone, drop.NumberRestriction)
}

// contactPrompt is the shared ALLOW_CONTACT_REQUESTED handler. Both session
// flows finish by asking the customer whether the store may contact them
// about future drops; yes and no both record a preference and complete the
// session, anything else reprompts without a transition.
type contactPrompt struct {
	router    *commands.Router
	sessions  interfaces.ISessionRepository
	customers interfaces.ICustomerRepository
	messenger *Messenger
	store     entities.Store
}

func (cp contactPrompt) handle(ctx context.Context, session entities.DropSession, text, completedMsg string) (entities.DropSession, error) {
	var allows bool
	switch cp.router.Resolve(text) {
	case commands.Yes:
		allows = true
	case commands.No:
		allows = false
	case commands.Privacy:
		return session, cp.messenger.LogAndSend(ctx, session.CustomerPhone, msgPrivacyPolicyReprompt(cp.store.PrivacyPolicyURL))
	default:
		return session, cp.messenger.LogAndSend(ctx, session.CustomerPhone, msgYesNoHelp)
	}

	_, err := cp.customers.UpsertStorePreferences(ctx, entities.CustomerStorePreferences{
		CustomerPhone: session.CustomerPhone,
		StoreID:       cp.store.ID,
		AllowsContact: allows,
	})
	if err != nil {
		return session, err
	}
	if allows {
		if err := cp.messenger.LogAndSend(ctx, session.CustomerPhone, msgSubscribeNotify); err != nil {
			return session, err
		}
	} else {
		if err := cp.messenger.LogAndSend(ctx, session.CustomerPhone, msgDisableNotifications); err != nil {
			return session, err
		}
	}
	return cp.complete(ctx, session, completedMsg)
}

func (cp contactPrompt) complete(ctx context.Context, session entities.DropSession, completedMsg string) (entities.DropSession, error) {
	if session.DropType == entities.DropTypeItem {
		session.State = int(entities.ItemStateCompleted)
	} else {
		session.State = int(entities.AirdropStateCompleted)
	}
	session, err := cp.sessions.Update(ctx, session)
	if err != nil {
		return session, err
	}
	return session, cp.messenger.LogAndSend(ctx, session.CustomerPhone, completedMsg)
}

// hasStorePreferences reports whether any contact preference row exists for
// the (customer, store) pair, on file from an earlier drop.
func (cp contactPrompt) hasStorePreferences(ctx context.Context, phone string) (bool, error) {
	_, found, err := cp.customers.GetStorePreferences(ctx, phone, cp.store.ID)
	return found, err
}

func newSession(phone string, drop entities.Drop, now time.Time) entities.DropSession {
	return entities.DropSession{
		CustomerPhone: phone,
		DropID:        drop.ID,
		DropType:      drop.DropType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
