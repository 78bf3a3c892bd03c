package usecase

import (
	"time"

	"dropbot/internal/domain/entities"
)

// Config carries the bot's startup settings. It is built once in main from
// the environment and handed to the dispatcher explicitly; nothing in the
// usecases reads global state.
type Config struct {
	Store     entities.Store
	AccountID string
	VATID     string

	// IdleTimeout is how long a session may sit untouched before the sweep
	// cancels it (refunding first when the customer already paid).
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// DefaultIdleTimeout and DefaultSweepInterval bound the idle-session sweep
// when the environment does not override them.
const (
	DefaultIdleTimeout   = 24 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
)
