package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrWatchNotFound   = errors.New("watch not found or access denied")
	ErrThemeNotFound   = errors.New("theme not found")
	ErrCompanyNotFound = errors.New("company not found")

	// Plan gating errors
	ErrPlanLimit        = errors.New("watch limit reached for current plan")
	ErrPaidPlanRequired = errors.New("a paid plan is required")

	// Billing errors
	ErrNoSubscription        = errors.New("no active subscription")
	ErrBillingNotConfigured  = errors.New("billing is not configured")
	ErrPlanPriceNotAvailable = errors.New("plan has no configured price")

	// Request errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAlreadyWatching = errors.New("company is already watched")
)

// Context keys for error values
const (
	WatchIDKey = "watch_id"
	ThemeIDKey = "theme_id"
	UserIDKey  = "user_id"
	CIKKey     = "cik"
)
