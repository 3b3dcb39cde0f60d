package ratelimit

import "time"

// Rule pairs a request budget with its window. The catalog below is policy
// configuration, tuned per endpoint category.
type Rule struct {
	MaxRequests int
	Window      time.Duration
}

var (
	// Authentication endpoints (stricter limits)
	RuleAuthLogin  = Rule{MaxRequests: 5, Window: 15 * time.Minute}
	RuleAuthSignup = Rule{MaxRequests: 3, Window: time.Hour}

	// API endpoints (moderate limits)
	RuleAPIRead   = Rule{MaxRequests: 100, Window: time.Minute}
	RuleAPIWrite  = Rule{MaxRequests: 20, Window: time.Minute}
	RuleAPIDelete = Rule{MaxRequests: 10, Window: time.Minute}

	// Checkout (important to prevent abuse)
	RuleCheckout = Rule{MaxRequests: 5, Window: time.Minute}

	// General API (fallback)
	RuleGeneral = Rule{MaxRequests: 60, Window: time.Minute}
)
