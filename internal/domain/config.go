package domain

import "github.com/shopspring/decimal"

// ReconciliationConfig holds the tunable matching parameters. MatchingRules is
// documentary; the cascade order is fixed in the matcher.
type ReconciliationConfig struct {
	DateToleranceDays     int             `json:"date_tolerance_days"`
	AmountTolerance       decimal.Decimal `json:"amount_tolerance"`
	AutoMatch             bool            `json:"auto_match"`
	MatchingRules         []string        `json:"matching_rules,omitempty"`
	MaxSuggestions        int             `json:"max_suggestions"`
	MaxPartialSuggestions int             `json:"max_partial_suggestions"`
}

// DefaultReconciliationConfig returns the baseline parameters: one day of date
// tolerance for the exact stage and one cent of amount tolerance.
func DefaultReconciliationConfig() ReconciliationConfig {
	return ReconciliationConfig{
		DateToleranceDays:     1,
		AmountTolerance:       decimal.NewFromFloat(0.01),
		AutoMatch:             true,
		MatchingRules:         []string{"exact", "amount", "reference", "partial"},
		MaxSuggestions:        5,
		MaxPartialSuggestions: 3,
	}
}
