package matcher

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-recon/internal/domain"
)

// centTolerance bounds the exact-match stage regardless of the configured
// amount tolerance.
var centTolerance = decimal.NewFromFloat(0.01)

// referenceTokenPattern extracts numeric runs usable as reference candidates.
// Any run of 4+ digits in the description counts, which trades precision for
// recall (a unit number can collide with a payment reference).
var referenceTokenPattern = regexp.MustCompile(`\d{4,}`)

// Match classifies a single bank transaction against the candidate payments.
// It runs four strategies in fixed order and short-circuits on the first one
// that yields exactly one hit; multiplicity at the exact or amount stages is
// escalated to manual review instead of guessing. Pure function over its
// inputs: no candidate is mutated and no I/O happens here.
func Match(tx domain.BankTransaction, candidates []domain.SystemPayment, cfg domain.ReconciliationConfig) domain.ReconciliationResult {
	result := domain.ReconciliationResult{
		ID:              newResultID(),
		BankTransaction: tx,
		Status:          domain.Unmatched,
		Reason:          domain.ReasonNoMatch,
		ProcessedAt:     time.Now().UTC(),
	}

	exact := exactMatches(tx, candidates, cfg.DateToleranceDays)
	if len(exact) == 1 {
		result.Status = domain.Matched
		result.SystemPayment = &exact[0]
		result.Confidence = 1.0
		result.Reason = domain.ReasonExactMatch
		return result
	}

	amount := amountMatches(tx, candidates, cfg.AmountTolerance)
	if len(amount) == 1 {
		result.Status = domain.Matched
		result.SystemPayment = &amount[0]
		result.Confidence = 0.9
		result.Reason = domain.ReasonAmountMatch
		return result
	}

	reference := referenceMatches(tx, candidates)
	if len(reference) == 1 {
		result.Status = domain.Matched
		result.SystemPayment = &reference[0]
		result.Confidence = 0.8
		result.Reason = domain.ReasonReferenceMatch
		return result
	}

	// Ambiguity at the confident stages outranks fuzzy suggestions.
	if len(exact) > 1 || len(amount) > 1 {
		result.Status = domain.ManualReview
		result.Confidence = 0.5
		result.Reason = domain.ReasonMultipleMatch
		result.Suggestions = capSuggestions(dedupe(append(exact, amount...)), cfg.MaxSuggestions)
		return result
	}

	partial := partialMatches(tx, candidates, cfg.AmountTolerance)
	if len(partial) > 0 {
		result.Status = domain.PartiallyMatched
		result.Confidence = 0.3
		result.Reason = domain.ReasonPartialMatch
		result.Suggestions = capSuggestions(partial, cfg.MaxPartialSuggestions)
		return result
	}

	return result
}

func exactMatches(tx domain.BankTransaction, candidates []domain.SystemPayment, toleranceDays int) []domain.SystemPayment {
	hits := make([]domain.SystemPayment, 0)
	for _, c := range candidates {
		amountDiff := c.Amount.Sub(tx.Amount).Abs()
		if amountDiff.LessThan(centTolerance) && daysBetween(c.Date, tx.Date) <= float64(toleranceDays) {
			hits = append(hits, c)
		}
	}
	return hits
}

func amountMatches(tx domain.BankTransaction, candidates []domain.SystemPayment, tolerance decimal.Decimal) []domain.SystemPayment {
	hits := make([]domain.SystemPayment, 0)
	for _, c := range candidates {
		if c.Amount.Sub(tx.Amount).Abs().LessThanOrEqual(tolerance) {
			hits = append(hits, c)
		}
	}
	return hits
}

func referenceMatches(tx domain.BankTransaction, candidates []domain.SystemPayment) []domain.SystemPayment {
	terms := searchTerms(tx)
	if len(terms) == 0 {
		return nil
	}

	hits := make([]domain.SystemPayment, 0)
	for _, c := range candidates {
		haystack := strings.ToLower(c.TransactionID + " " + c.Description)
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				hits = append(hits, c)
				break
			}
		}
	}
	return hits
}

// searchTerms collects lowercased reference candidates from the transaction:
// the explicit reference, the transaction id, and numeric description tokens.
func searchTerms(tx domain.BankTransaction) []string {
	seen := make(map[string]bool)
	terms := make([]string, 0, 4)

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	add(tx.Reference)
	add(tx.TransactionID)
	for _, token := range referenceTokenPattern.FindAllString(tx.Description, -1) {
		add(token)
	}
	return terms
}

func partialMatches(tx domain.BankTransaction, candidates []domain.SystemPayment, tolerance decimal.Decimal) []domain.SystemPayment {
	window := tolerance.Mul(decimal.NewFromInt(10))

	type scored struct {
		payment domain.SystemPayment
		score   float64
	}

	hits := make([]scored, 0)
	for _, c := range candidates {
		if c.Amount.Sub(tx.Amount).Abs().GreaterThan(window) {
			continue
		}
		if score := Similarity(tx, c, DefaultWeights()); score > 0.3 {
			hits = append(hits, scored{payment: c, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	payments := make([]domain.SystemPayment, len(hits))
	for i, h := range hits {
		payments[i] = h.payment
	}
	return payments
}

func dedupe(payments []domain.SystemPayment) []domain.SystemPayment {
	seen := make(map[string]bool, len(payments))
	out := make([]domain.SystemPayment, 0, len(payments))
	for _, p := range payments {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func capSuggestions(payments []domain.SystemPayment, max int) []domain.SystemPayment {
	if max > 0 && len(payments) > max {
		return payments[:max]
	}
	return payments
}

func daysBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours()) / 24
}

func newResultID() string {
	return fmt.Sprintf("REC_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
