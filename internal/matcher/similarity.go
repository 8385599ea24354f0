package matcher

import (
	"math"
	"strings"

	"bank-recon/internal/domain"
)

// Weights control the contribution of each similarity factor. They are kept
// dimensionless float64s: the score ranks candidates, it never touches money.
type Weights struct {
	Amount      float64
	Date        float64
	Description float64
}

func DefaultWeights() Weights {
	return Weights{
		Amount:      0.4,
		Date:        0.3,
		Description: 0.3,
	}
}

// Similarity scores how alike a bank transaction and a system payment are,
// in [0,1]. Amount closeness dominates, date proximity decays linearly to
// zero at 30 days, and description similarity is word-set overlap.
func Similarity(tx domain.BankTransaction, payment domain.SystemPayment, w Weights) float64 {
	total := w.Amount + w.Date + w.Description
	if total == 0 {
		return 0
	}

	score := amountSimilarity(tx, payment)*w.Amount +
		dateSimilarity(tx, payment)*w.Date +
		descriptionSimilarity(tx.Description, payment.Description)*w.Description

	return score / total
}

func amountSimilarity(tx domain.BankTransaction, payment domain.SystemPayment) float64 {
	larger := tx.Amount
	if payment.Amount.GreaterThan(larger) {
		larger = payment.Amount
	}
	if larger.IsZero() {
		return 1
	}

	ratio, _ := tx.Amount.Sub(payment.Amount).Abs().Div(larger).Float64()
	return math.Max(0, 1-ratio)
}

func dateSimilarity(tx domain.BankTransaction, payment domain.SystemPayment) float64 {
	return math.Max(0, 1-daysBetween(tx.Date, payment.Date)/30)
}

func descriptionSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 0
	}

	common := 0
	for word := range wordsA {
		if wordsB[word] {
			common++
		}
	}

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	if larger == 0 {
		return 0
	}
	return float64(common) / float64(larger)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		set[word] = true
	}
	return set
}
