package matcher_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bank-recon/internal/domain"
	"bank-recon/internal/matcher"
)

func amountOnly() matcher.Weights {
	return matcher.Weights{Amount: 1}
}

func dateOnly() matcher.Weights {
	return matcher.Weights{Date: 1}
}

func descriptionOnly() matcher.Weights {
	return matcher.Weights{Description: 1}
}

func TestSimilarity_IdenticalPair(t *testing.T) {
	tx := domain.BankTransaction{
		Amount:      decimal.NewFromInt(100000),
		Date:        date("2024-01-10"),
		Description: "pago cuota enero",
	}
	payment := domain.SystemPayment{
		Amount:      decimal.NewFromInt(100000),
		Date:        date("2024-01-10"),
		Description: "pago cuota enero",
	}

	assert.InDelta(t, 1.0, matcher.Similarity(tx, payment, matcher.DefaultWeights()), 1e-9)
}

func TestSimilarity_AlwaysInUnitInterval(t *testing.T) {
	pairs := []struct {
		tx      domain.BankTransaction
		payment domain.SystemPayment
	}{
		{
			domain.BankTransaction{Amount: decimal.NewFromInt(1), Date: date("2024-01-01"), Description: "a"},
			domain.SystemPayment{Amount: decimal.NewFromInt(1000000), Date: date("2020-01-01"), Description: "b c d"},
		},
		{
			domain.BankTransaction{Amount: decimal.Zero, Date: date("2024-01-01")},
			domain.SystemPayment{Amount: decimal.Zero, Date: date("2024-01-01")},
		},
		{
			domain.BankTransaction{Amount: decimal.NewFromFloat(99.99), Date: date("2024-06-15"), Description: "transferencia"},
			domain.SystemPayment{Amount: decimal.NewFromFloat(100.01), Date: date("2024-06-16"), Description: "transferencia mensual"},
		},
	}

	for _, pair := range pairs {
		score := matcher.Similarity(pair.tx, pair.payment, matcher.DefaultWeights())
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestSimilarity_AmountSymmetry(t *testing.T) {
	d := date("2024-01-10")

	small := matcher.Similarity(
		domain.BankTransaction{Amount: decimal.NewFromInt(100), Date: d},
		domain.SystemPayment{Amount: decimal.NewFromInt(150), Date: d},
		amountOnly(),
	)
	large := matcher.Similarity(
		domain.BankTransaction{Amount: decimal.NewFromInt(150), Date: d},
		domain.SystemPayment{Amount: decimal.NewFromInt(100), Date: d},
		amountOnly(),
	)

	assert.InDelta(t, small, large, 1e-9)
}

func TestSimilarity_BothAmountsZero(t *testing.T) {
	d := date("2024-01-10")

	score := matcher.Similarity(
		domain.BankTransaction{Amount: decimal.Zero, Date: d},
		domain.SystemPayment{Amount: decimal.Zero, Date: d},
		amountOnly(),
	)

	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarity_DateDecay(t *testing.T) {
	tx := domain.BankTransaction{Amount: decimal.NewFromInt(1), Date: date("2024-01-01")}

	sameDay := matcher.Similarity(tx, domain.SystemPayment{Date: date("2024-01-01")}, dateOnly())
	halfway := matcher.Similarity(tx, domain.SystemPayment{Date: date("2024-01-16")}, dateOnly())
	past30 := matcher.Similarity(tx, domain.SystemPayment{Date: date("2024-03-15")}, dateOnly())

	assert.InDelta(t, 1.0, sameDay, 1e-9)
	assert.InDelta(t, 0.5, halfway, 1e-9)
	assert.Equal(t, 0.0, past30)
}

func TestSimilarity_DescriptionOverlap(t *testing.T) {
	tx := domain.BankTransaction{Description: "pago cuota enero"}

	full := matcher.Similarity(tx, domain.SystemPayment{Description: "PAGO CUOTA ENERO"}, descriptionOnly())
	partial := matcher.Similarity(tx, domain.SystemPayment{Description: "pago cuota febrero unidad"}, descriptionOnly())
	none := matcher.Similarity(tx, domain.SystemPayment{Description: "otro concepto"}, descriptionOnly())

	assert.InDelta(t, 1.0, full, 1e-9)
	assert.InDelta(t, 0.5, partial, 1e-9)
	assert.Equal(t, 0.0, none)
}

func TestSimilarity_BothDescriptionsEmpty(t *testing.T) {
	score := matcher.Similarity(domain.BankTransaction{}, domain.SystemPayment{}, descriptionOnly())
	assert.Equal(t, 0.0, score)
}

func TestSimilarity_ZeroWeights(t *testing.T) {
	tx := domain.BankTransaction{
		Amount:      decimal.NewFromInt(100),
		Date:        date("2024-01-10"),
		Description: "pago",
	}
	payment := domain.SystemPayment{
		Amount:      decimal.NewFromInt(100),
		Date:        date("2024-01-10"),
		Description: "pago",
	}

	assert.Equal(t, 0.0, matcher.Similarity(tx, payment, matcher.Weights{}))
}
