package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bank-recon/internal/domain"
)

func TestPaymentService_CreateAssignsID(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := NewPaymentService(repo)

	p := &domain.SystemPayment{
		Amount: decimal.NewFromInt(100000),
		Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	err := svc.Create(p)

	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, repo.payments, 1)
}

func TestPaymentService_CreateRejectsNegativeAmount(t *testing.T) {
	svc := NewPaymentService(&fakePaymentRepo{})

	err := svc.Create(&domain.SystemPayment{
		Amount: decimal.NewFromInt(-5),
		Date:   time.Now(),
	})

	assert.Error(t, err)
}

func TestPaymentService_BulkCreateSkipsInvalid(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := NewPaymentService(repo)

	count, err := svc.BulkCreate([]domain.SystemPayment{
		{Amount: decimal.NewFromInt(100), Date: time.Now()},
		{Amount: decimal.NewFromInt(-1), Date: time.Now()}, // negative
		{Amount: decimal.NewFromInt(200)},                  // zero date
		{Amount: decimal.NewFromInt(300), Date: time.Now()},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, repo.payments, 2)
	for _, p := range repo.payments {
		assert.NotEmpty(t, p.ID)
	}
}

func TestPaymentService_GetByDateRangeValidates(t *testing.T) {
	svc := NewPaymentService(&fakePaymentRepo{})

	_, err := svc.GetByDateRange(time.Now(), time.Now().Add(-time.Hour))

	assert.Error(t, err)
}
