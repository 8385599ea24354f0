package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"bank-recon/internal/domain"
	"bank-recon/internal/repository"
	"bank-recon/pkg/logger"
)

type PaymentService interface {
	Create(payment *domain.SystemPayment) error
	BulkCreate(payments []domain.SystemPayment) (int, error)
	GetByID(id string) (*domain.SystemPayment, error)
	GetByDateRange(startDate, endDate time.Time) ([]domain.SystemPayment, error)
}

type paymentService struct {
	repo repository.PaymentRepository
}

func NewPaymentService(repo repository.PaymentRepository) PaymentService {
	return &paymentService{repo: repo}
}

func (s *paymentService) Create(payment *domain.SystemPayment) error {
	if err := s.validate(payment); err != nil {
		return err
	}

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	return s.repo.Create(payment)
}

// BulkCreate stores all valid payments and returns how many were accepted.
// Invalid entries are skipped with a log entry rather than failing the batch.
func (s *paymentService) BulkCreate(payments []domain.SystemPayment) (int, error) {
	valid := make([]domain.SystemPayment, 0, len(payments))
	for i := range payments {
		if err := s.validate(&payments[i]); err != nil {
			logger.GetLogger().WithError(err).WithField("index", i).Warn("Invalid payment, skipping")
			continue
		}
		if payments[i].ID == "" {
			payments[i].ID = uuid.New().String()
		}
		valid = append(valid, payments[i])
	}

	if err := s.repo.BulkCreate(valid); err != nil {
		return 0, err
	}
	return len(valid), nil
}

func (s *paymentService) GetByID(id string) (*domain.SystemPayment, error) {
	if id == "" {
		return nil, fmt.Errorf("payment id cannot be empty")
	}
	return s.repo.GetByID(id)
}

func (s *paymentService) GetByDateRange(startDate, endDate time.Time) ([]domain.SystemPayment, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date cannot be after end date")
	}
	return s.repo.GetByDateRange(startDate, endDate)
}

func (s *paymentService) validate(payment *domain.SystemPayment) error {
	if payment.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}

	if payment.Date.IsZero() {
		return fmt.Errorf("payment date is required")
	}

	return nil
}
