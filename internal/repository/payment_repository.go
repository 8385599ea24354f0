package repository

import (
	"database/sql"
	"fmt"
	"time"

	"bank-recon/internal/domain"
	"bank-recon/pkg/logger"
)

type PaymentRepository interface {
	Create(payment *domain.SystemPayment) error
	BulkCreate(payments []domain.SystemPayment) error
	GetByID(id string) (*domain.SystemPayment, error)
	GetByDateRange(startDate, endDate time.Time) ([]domain.SystemPayment, error)
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *domain.SystemPayment) error {
	query := `
		INSERT INTO system_payments (id, transaction_id, amount, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		payment.ID,
		payment.TransactionID,
		payment.Amount,
		payment.Date,
		payment.Description,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create system payment")
		return err
	}

	return nil
}

func (r *paymentRepository) BulkCreate(payments []domain.SystemPayment) error {
	if len(payments) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO system_payments (id, transaction_id, amount, date, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer stmt.Close()

	for _, payment := range payments {
		_, err = stmt.Exec(
			payment.ID,
			payment.TransactionID,
			payment.Amount,
			payment.Date,
			payment.Description,
		)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("payment_id", payment.ID).Error("Failed to insert system payment")
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *paymentRepository) GetByID(id string) (*domain.SystemPayment, error) {
	query := `
		SELECT id, transaction_id, amount, date, description, created_at, updated_at
		FROM system_payments
		WHERE id = $1
	`

	var payment domain.SystemPayment
	err := r.db.QueryRow(query, id).Scan(
		&payment.ID,
		&payment.TransactionID,
		&payment.Amount,
		&payment.Date,
		&payment.Description,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("system payment not found")
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get system payment")
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByDateRange(startDate, endDate time.Time) ([]domain.SystemPayment, error) {
	query := `
		SELECT id, transaction_id, amount, date, description, created_at, updated_at
		FROM system_payments
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`

	rows, err := r.db.Query(query, startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query system payments")
		return nil, err
	}
	defer rows.Close()

	var payments []domain.SystemPayment
	for rows.Next() {
		var payment domain.SystemPayment
		err := rows.Scan(
			&payment.ID,
			&payment.TransactionID,
			&payment.Amount,
			&payment.Date,
			&payment.Description,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan system payment")
			continue
		}
		payments = append(payments, payment)
	}

	return payments, nil
}
