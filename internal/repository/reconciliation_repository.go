package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"bank-recon/internal/domain"
	"bank-recon/pkg/logger"
)

type ReconciliationRepository interface {
	CreateRun(run *domain.ReconciliationRun) error
	UpdateRun(run *domain.ReconciliationRun) error
	GetRunByID(runID string) (*domain.ReconciliationRun, error)
	UpsertResult(result *domain.ReconciliationResult) error
	GetResultsByRunID(runID string) ([]domain.ReconciliationResult, error)
	GetResultsByStatus(status domain.MatchStatus) ([]domain.ReconciliationResult, error)
	UpdateResultStatus(resultID string, status domain.MatchStatus, confidence float64, reason string) error
}

type reconciliationRepository struct {
	db *sql.DB
}

func NewReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) CreateRun(run *domain.ReconciliationRun) error {
	query := `
		INSERT INTO reconciliation_runs (
			run_id, file_name, status,
			total_rows, total_matched, total_unmatched, total_partial, total_review, total_failed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		run.RunID,
		run.FileName,
		run.Status,
		run.TotalRows,
		run.TotalMatched,
		run.TotalUnmatched,
		run.TotalPartial,
		run.TotalReview,
		run.TotalFailed,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create reconciliation run")
		return err
	}

	return nil
}

func (r *reconciliationRepository) UpdateRun(run *domain.ReconciliationRun) error {
	query := `
		UPDATE reconciliation_runs
		SET status = $1, total_rows = $2, total_matched = $3, total_unmatched = $4,
			total_partial = $5, total_review = $6, total_failed = $7, error_message = $8,
			updated_at = NOW()
		WHERE run_id = $9
	`

	_, err := r.db.Exec(
		query,
		run.Status,
		run.TotalRows,
		run.TotalMatched,
		run.TotalUnmatched,
		run.TotalPartial,
		run.TotalReview,
		run.TotalFailed,
		run.ErrorMessage,
		run.RunID,
	)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to update reconciliation run")
		return err
	}

	return nil
}

func (r *reconciliationRepository) GetRunByID(runID string) (*domain.ReconciliationRun, error) {
	query := `
		SELECT id, run_id, file_name, status,
			   total_rows, total_matched, total_unmatched, total_partial, total_review, total_failed,
			   error_message, created_at, updated_at
		FROM reconciliation_runs
		WHERE run_id = $1
	`

	var run domain.ReconciliationRun
	err := r.db.QueryRow(query, runID).Scan(
		&run.ID,
		&run.RunID,
		&run.FileName,
		&run.Status,
		&run.TotalRows,
		&run.TotalMatched,
		&run.TotalUnmatched,
		&run.TotalPartial,
		&run.TotalReview,
		&run.TotalFailed,
		&run.ErrorMessage,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reconciliation run not found")
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get reconciliation run")
		return nil, err
	}

	return &run, nil
}

// UpsertResult inserts one classification keyed by the bank transaction id,
// overwriting any previous classification of the same transaction. Replaying
// a statement therefore updates rows in place instead of duplicating them.
func (r *reconciliationRepository) UpsertResult(result *domain.ReconciliationResult) error {
	transaction, err := json.Marshal(result.BankTransaction)
	if err != nil {
		return fmt.Errorf("failed to encode bank transaction: %w", err)
	}

	var payment []byte
	if result.SystemPayment != nil {
		payment, err = json.Marshal(result.SystemPayment)
		if err != nil {
			return fmt.Errorf("failed to encode system payment: %w", err)
		}
	}

	var suggestions []byte
	if len(result.Suggestions) > 0 {
		suggestions, err = json.Marshal(result.Suggestions)
		if err != nil {
			return fmt.Errorf("failed to encode suggestions: %w", err)
		}
	}

	query := `
		INSERT INTO reconciliation_results (
			id, run_id, transaction_id, bank_transaction,
			status, system_payment, suggestions, confidence, reason, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transaction_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			bank_transaction = EXCLUDED.bank_transaction,
			status = EXCLUDED.status,
			system_payment = EXCLUDED.system_payment,
			suggestions = EXCLUDED.suggestions,
			confidence = EXCLUDED.confidence,
			reason = EXCLUDED.reason,
			processed_at = EXCLUDED.processed_at
	`

	_, err = r.db.Exec(
		query,
		result.ID,
		result.RunID,
		result.BankTransaction.TransactionID,
		transaction,
		result.Status,
		payment,
		suggestions,
		result.Confidence,
		result.Reason,
		result.ProcessedAt,
	)

	if err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", result.BankTransaction.TransactionID).Error("Failed to upsert reconciliation result")
		return err
	}

	return nil
}

func (r *reconciliationRepository) GetResultsByRunID(runID string) ([]domain.ReconciliationResult, error) {
	query := `
		SELECT id, run_id, bank_transaction, status, system_payment, suggestions,
			   confidence, reason, processed_at
		FROM reconciliation_results
		WHERE run_id = $1
		ORDER BY processed_at
	`

	return r.queryResults(query, runID)
}

func (r *reconciliationRepository) GetResultsByStatus(status domain.MatchStatus) ([]domain.ReconciliationResult, error) {
	query := `
		SELECT id, run_id, bank_transaction, status, system_payment, suggestions,
			   confidence, reason, processed_at
		FROM reconciliation_results
		WHERE status = $1
		ORDER BY processed_at
	`

	return r.queryResults(query, status)
}

func (r *reconciliationRepository) UpdateResultStatus(resultID string, status domain.MatchStatus, confidence float64, reason string) error {
	query := `
		UPDATE reconciliation_results
		SET status = $1, confidence = $2, reason = $3
		WHERE id = $4
	`

	res, err := r.db.Exec(query, status, confidence, reason, resultID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("result_id", resultID).Error("Failed to update reconciliation result")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reconciliation result not found")
	}

	return nil
}

func (r *reconciliationRepository) queryResults(query string, args ...interface{}) ([]domain.ReconciliationResult, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query reconciliation results")
		return nil, err
	}
	defer rows.Close()

	var results []domain.ReconciliationResult
	for rows.Next() {
		var result domain.ReconciliationResult
		var transaction, payment, suggestions []byte

		err := rows.Scan(
			&result.ID,
			&result.RunID,
			&transaction,
			&result.Status,
			&payment,
			&suggestions,
			&result.Confidence,
			&result.Reason,
			&result.ProcessedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan reconciliation result")
			continue
		}

		if err := json.Unmarshal(transaction, &result.BankTransaction); err != nil {
			logger.GetLogger().WithError(err).Error("Failed to decode bank transaction")
			continue
		}
		if len(payment) > 0 {
			result.SystemPayment = &domain.SystemPayment{}
			if err := json.Unmarshal(payment, result.SystemPayment); err != nil {
				logger.GetLogger().WithError(err).Error("Failed to decode system payment")
				result.SystemPayment = nil
			}
		}
		if len(suggestions) > 0 {
			if err := json.Unmarshal(suggestions, &result.Suggestions); err != nil {
				logger.GetLogger().WithError(err).Error("Failed to decode suggestions")
			}
		}

		results = append(results, result)
	}

	return results, nil
}
