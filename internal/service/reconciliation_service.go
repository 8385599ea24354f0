package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"bank-recon/internal/domain"
	"bank-recon/internal/matcher"
	"bank-recon/internal/parser"
	"bank-recon/internal/repository"
	"bank-recon/pkg/logger"
)

type ReconciliationService interface {
	ReconcileStatement(fileName string, data []byte) (*domain.RunSummary, error)
	GetRunStatus(runID string) (*domain.ReconciliationRun, error)
	GetRunSummary(runID string) (*domain.RunSummary, error)
	GetResultsByStatus(status domain.MatchStatus) ([]domain.ReconciliationResult, error)
	ApplyBatchAction(action domain.BatchAction, ids []string) (*domain.BatchActionResult, error)
}

type reconciliationService struct {
	paymentRepo repository.PaymentRepository
	reconRepo   repository.ReconciliationRepository
	parser      *parser.StatementParser
	config      domain.ReconciliationConfig
}

func NewReconciliationService(
	paymentRepo repository.PaymentRepository,
	reconRepo repository.ReconciliationRepository,
	config domain.ReconciliationConfig,
) ReconciliationService {
	return &reconciliationService{
		paymentRepo: paymentRepo,
		reconRepo:   reconRepo,
		parser:      parser.NewStatementParser(),
		config:      config,
	}
}

// ReconcileStatement parses an uploaded statement, matches every transaction
// against the system payments in the statement's date window and persists one
// result per transaction. Each result is upserted independently: a storage
// failure on one transaction is counted and logged, never aborts the run.
func (s *reconciliationService) ReconcileStatement(fileName string, data []byte) (*domain.RunSummary, error) {
	runID := uuid.New().String()
	run := &domain.ReconciliationRun{
		RunID:    runID,
		FileName: fileName,
		Status:   domain.RunProcessing,
	}

	if err := s.reconRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	logger.GetLogger().WithField("run_id", runID).WithField("file", fileName).Info("Starting reconciliation run")

	transactions, err := s.parser.Parse(fileName, data)
	if err != nil {
		s.failRun(run, err)
		return nil, fmt.Errorf("failed to parse statement: %w", err)
	}

	candidates, err := s.loadCandidates(transactions)
	if err != nil {
		s.failRun(run, err)
		return nil, fmt.Errorf("failed to load system payments: %w", err)
	}

	results := make([]domain.ReconciliationResult, 0, len(transactions))
	run.TotalRows = len(transactions)

	for _, tx := range transactions {
		result := matcher.Match(tx, candidates, s.config)
		result.RunID = runID

		if err := s.reconRepo.UpsertResult(&result); err != nil {
			logger.GetLogger().WithError(err).WithField("transaction_id", tx.TransactionID).Error("Failed to persist result")
			run.TotalFailed++
			continue
		}

		switch result.Status {
		case domain.Matched:
			run.TotalMatched++
		case domain.PartiallyMatched:
			run.TotalPartial++
		case domain.ManualReview:
			run.TotalReview++
		default:
			run.TotalUnmatched++
		}

		results = append(results, result)
	}

	run.Status = domain.RunCompleted
	if err := s.reconRepo.UpdateRun(run); err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", runID).Error("Failed to update run")
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"run_id":    runID,
		"rows":      run.TotalRows,
		"matched":   run.TotalMatched,
		"unmatched": run.TotalUnmatched,
		"partial":   run.TotalPartial,
		"review":    run.TotalReview,
		"failed":    run.TotalFailed,
	}).Info("Reconciliation run completed")

	summary := buildSummary(run)
	summary.Results = results
	return summary, nil
}

func (s *reconciliationService) GetRunStatus(runID string) (*domain.ReconciliationRun, error) {
	return s.reconRepo.GetRunByID(runID)
}

func (s *reconciliationService) GetRunSummary(runID string) (*domain.RunSummary, error) {
	run, err := s.reconRepo.GetRunByID(runID)
	if err != nil {
		return nil, err
	}

	results, err := s.reconRepo.GetResultsByRunID(runID)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(run)
	summary.Results = results
	return summary, nil
}

func (s *reconciliationService) GetResultsByStatus(status domain.MatchStatus) ([]domain.ReconciliationResult, error) {
	return s.reconRepo.GetResultsByStatus(status)
}

// ApplyBatchAction transitions stored results in bulk. Every id is processed
// on its own; the returned counts tolerate partial failure.
func (s *reconciliationService) ApplyBatchAction(action domain.BatchAction, ids []string) (*domain.BatchActionResult, error) {
	var status domain.MatchStatus
	var confidence float64
	var reason string

	switch action {
	case domain.ActionApprove:
		status, confidence, reason = domain.Matched, 1.0, domain.ReasonManualApprove
	case domain.ActionReject:
		status, confidence, reason = domain.Unmatched, 0, domain.ReasonManualReject
	case domain.ActionReview:
		status, confidence, reason = domain.ManualReview, 0.5, domain.ReasonManualReview
	default:
		return nil, fmt.Errorf("unknown batch action: %s", action)
	}

	outcome := &domain.BatchActionResult{}
	for _, id := range ids {
		if err := s.reconRepo.UpdateResultStatus(id, status, confidence, reason); err != nil {
			logger.GetLogger().WithError(err).WithField("result_id", id).Warn("Batch action failed for result")
			outcome.Failed++
			continue
		}
		outcome.Success++
	}

	return outcome, nil
}

// loadCandidates fetches system payments covering the statement's date span,
// padded by the date tolerance on both sides.
func (s *reconciliationService) loadCandidates(transactions []domain.BankTransaction) ([]domain.SystemPayment, error) {
	if len(transactions) == 0 {
		return nil, nil
	}

	minDate, maxDate := transactions[0].Date, transactions[0].Date
	for _, tx := range transactions[1:] {
		if tx.Date.Before(minDate) {
			minDate = tx.Date
		}
		if tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
	}

	padding := time.Duration(s.config.DateToleranceDays) * 24 * time.Hour
	return s.paymentRepo.GetByDateRange(minDate.Add(-padding), maxDate.Add(padding))
}

func (s *reconciliationService) failRun(run *domain.ReconciliationRun, cause error) {
	msg := cause.Error()
	run.Status = domain.RunFailed
	run.ErrorMessage = &msg

	if err := s.reconRepo.UpdateRun(run); err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", run.RunID).Error("Failed to mark run as failed")
	}
}

func buildSummary(run *domain.ReconciliationRun) *domain.RunSummary {
	return &domain.RunSummary{
		RunID:          run.RunID,
		FileName:       run.FileName,
		Status:         run.Status,
		TotalRows:      run.TotalRows,
		TotalMatched:   run.TotalMatched,
		TotalUnmatched: run.TotalUnmatched,
		TotalPartial:   run.TotalPartial,
		TotalReview:    run.TotalReview,
		TotalFailed:    run.TotalFailed,
	}
}
