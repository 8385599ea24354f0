package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a bank transaction
type TransactionType string

const (
	Credit TransactionType = "CREDIT"
	Debit  TransactionType = "DEBIT"
)

// BankTransaction represents one normalized row of an uploaded bank statement
type BankTransaction struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Reference     string          `json:"reference,omitempty"`
	Account       string          `json:"account,omitempty"`
}

// SystemPayment is a payment recorded by the billing subsystem, used as a
// matching candidate. Description and TransactionID may be empty.
type SystemPayment struct {
	ID            string          `json:"id" db:"id"`
	TransactionID string          `json:"transaction_id,omitempty" db:"transaction_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Date          time.Time       `json:"date" db:"date"`
	Description   string          `json:"description,omitempty" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// MatchStatus classifies the outcome of matching one bank transaction
type MatchStatus string

const (
	Matched          MatchStatus = "MATCHED"
	Unmatched        MatchStatus = "UNMATCHED"
	PartiallyMatched MatchStatus = "PARTIALLY_MATCHED"
	ManualReview     MatchStatus = "MANUAL_REVIEW"
)

// Classification reason literals. The matcher reports exactly one of these per
// result; the batch-action endpoints add the manual ones.
const (
	ReasonExactMatch     = "Coincidencia exacta por monto y fecha"
	ReasonAmountMatch    = "Coincidencia por monto con tolerancia"
	ReasonReferenceMatch = "Coincidencia por referencia"
	ReasonMultipleMatch  = "Múltiples coincidencias encontradas"
	ReasonPartialMatch   = "Coincidencias parciales encontradas"
	ReasonNoMatch        = "No se encontraron coincidencias"

	ReasonManualApprove = "Aprobado manualmente"
	ReasonManualReject  = "Rechazado manualmente"
	ReasonManualReview  = "Marcado para revisión manual"
)

// ReconciliationResult is the classification of one bank transaction
type ReconciliationResult struct {
	ID              string          `json:"id" db:"id"`
	RunID           string          `json:"run_id" db:"run_id"`
	BankTransaction BankTransaction `json:"bank_transaction"`
	Status          MatchStatus     `json:"status" db:"status"`
	SystemPayment   *SystemPayment  `json:"system_payment,omitempty"`
	Suggestions     []SystemPayment `json:"suggestions,omitempty"`
	Confidence      float64         `json:"confidence" db:"confidence"`
	Reason          string          `json:"reason" db:"reason"`
	ProcessedAt     time.Time       `json:"processed_at" db:"processed_at"`
}

// RunStatus represents the lifecycle state of a reconciliation run
type RunStatus string

const (
	RunPending    RunStatus = "PENDING"
	RunProcessing RunStatus = "PROCESSING"
	RunCompleted  RunStatus = "COMPLETED"
	RunFailed     RunStatus = "FAILED"
)

// ReconciliationRun tracks one uploaded statement end to end
type ReconciliationRun struct {
	ID             int       `json:"id" db:"id"`
	RunID          string    `json:"run_id" db:"run_id"`
	FileName       string    `json:"file_name" db:"file_name"`
	Status         RunStatus `json:"status" db:"status"`
	TotalRows      int       `json:"total_rows" db:"total_rows"`
	TotalMatched   int       `json:"total_matched" db:"total_matched"`
	TotalUnmatched int       `json:"total_unmatched" db:"total_unmatched"`
	TotalPartial   int       `json:"total_partial" db:"total_partial"`
	TotalReview    int       `json:"total_review" db:"total_review"`
	TotalFailed    int       `json:"total_failed" db:"total_failed"`
	ErrorMessage   *string   `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RunSummary is the response payload for a completed run
type RunSummary struct {
	RunID          string                 `json:"run_id"`
	FileName       string                 `json:"file_name"`
	Status         RunStatus              `json:"status"`
	TotalRows      int                    `json:"total_rows"`
	TotalMatched   int                    `json:"total_matched"`
	TotalUnmatched int                    `json:"total_unmatched"`
	TotalPartial   int                    `json:"total_partial"`
	TotalReview    int                    `json:"total_review"`
	TotalFailed    int                    `json:"total_failed"`
	Results        []ReconciliationResult `json:"results,omitempty"`
}

// BatchAction is a manual bulk transition applied to stored results
type BatchAction string

const (
	ActionApprove BatchAction = "approve"
	ActionReject  BatchAction = "reject"
	ActionReview  BatchAction = "review"
)

// BatchActionResult counts per-id outcomes of a bulk action. Ids are processed
// independently; the counts never imply atomicity.
type BatchActionResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
