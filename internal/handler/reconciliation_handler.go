package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bank-recon/internal/domain"
	"bank-recon/internal/parser"
	"bank-recon/internal/service"
	"bank-recon/pkg/logger"
	"bank-recon/pkg/response"
)

type ReconciliationHandler struct {
	service service.ReconciliationService
}

func NewReconciliationHandler(service service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

type BatchActionRequest struct {
	Action string   `json:"action" binding:"required,oneof=approve reject review"`
	IDs    []string `json:"ids" binding:"required,min=1"`
}

// UploadStatement godoc
// @Summary Upload and reconcile a bank statement
// @Description Parse an uploaded CSV/XLSX bank statement and reconcile it against system payments
// @Tags reconciliation
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank statement file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 415 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/reconciliation/upload [post]
func (h *ReconciliationHandler) UploadStatement(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing statement file", "Upload the statement as multipart field 'file'")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to open uploaded file")
		response.InternalError(c, "Failed to read uploaded file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to read uploaded file")
		response.InternalError(c, "Failed to read uploaded file", err.Error())
		return
	}

	summary, err := h.service.ReconcileStatement(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFileType) {
			response.UnsupportedMedia(c, "Unsupported statement file type", err.Error())
			return
		}
		logger.GetLogger().WithError(err).WithField("file", fileHeader.Filename).Error("Reconciliation failed")
		response.InternalError(c, "Reconciliation failed", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation completed successfully", summary)
}

// GetRunStatus godoc
// @Summary Get reconciliation run status
// @Description Get the status of a reconciliation run by ID
// @Tags reconciliation
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reconciliation/runs/{run_id} [get]
func (h *ReconciliationHandler) GetRunStatus(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.service.GetRunStatus(runID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", runID).Error("Run not found")
		response.NotFound(c, "Run not found")
		return
	}

	response.Success(c, http.StatusOK, "Run status retrieved successfully", run)
}

// GetRunSummary godoc
// @Summary Get reconciliation run summary
// @Description Get the detailed summary of a reconciliation run, including per-transaction results
// @Tags reconciliation
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reconciliation/runs/{run_id}/summary [get]
func (h *ReconciliationHandler) GetRunSummary(c *gin.Context) {
	runID := c.Param("run_id")

	summary, err := h.service.GetRunSummary(runID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", runID).Error("Failed to get run summary")
		response.NotFound(c, "Run not found")
		return
	}

	response.Success(c, http.StatusOK, "Run summary retrieved successfully", summary)
}

// GetResultsByStatus godoc
// @Summary List reconciliation results by status
// @Description List stored reconciliation results filtered by match status
// @Tags reconciliation
// @Produce json
// @Param status query string true "Match status" Enums(MATCHED, UNMATCHED, PARTIALLY_MATCHED, MANUAL_REVIEW)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/reconciliation/results [get]
func (h *ReconciliationHandler) GetResultsByStatus(c *gin.Context) {
	status := domain.MatchStatus(c.Query("status"))
	switch status {
	case domain.Matched, domain.Unmatched, domain.PartiallyMatched, domain.ManualReview:
	default:
		response.BadRequest(c, "Invalid status", "Use MATCHED, UNMATCHED, PARTIALLY_MATCHED or MANUAL_REVIEW")
		return
	}

	results, err := h.service.GetResultsByStatus(status)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get results")
		response.InternalError(c, "Failed to get results", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Results retrieved successfully", results)
}

// BatchAction godoc
// @Summary Apply a bulk action to reconciliation results
// @Description Approve, reject or mark for review a list of results; each id is processed independently
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body BatchActionRequest true "Batch action request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/reconciliation/results/batch [post]
func (h *ReconciliationHandler) BatchAction(c *gin.Context) {
	var req BatchActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	outcome, err := h.service.ApplyBatchAction(domain.BatchAction(req.Action), req.IDs)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("action", req.Action).Error("Batch action failed")
		response.InternalError(c, "Batch action failed", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Batch action applied", outcome)
}
