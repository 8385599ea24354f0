package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bank-recon/internal/domain"
	"bank-recon/internal/service"
	"bank-recon/pkg/logger"
	"bank-recon/pkg/response"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type CreatePaymentRequest struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Date          string  `json:"date" binding:"required"`
	Description   string  `json:"description"`
}

type BulkCreatePaymentRequest struct {
	Payments []CreatePaymentRequest `json:"payments" binding:"required,min=1"`
}

type GetPaymentsByDateRangeRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// CreatePayment godoc
// @Summary Create a system payment
// @Description Register a payment in the candidate pool used for reconciliation
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date format", "Use RFC3339 format")
		return
	}

	payment := &domain.SystemPayment{
		ID:            req.ID,
		TransactionID: req.TransactionID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Date:          date,
		Description:   req.Description,
	}

	if err := h.service.Create(payment); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create payment")
		response.InternalError(c, "Failed to create payment", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Payment created successfully", payment)
}

// BulkCreatePayments godoc
// @Summary Bulk create system payments
// @Description Register multiple payments at once; invalid entries are skipped
// @Tags payments
// @Accept json
// @Produce json
// @Param payments body BulkCreatePaymentRequest true "Payments data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/payments/bulk [post]
func (h *PaymentHandler) BulkCreatePayments(c *gin.Context) {
	var req BulkCreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	payments := make([]domain.SystemPayment, 0, len(req.Payments))
	for _, p := range req.Payments {
		date, err := time.Parse(time.RFC3339, p.Date)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("payment_id", p.ID).Warn("Invalid payment date, skipping")
			continue
		}

		payments = append(payments, domain.SystemPayment{
			ID:            p.ID,
			TransactionID: p.TransactionID,
			Amount:        decimal.NewFromFloat(p.Amount),
			Date:          date,
			Description:   p.Description,
		})
	}

	count, err := h.service.BulkCreate(payments)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to bulk create payments")
		response.InternalError(c, "Failed to bulk create payments", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Payments created successfully", map[string]int{"count": count})
}

// GetPayment godoc
// @Summary Get payment by ID
// @Description Get a single system payment by its ID
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")

	payment, err := h.service.GetByID(id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("payment_id", id).Error("Payment not found")
		response.NotFound(c, "Payment not found")
		return
	}

	response.Success(c, http.StatusOK, "Payment retrieved successfully", payment)
}

// GetPaymentsByDateRange godoc
// @Summary List payments by date range
// @Description List system payments whose date falls within the given range
// @Tags payments
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/payments [get]
func (h *PaymentHandler) GetPaymentsByDateRange(c *gin.Context) {
	var req GetPaymentsByDateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start_date format", "Use YYYY-MM-DD format")
		return
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end_date format", "Use YYYY-MM-DD format")
		return
	}

	// Include the whole end day
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	payments, err := h.service.GetByDateRange(startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get payments")
		response.InternalError(c, "Failed to get payments", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Payments retrieved successfully", payments)
}
