package handlers

import (
	"net/http"
	"strconv"

	recordsRepo "parkrefund/database/repository/records"
	"parkrefund/models"
	"parkrefund/resolvers"
	"parkrefund/utils"

	"github.com/gin-gonic/gin"
)

// RefundHandler exposes the pipeline operations to operators and batch jobs.
type RefundHandler struct {
	Resolver *resolvers.RefundResolver
	Records  recordsRepo.DecisionRecordRepository
}

func NewRefundHandler(resolver *resolvers.RefundResolver, records recordsRepo.DecisionRecordRepository) *RefundHandler {
	return &RefundHandler{Resolver: resolver, Records: records}
}

// DecideRefund is POST /api/refunds/decide.
func (h *RefundHandler) DecideRefund(c *gin.Context) {
	var input struct {
		Ticket models.TicketData   `json:"ticket"`
		Notes  []models.TicketNote `json:"notes,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Resolver.DecideRefund(c.Request.Context(), input.Ticket, input.Notes)
	if err != nil {
		// Provider credential failures surface here for operational alerting.
		utils.JSONError(c, http.StatusBadGateway, "decision pipeline failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyBooking is POST /api/refunds/verify.
func (h *RefundHandler) VerifyBooking(c *gin.Context) {
	var info models.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid customer info", err.Error())
		return
	}

	result, err := h.Resolver.VerifyBooking(c.Request.Context(), info)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "verification failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeDuplicates is POST /api/refunds/duplicates.
func (h *RefundHandler) AnalyzeDuplicates(c *gin.Context) {
	var input struct {
		Bookings []any `json:"bookings"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Resolver.AnalyzeDuplicates(input.Bookings))
}

// GetTicketRecords is GET /api/refunds/records/:ticketID.
func (h *RefundHandler) GetTicketRecords(c *gin.Context) {
	ticketID := c.Param("ticketID")
	records, err := h.Records.GetByTicketID(c.Request.Context(), ticketID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch records", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticketID": ticketID, "records": records})
}

// ListRecentRecords is GET /api/refunds/records.
func (h *RefundHandler) ListRecentRecords(c *gin.Context) {
	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	records, err := h.Records.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch records", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Health is GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
