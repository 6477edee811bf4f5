package handler

import (
	"time"

	"ether-payment-gateway/internal/adapter/http/dto"
	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"
	"ether-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// timeFormat is the wire format for timestamps in response bodies.
const timeFormat = time.RFC3339

// PayoutHandler handles merchant payout endpoints.
type PayoutHandler struct {
	payoutSvc ports.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutSvc ports.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutSvc: payoutSvc}
}

// GetPayoutAmount handles GET /api/v1/payouts/amount.
func (h *PayoutHandler) GetPayoutAmount(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a UUID"))
		return
	}

	quote, err := h.payoutSvc.PayoutAmount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PayoutAmountResponse{
		AmountEth: quote.AmountEth,
		Currency:  quote.Currency,
	})
}

// SchedulePayout handles POST /api/v1/payouts.
func (h *PayoutHandler) SchedulePayout(c *gin.Context) {
	var req dto.SchedulePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a UUID"))
		return
	}

	payout, err := h.payoutSvc.SchedulePayout(c.Request.Context(), userID, req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PayoutResponse{
		ID:        payout.ID.String(),
		UserID:    payout.UserID.String(),
		AmountEth: domain.FormatEth(payout.AmountWei),
		Address:   payout.Address,
		Status:    string(payout.Status),
		CreatedAt: payout.CreatedAt.Format(timeFormat),
	})
}
