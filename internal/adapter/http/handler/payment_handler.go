package handler

import (
	"ether-payment-gateway/internal/adapter/http/dto"
	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/apperror"
	"ether-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment-related endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// CreatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(c, apperror.Validation("product_id must be a UUID"))
		return
	}

	token, err := h.paymentSvc.IssueToken(c.Request.Context(), ports.IssueTokenRequest{
		ProductID:  productID,
		Quantity:   req.Quantity,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.CreatePaymentResponse{Token: token})
}

// GetPaymentInfo handles GET /api/v1/payments/:token.
func (h *PaymentHandler) GetPaymentInfo(c *gin.Context) {
	info, err := h.paymentSvc.GetInfo(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PaymentInfoResponse{
		ProductName:    info.ProductName,
		AmountEth:      info.AmountEth,
		Address:        info.Address,
		Cryptocurrency: info.Cryptocurrency,
	})
}

// GetPaymentDetails handles GET /api/v1/payments/:token/details.
func (h *PaymentHandler) GetPaymentDetails(c *gin.Context) {
	details, err := h.paymentSvc.GetDetails(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPaymentDetailsResponse(details))
}

func toPaymentDetailsResponse(d *ports.PaymentDetails) dto.PaymentDetailsResponse {
	resp := dto.PaymentDetailsResponse{
		Token:        d.Payment.Token,
		Status:       string(d.Status),
		Quantity:     d.Payment.Quantity,
		CustomerID:   d.Payment.CustomerID,
		AmountEth:    domain.FormatEth(d.Payment.TotalAmountWei),
		CreatedAt:    d.Payment.CreatedAt.Format(timeFormat),
		ExpiresAt:    d.Payment.ExpiresAt.Format(timeFormat),
		Transactions: make([]dto.TransactionResponse, 0, len(d.Transactions)),
	}
	if d.Product != nil {
		resp.ProductName = d.Product.Name
	}
	if d.Wallet != nil {
		resp.Address = d.Wallet.Address
	}
	for _, tx := range d.Transactions {
		resp.Transactions = append(resp.Transactions, dto.TransactionResponse{
			Hash:      tx.Hash,
			From:      tx.From,
			To:        tx.To,
			AmountEth: domain.FormatEth(tx.AmountWei),
			Type:      string(tx.Type),
			CreatedAt: tx.CreatedAt.Format(timeFormat),
		})
	}
	return resp
}
