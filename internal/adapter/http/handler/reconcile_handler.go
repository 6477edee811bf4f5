package handler

import (
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReconcileHandler exposes the manual reconciliation trigger.
type ReconcileHandler struct {
	reconcileSvc ports.ReconcileService
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(reconcileSvc ports.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileSvc: reconcileSvc}
}

// TriggerWallet handles POST /api/v1/reconcile/:address. It reconciles the
// pending payments bound to one receiving wallet on demand, ahead of the
// scheduled run.
func (h *ReconcileHandler) TriggerWallet(c *gin.Context) {
	if err := h.reconcileSvc.ProcessWallet(c.Request.Context(), c.Param("address")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"reconciled": true})
}
