package handler

import (
	"ether-payment-gateway/internal/adapter/http/middleware"
	"ether-payment-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	PayoutSvc      ports.PayoutService
	ReconcileSvc   ports.ReconcileService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("/:token", paymentHandler.GetPaymentInfo)
		payments.GET("/:token/details", paymentHandler.GetPaymentDetails)
	}

	payoutHandler := NewPayoutHandler(deps.PayoutSvc)
	payouts := v1.Group("/payouts")
	{
		payouts.GET("/amount", payoutHandler.GetPayoutAmount)
		payouts.POST("", payoutHandler.SchedulePayout)
	}

	reconcileHandler := NewReconcileHandler(deps.ReconcileSvc)
	v1.POST("/reconcile/:address", reconcileHandler.TriggerWallet)

	return r
}
