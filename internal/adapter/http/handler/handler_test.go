package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ether-payment-gateway/internal/adapter/http/dto"
	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"
	"ether-payment-gateway/internal/core/ports/mocks"
	"ether-payment-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Payment Handler Tests ---

func TestCreatePayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	productID := uuid.New()
	mockPayment.EXPECT().IssueToken(gomock.Any(), ports.IssueTokenRequest{
		ProductID:  productID,
		Quantity:   2,
		CustomerID: "customer-1",
	}).Return("tok-abc", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = postJSON(t, "/api/v1/payments", dto.CreatePaymentRequest{
		ProductID:  productID.String(),
		Quantity:   2,
		CustomerID: "customer-1",
	})

	h.CreatePayment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "tok-abc", data["token"])
}

func TestCreatePayment_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockPaymentService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = postJSON(t, "/api/v1/payments", gin.H{"quantity": -1})

	h.CreatePayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePayment_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	mockPayment.EXPECT().IssueToken(gomock.Any(), gomock.Any()).
		Return("", apperror.ErrNotFound("product"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = postJSON(t, "/api/v1/payments", dto.CreatePaymentRequest{
		ProductID:  uuid.NewString(),
		Quantity:   1,
		CustomerID: "customer-1",
	})

	h.CreatePayment(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NF_001")
}

func TestGetPaymentInfo_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	mockPayment.EXPECT().GetInfo(gomock.Any(), "tok-abc").Return(&ports.PaymentInfo{
		ProductName:    "Annual License",
		AmountEth:      "0.2",
		Address:        "0xReceiving",
		Cryptocurrency: "ETH",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/payments/tok-abc", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok-abc"}}

	h.GetPaymentInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "0.2", data["amount_eth"])
	assert.Equal(t, "0xReceiving", data["address"])
}

func TestGetPaymentInfo_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	mockPayment.EXPECT().GetInfo(gomock.Any(), "tok-old").
		Return(nil, apperror.ErrPaymentExpired())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/payments/tok-old", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok-old"}}

	h.GetPaymentInfo(c)

	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "EXP_001")
}

func TestGetPaymentDetails_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayment := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPayment)

	now := time.Now().UTC()
	payment := &domain.Payment{
		Token:          "tok-abc",
		Quantity:       1,
		CustomerID:     "customer-1",
		TotalAmountWei: big.NewInt(100_000_000_000_000_000),
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
	}
	mockPayment.EXPECT().GetDetails(gomock.Any(), "tok-abc").Return(&ports.PaymentDetails{
		Status:  domain.PaymentStatusCompleted,
		Payment: payment,
		Product: &domain.Product{Name: "Annual License"},
		Wallet:  &domain.Wallet{Address: "0xReceiving"},
		Transactions: []domain.Transaction{{
			Hash: "0xdep", From: "0xCustomer", To: "0xReceiving",
			AmountWei: big.NewInt(100_000_000_000_000_000),
			Type:      domain.TransactionTypeExternal, CreatedAt: now,
		}},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/payments/tok-abc/details", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok-abc"}}

	h.GetPaymentDetails(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, "Annual License", data["product_name"])
	txs := data["transactions"].([]interface{})
	require.Len(t, txs, 1)
	assert.Equal(t, "0xdep", txs[0].(map[string]interface{})["hash"])
}

// --- Payout Handler Tests ---

func TestGetPayoutAmount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	userID := uuid.New()
	mockPayout.EXPECT().PayoutAmount(gomock.Any(), userID).Return(&ports.PayoutQuote{
		AmountWei: big.NewInt(250_000_000_000_000_000),
		AmountEth: "0.25",
		Currency:  "ETH",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/payouts/amount?user_id="+userID.String(), nil)

	h.GetPayoutAmount(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "0.25", data["amount_eth"])
	assert.Equal(t, "ETH", data["currency"])
}

func TestGetPayoutAmount_BadUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPayoutHandler(mocks.NewMockPayoutService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/payouts/amount?user_id=nope", nil)

	h.GetPayoutAmount(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedulePayout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	userID := uuid.New()
	address := "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	payout := &domain.ScheduledPayout{
		ID:        uuid.New(),
		UserID:    userID,
		AmountWei: big.NewInt(250_000_000_000_000_000),
		Address:   address,
		Status:    domain.PayoutStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	mockPayout.EXPECT().SchedulePayout(gomock.Any(), userID, address).Return(payout, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = postJSON(t, "/api/v1/payouts", dto.SchedulePayoutRequest{
		UserID:  userID.String(),
		Address: address,
	})

	h.SchedulePayout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "0.25", data["amount_eth"])
}

func TestSchedulePayout_NothingPayable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout)

	userID := uuid.New()
	address := "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	mockPayout.EXPECT().SchedulePayout(gomock.Any(), userID, address).
		Return(nil, apperror.ErrNoFundsForPayout())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = postJSON(t, "/api/v1/payouts", dto.SchedulePayoutRequest{
		UserID:  userID.String(),
		Address: address,
	})

	h.SchedulePayout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PAY_002")
}

// --- Reconcile Handler Tests ---

func TestTriggerWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewReconcileHandler(mockReconcile)

	mockReconcile.EXPECT().ProcessWallet(gomock.Any(), "0xReceiving").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/reconcile/0xReceiving", nil)
	c.Params = gin.Params{{Key: "address", Value: "0xReceiving"}}

	h.TriggerWallet(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTriggerWallet_UnknownWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReconcile := mocks.NewMockReconcileService(ctrl)
	h := NewReconcileHandler(mockReconcile)

	mockReconcile.EXPECT().ProcessWallet(gomock.Any(), "0xUnknown").
		Return(apperror.ErrNotFound("wallet"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/reconcile/0xUnknown", nil)
	c.Params = gin.Params{{Key: "address", Value: "0xUnknown"}}

	h.TriggerWallet(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Health Check ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis", err: assert.AnError})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
