package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Lookup failures (NF) ----

func ErrNotFound(entity string) *AppError {
	return New("NF_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- State conflicts (CFL) ----

// ErrPaymentFinalized is returned when a terminal status event already exists
// and a further transition is attempted.
func ErrPaymentFinalized(status string) *AppError {
	return New("CFL_001", fmt.Sprintf("payment already %s", status), http.StatusConflict)
}

func ErrMainWalletExists() *AppError {
	return New("CFL_002", "main wallet already exists", http.StatusConflict)
}

func ErrInvalidStatus(status string) *AppError {
	return New("CFL_003", fmt.Sprintf("status %q cannot be applied", status), http.StatusBadRequest)
}

// ---- Payment expiry (EXP) ----

// ErrPaymentExpired is distinct from NotFound: the payment exists but its
// window has passed.
func ErrPaymentExpired() *AppError {
	return New("EXP_001", "payment expired", http.StatusGone)
}

// ---- Fund movement (PAY) ----

func ErrInsufficientFunds() *AppError {
	return New("PAY_001", "insufficient funds", http.StatusPaymentRequired)
}

func ErrNoFundsForPayout() *AppError {
	return New("PAY_002", "no funds available for payout", http.StatusBadRequest)
}

func ErrFeeTooHigh(feeEth string) *AppError {
	return New("PAY_003", fmt.Sprintf("network fee too high: %s ETH", feeEth), http.StatusServiceUnavailable)
}

func ErrInvalidAddress(address string) *AppError {
	return New("PAY_004", fmt.Sprintf("invalid destination address: %s", address), http.StatusBadRequest)
}

func ErrInvalidQuantity() *AppError {
	return New("PAY_005", "quantity must be positive", http.StatusBadRequest)
}

// ---- Upstream dependencies (UPS) ----

func ErrUpstreamUnavailable(source string, err error) *AppError {
	return Wrap("UPS_001", fmt.Sprintf("%s unavailable", source), http.StatusBadGateway, err)
}

func ErrStaleRate(currency string) *AppError {
	return New("UPS_002", fmt.Sprintf("no fresh exchange rate for %s", currency), http.StatusBadGateway)
}

// ---- System & Infrastructure (SYS) ----

func ErrVaultFailure(err error) *AppError {
	return Wrap("SYS_002", "key vault failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
