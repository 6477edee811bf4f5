package dto

// CreatePaymentRequest is the request body for payment token issuance.
type CreatePaymentRequest struct {
	ProductID  string `json:"product_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	CustomerID string `json:"customer_id" binding:"required,max=100"`
}

// CreatePaymentResponse is the response body for successful issuance.
type CreatePaymentResponse struct {
	Token string `json:"token"`
}

// PaymentInfoResponse is the customer-facing payment view.
type PaymentInfoResponse struct {
	ProductName    string `json:"product_name"`
	AmountEth      string `json:"amount_eth"`
	Address        string `json:"address"`
	Cryptocurrency string `json:"cryptocurrency"`
}

// TransactionResponse is one on-chain transfer in a details view.
type TransactionResponse struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	AmountEth string `json:"amount_eth"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// PaymentDetailsResponse is the merchant-facing payment view.
type PaymentDetailsResponse struct {
	Token        string                `json:"token"`
	Status       string                `json:"status"`
	ProductName  string                `json:"product_name"`
	Quantity     int                   `json:"quantity"`
	CustomerID   string                `json:"customer_id"`
	AmountEth    string                `json:"amount_eth"`
	Address      string                `json:"address"`
	CreatedAt    string                `json:"created_at"`
	ExpiresAt    string                `json:"expires_at"`
	Transactions []TransactionResponse `json:"transactions"`
}

// SchedulePayoutRequest is the request body for payout scheduling.
type SchedulePayoutRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	Address string `json:"address" binding:"required"`
}

// PayoutResponse is the response body for a scheduled payout.
type PayoutResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	AmountEth string `json:"amount_eth"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// PayoutAmountResponse is the response body for a payout quote.
type PayoutAmountResponse struct {
	AmountEth string `json:"amount_eth"`
	Currency  string `json:"currency"`
}
