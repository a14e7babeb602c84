package models

import "time"

type VoucherStatus string

const (
	VoucherStatusPending VoucherStatus = "PENDING"
	VoucherStatusPaid    VoucherStatus = "PAID"
	VoucherStatusFailed  VoucherStatus = "FAILED"
)

func (s VoucherStatus) IsTerminal() bool {
	return s == VoucherStatusPaid || s == VoucherStatusFailed
}

// VoucherPurchase is a gift voucher order. The ID doubles as the voucher
// code source, and PaymentReference is the idempotency key shared with the
// payment gateway: once set it is never reassigned.
type VoucherPurchase struct {
	ID                string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Amount            float64       `json:"amount" gorm:"not null"`
	Currency          string        `json:"currency" gorm:"type:varchar(3);not null;default:'EUR'"`
	BuyerName         string        `json:"buyer_name" gorm:"not null"`
	BuyerEmail        string        `json:"buyer_email" gorm:"not null"`
	RecipientName     *string       `json:"recipient_name"`
	RecipientEmail    *string       `json:"recipient_email"`
	Message           *string       `json:"message"`
	Status            VoucherStatus `json:"status" gorm:"type:varchar(16);index;not null;default:'PENDING'"`
	PaymentReference  *string       `json:"payment_reference,omitempty" gorm:"type:varchar(80);uniqueIndex"`
	PaymentCheckoutID *string       `json:"payment_checkout_id" gorm:"type:varchar(80);index"`
	PaidAt            *time.Time    `json:"paid_at"`
	EmailedAt         *time.Time    `json:"emailed_at"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type CreateVoucherPurchaseRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"omitempty,len=3,alpha"`
	BuyerName      string  `json:"buyer_name" validate:"required"`
	BuyerEmail     string  `json:"buyer_email" validate:"required,email"`
	RecipientName  *string `json:"recipient_name"`
	RecipientEmail *string `json:"recipient_email" validate:"omitempty,email"`
	Message        *string `json:"message"`
}

type StartCheckoutRequest struct {
	VoucherPurchaseID string `json:"voucher_purchase_id" validate:"required"`
}

type StartCheckoutResponse struct {
	CheckoutID string `json:"checkout_id"`
	HostedURL  string `json:"hosted_url,omitempty"`
}

type ConfirmPaymentRequest struct {
	CheckoutID string `json:"checkout_id" validate:"required"`
}

type ConfirmPaymentResponse struct {
	Status VoucherStatus `json:"status"`
}

type UpdateVoucherStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
