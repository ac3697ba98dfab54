package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses. StatusCompleted is the only state a refund may start
// from; StatusRefunded is terminal.
const (
	StatusCompleted = "COMPLETADO"
	StatusRefunded  = "REEMBOLSADO"
)

// Payment methods accepted by the payment service.
const (
	MethodCreditCard   = "TARJETA_CREDITO"
	MethodPayPal       = "PAYPAL"
	MethodBankTransfer = "TRANSFERENCIA"
)

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodPayPal, MethodBankTransfer:
		return true
	}
	return false
}

// Payment represents a processed payment for a cart. Refund fields are nil
// until the payment is refunded.
type Payment struct {
	ID              int64           `json:"id" db:"id"`
	CartID          int64           `json:"carrito_id" db:"carrito_id"`
	UserID          int64           `json:"usuario_id" db:"usuario_id"`
	Method          string          `json:"metodo_pago" db:"metodo_pago"`
	Amount          decimal.Decimal `json:"monto" db:"monto"`
	Status          string          `json:"estado" db:"estado"`
	Reference       uuid.UUID       `json:"referencia" db:"referencia"`
	PaidAt          time.Time       `json:"fecha_pago" db:"fecha_pago"`
	RefundedAt      *time.Time      `json:"fecha_reembolso,omitempty" db:"fecha_reembolso"`
	RefundReference *uuid.UUID      `json:"referencia_reembolso,omitempty" db:"referencia_reembolso"`
}

// Refundable reports whether the payment is in a state that permits a refund.
func (p *Payment) Refundable() bool {
	return p.Status == StatusCompleted
}
