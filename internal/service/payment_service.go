package service

import (
	"context"
	"fmt"
	"time"

	"commerce-platform/internal/domain"
	"commerce-platform/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MsgInvalidAmount        = "El monto debe ser mayor a cero"
	MsgInvalidCart          = "El carrito es inválido"
	MsgInvalidUser          = "El usuario es inválido"
	MsgPaymentNotRefundable = "Solo se pueden reembolsar pagos completados"
)

// ProcessPaymentInput carries a payment request into the service. Amount
// arrives with the request; cart totals are owned by the cart service, which
// is outside this platform's call graph.
type ProcessPaymentInput struct {
	CartID int64
	UserID int64
	Method string
	Amount decimal.Decimal
}

// PaymentService defines the payment business logic
type PaymentService interface {
	Process(ctx context.Context, input ProcessPaymentInput) Result[*domain.Payment]
	Get(ctx context.Context, id int64) Result[*domain.Payment]
	ListByUser(ctx context.Context, userID int64) Result[[]*domain.Payment]
	Refund(ctx context.Context, id int64) Result[*domain.Payment]
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	now         func() time.Time
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(paymentRepo repository.PaymentRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// Process validates the request and persists a completed payment. Validation
// failures are accumulated so the caller sees every problem at once.
func (s *paymentService) Process(ctx context.Context, input ProcessPaymentInput) Result[*domain.Payment] {
	var errs []string

	if input.CartID <= 0 {
		errs = append(errs, MsgInvalidCart)
	}
	if input.UserID <= 0 {
		errs = append(errs, MsgInvalidUser)
	}
	if !domain.ValidMethod(input.Method) {
		errs = append(errs, fmt.Sprintf("Método de pago inválido: %s", input.Method))
	}
	if !input.Amount.IsPositive() {
		errs = append(errs, MsgInvalidAmount)
	}

	if len(errs) > 0 {
		return Fail[*domain.Payment](errs...)
	}

	payment := &domain.Payment{
		CartID:    input.CartID,
		UserID:    input.UserID,
		Method:    input.Method,
		Amount:    input.Amount,
		Status:    domain.StatusCompleted,
		Reference: uuid.New(),
		PaidAt:    s.now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return Fail[*domain.Payment](fmt.Sprintf("Error al procesar el pago: %v", err))
	}

	return Ok(payment)
}

// Get returns a payment by ID
func (s *paymentService) Get(ctx context.Context, id int64) Result[*domain.Payment] {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return Fail[*domain.Payment](fmt.Sprintf("Pago no encontrado con ID %d", id))
		}
		return Fail[*domain.Payment](fmt.Sprintf("Error al buscar el pago: %v", err))
	}

	return Ok(payment)
}

// ListByUser returns all payments made by a user; none is not an error.
func (s *paymentService) ListByUser(ctx context.Context, userID int64) Result[[]*domain.Payment] {
	payments, err := s.paymentRepo.FindByUser(ctx, userID)
	if err != nil {
		return Fail[[]*domain.Payment](fmt.Sprintf("Error al listar los pagos: %v", err))
	}

	return Ok(payments)
}

// Refund transitions a completed payment to refunded. The repository update
// is conditional on the completed status, so a refund that loses a race with
// a concurrent refund fails with the same business error as refunding an
// already-refunded payment.
func (s *paymentService) Refund(ctx context.Context, id int64) Result[*domain.Payment] {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return Fail[*domain.Payment](fmt.Sprintf("Pago no encontrado con ID %d", id))
		}
		return Fail[*domain.Payment](fmt.Sprintf("Error al buscar el pago: %v", err))
	}

	if !payment.Refundable() {
		return Fail[*domain.Payment](MsgPaymentNotRefundable)
	}

	refundedAt := s.now()
	refundRef := uuid.New()
	payment.Status = domain.StatusRefunded
	payment.RefundedAt = &refundedAt
	payment.RefundReference = &refundRef

	if err := s.paymentRepo.MarkRefunded(ctx, payment); err != nil {
		if err == repository.ErrPaymentNotRefundable {
			return Fail[*domain.Payment](MsgPaymentNotRefundable)
		}
		return Fail[*domain.Payment](fmt.Sprintf("Error al reembolsar el pago: %v", err))
	}

	return Ok(payment)
}
