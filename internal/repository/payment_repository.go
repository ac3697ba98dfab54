package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"commerce-platform/internal/domain"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentNotRefundable is returned when the conditional refund update
	// matches no row, either because the payment was never completed or
	// because a concurrent refund already won.
	ErrPaymentNotRefundable = errors.New("payment not in a refundable state")
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id int64) (*domain.Payment, error)
	FindByUser(ctx context.Context, userID int64) ([]*domain.Payment, error)
	MarkRefunded(ctx context.Context, payment *domain.Payment) error
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts a new payment and fills in its store-assigned ID
func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO pagos (carrito_id, usuario_id, metodo_pago, monto, estado, referencia, fecha_pago)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		payment.CartID,
		payment.UserID,
		payment.Method,
		payment.Amount,
		payment.Status,
		payment.Reference,
		payment.PaidAt,
	).Scan(&payment.ID)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment by ID
func (r *paymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `
		SELECT id, carrito_id, usuario_id, metodo_pago, monto, estado, referencia,
		       fecha_pago, fecha_reembolso, referencia_reembolso
		FROM pagos
		WHERE id = $1
	`

	payment := &domain.Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.CartID,
		&payment.UserID,
		&payment.Method,
		&payment.Amount,
		&payment.Status,
		&payment.Reference,
		&payment.PaidAt,
		&payment.RefundedAt,
		&payment.RefundReference,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID: %w", err)
	}

	return payment, nil
}

// FindByUser retrieves all payments made by a user
func (r *paymentRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Payment, error) {
	query := `
		SELECT id, carrito_id, usuario_id, metodo_pago, monto, estado, referencia,
		       fecha_pago, fecha_reembolso, referencia_reembolso
		FROM pagos
		WHERE usuario_id = $1
		ORDER BY fecha_pago DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by user: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		payment := &domain.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.CartID,
			&payment.UserID,
			&payment.Method,
			&payment.Amount,
			&payment.Status,
			&payment.Reference,
			&payment.PaidAt,
			&payment.RefundedAt,
			&payment.RefundReference,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// MarkRefunded persists the refund transition. The update is guarded on the
// completed status so two concurrent refunds cannot both succeed.
func (r *paymentRepository) MarkRefunded(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE pagos
		SET estado = $2, fecha_reembolso = $3, referencia_reembolso = $4
		WHERE id = $1 AND estado = $5
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.Status,
		payment.RefundedAt,
		payment.RefundReference,
		domain.StatusCompleted,
	)

	if err != nil {
		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotRefundable
	}

	return nil
}
