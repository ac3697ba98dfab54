package transport

import (
	"net/http"
	"strconv"

	"commerce-platform/internal/domain"
	"commerce-platform/internal/middleware"
	"commerce-platform/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProcessPaymentRequest represents the payment processing payload. The amount
// is part of the request; cart totals live in the cart service, which this
// service does not call.
type ProcessPaymentRequest struct {
	CartID int64           `json:"carrito_id" validate:"required,gt=0"`
	UserID int64           `json:"usuario_id" validate:"required,gt=0"`
	Method string          `json:"metodo_pago" validate:"required"`
	Amount decimal.Decimal `json:"monto"`
}

// PaymentResource is a payment plus its hypermedia links
type PaymentResource struct {
	*domain.Payment
	Links Links `json:"_links"`
}

// PaymentCollection is a list of payment resources plus collection links
type PaymentCollection struct {
	Payments []PaymentResource `json:"pagos"`
	Links    Links             `json:"_links"`
}

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentService service.PaymentService
	links          *LinkBuilder
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		links:          NewLinkBuilder("/api/pagos"),
		logger:         logger,
	}
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/pagos", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/procesar", h.Process)
		r.Get("/{id}", h.Get)
		r.Get("/usuario/{usuarioId}", h.ListByUser)
		r.Post("/{id}/reembolsar", h.Refund)
	})
}

// Process handles payment processing
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Payment validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.paymentService.Process(r.Context(), service.ProcessPaymentInput{
		CartID: req.CartID,
		UserID: req.UserID,
		Method: req.Method,
		Amount: req.Amount,
	})

	if result.HasErrors() {
		h.logger.Debug("Payment rejected", zap.Strings("errors", result.Errors))
		middleware.RespondWithJSON(w, http.StatusBadRequest, ErrorListResponse{Errors: result.Errors})
		return
	}

	payment := result.Data
	h.logger.Info("Payment processed",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("cart_id", payment.CartID),
		zap.String("method", payment.Method),
	)

	w.Header().Set("Location", h.links.Location(payment))
	middleware.RespondWithJSON(w, http.StatusCreated, PaymentResource{
		Payment: payment,
		Links:   h.links.Payment(payment),
	})
}

// Get handles getting a payment by ID
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	result := h.paymentService.Get(r.Context(), id)
	if result.HasErrors() {
		middleware.RespondWithJSON(w, http.StatusNotFound, ErrorListResponse{Errors: result.Errors})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaymentResource{
		Payment: result.Data,
		Links:   h.links.Payment(result.Data),
	})
}

// ListByUser handles getting all payments for a user
func (h *PaymentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "usuarioId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	result := h.paymentService.ListByUser(r.Context(), userID)
	if result.HasErrors() {
		h.logger.Error("Payment listing failed", zap.Strings("errors", result.Errors))
		middleware.RespondWithJSON(w, http.StatusBadRequest, ErrorListResponse{Errors: result.Errors})
		return
	}

	resources := make([]PaymentResource, 0, len(result.Data))
	for _, p := range result.Data {
		resources = append(resources, PaymentResource{
			Payment: p,
			Links:   h.links.Payment(p),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, PaymentCollection{
		Payments: resources,
		Links:    h.links.UserCollection(userID),
	})
}

// Refund handles refunding a completed payment
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	result := h.paymentService.Refund(r.Context(), id)
	if result.HasErrors() {
		h.logger.Debug("Refund rejected",
			zap.Int64("payment_id", id),
			zap.Strings("errors", result.Errors),
		)
		middleware.RespondWithJSON(w, http.StatusBadRequest, ErrorListResponse{Errors: result.Errors})
		return
	}

	h.logger.Info("Payment refunded", zap.Int64("payment_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, PaymentResource{
		Payment: result.Data,
		Links:   h.links.Refund(result.Data),
	})
}
