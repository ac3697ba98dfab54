package transport

import (
	"net/http"
	"strconv"

	"commerce-platform/internal/middleware"
	"commerce-platform/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	SKU         string          `json:"codigo_sku" validate:"required"`
	Name        string          `json:"nombre" validate:"required"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Cost        decimal.Decimal `json:"costo"`
	Catalog     string          `json:"catalogo"`
	Serial      string          `json:"serial" validate:"required"`
	SupplierID  int64           `json:"proveedor_id" validate:"required,gt=0"`
	CategoryID  int64           `json:"categoria_id" validate:"required,gt=0"`
}

// ErrorListResponse carries the business error messages of a failed operation
type ErrorListResponse struct {
	Errors []string `json:"errors"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Mutations and the supplier
// proxy require authentication; reads are public.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/productos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
			r.Get("/proveedor/{proveedorId}", h.GetSupplier)
		})
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Price.IsNegative() || req.Cost.IsNegative() {
		middleware.RespondWithError(w, http.StatusBadRequest, "precio y costo no pueden ser negativos")
		return
	}

	result := h.productService.Create(r.Context(), service.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Catalog:     req.Catalog,
		Serial:      req.Serial,
		SupplierID:  req.SupplierID,
		CategoryID:  req.CategoryID,
	})

	if result.HasErrors() {
		h.logger.Debug("Product creation rejected", zap.Strings("errors", result.Errors))
		middleware.RespondWithJSON(w, http.StatusBadRequest, ErrorListResponse{Errors: result.Errors})
		return
	}

	h.logger.Info("Product created",
		zap.Int64("product_id", result.Data.ID),
		zap.String("sku", result.Data.SKU),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, result.Data)
}

// List handles listing all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	result := h.productService.List(r.Context())
	if result.HasErrors() {
		h.logger.Error("Product listing failed", zap.Strings("errors", result.Errors))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result.Data)
}

// Get handles getting a product by ID
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	result := h.productService.Get(r.Context(), id)
	if result.HasErrors() {
		middleware.RespondWithJSON(w, http.StatusNotFound, ErrorListResponse{Errors: result.Errors})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result.Data)
}

// Delete handles deleting a product by ID
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	result := h.productService.Delete(r.Context(), id)
	if result.HasErrors() {
		middleware.RespondWithJSON(w, http.StatusNotFound, ErrorListResponse{Errors: result.Errors})
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// GetSupplier proxies a supplier lookup to the supplier service, forwarding
// the caller's bearer token.
func (h *ProductHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "proveedorId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	token, ok := middleware.GetBearerToken(r.Context())
	if !ok {
		h.logger.Error("Bearer token not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result := h.productService.GetSupplier(r.Context(), id, token)
	if result.HasErrors() {
		h.logger.Warn("Supplier lookup failed",
			zap.Int64("supplier_id", id),
			zap.Strings("errors", result.Errors),
		)
		middleware.RespondWithJSON(w, http.StatusBadGateway, ErrorListResponse{Errors: result.Errors})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result.Data)
}
