package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"commerce-platform/internal/domain"
	"commerce-platform/internal/repository"
	"commerce-platform/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Mock repository for testing
type mockPaymentRepository struct {
	payments map[int64]*domain.Payment
	nextID   int64
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{
		payments: make(map[int64]*domain.Payment),
		nextID:   1,
	}
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.ID = m.nextID
	m.nextID++
	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	payment, exists := m.payments[id]
	if !exists {
		return nil, repository.ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

func (m *mockPaymentRepository) FindByUser(ctx context.Context, userID int64) ([]*domain.Payment, error) {
	payments := []*domain.Payment{}
	for _, p := range m.payments {
		if p.UserID == userID {
			copied := *p
			payments = append(payments, &copied)
		}
	}
	return payments, nil
}

func (m *mockPaymentRepository) MarkRefunded(ctx context.Context, payment *domain.Payment) error {
	stored, exists := m.payments[payment.ID]
	if !exists || stored.Status != domain.StatusCompleted {
		return repository.ErrPaymentNotRefundable
	}
	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

// passthroughAuth stands in for the JWT middleware in handler tests.
func passthroughAuth(next http.Handler) http.Handler {
	return next
}

func newPaymentRouter(repo repository.PaymentRepository) chi.Router {
	paymentService := service.NewPaymentService(repo)
	handler := NewPaymentHandler(paymentService, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, passthroughAuth)
	return router
}

type paymentResourceBody struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"usuario_id"`
	Status string          `json:"estado"`
	Links  map[string]Link `json:"_links"`
}

func processPayment(t *testing.T, router chi.Router, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/pagos/procesar", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validProcessBody() map[string]interface{} {
	return map[string]interface{}{
		"carrito_id":  123,
		"usuario_id":  1001,
		"metodo_pago": domain.MethodCreditCard,
		"monto":       "1200.00",
	}
}

func TestProcessPayment_Created(t *testing.T) {
	router := newPaymentRouter(newMockPaymentRepository())

	rec := processPayment(t, router, validProcessBody())

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if loc := rec.Header().Get("Location"); loc != "/api/pagos/1" {
		t.Errorf("Expected Location /api/pagos/1, got %q", loc)
	}

	var body paymentResourceBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body.Status != domain.StatusCompleted {
		t.Errorf("Expected status %s, got %s", domain.StatusCompleted, body.Status)
	}
	if _, ok := body.Links["self"]; !ok {
		t.Error("Expected self link")
	}
	if _, ok := body.Links["reembolsar"]; !ok {
		t.Error("Expected reembolsar link on a completed payment")
	}
	if _, ok := body.Links["pagos-usuario"]; !ok {
		t.Error("Expected pagos-usuario link")
	}
}

func TestProcessPayment_InvalidMethodReturnsErrorList(t *testing.T) {
	router := newPaymentRouter(newMockPaymentRepository())

	body := validProcessBody()
	body["metodo_pago"] = "CHEQUE"
	rec := processPayment(t, router, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	var errResp ErrorListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if len(errResp.Errors) == 0 {
		t.Fatal("Expected non-empty error list")
	}
	if errResp.Errors[0] != "Método de pago inválido: CHEQUE" {
		t.Errorf("Unexpected message: %q", errResp.Errors[0])
	}
}

func TestGetPayment_NotFoundIs404(t *testing.T) {
	router := newPaymentRouter(newMockPaymentRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/pagos/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestGetPayment_IncludesLinks(t *testing.T) {
	router := newPaymentRouter(newMockPaymentRepository())

	if rec := processPayment(t, router, validProcessBody()); rec.Code != http.StatusCreated {
		t.Fatalf("Setup payment failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/pagos/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body paymentResourceBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Links["self"].Href != "/api/pagos/1" {
		t.Errorf("Unexpected self link: %q", body.Links["self"].Href)
	}
	if body.Links["pagos-usuario"].Href != "/api/pagos/usuario/1001" {
		t.Errorf("Unexpected pagos-usuario link: %q", body.Links["pagos-usuario"].Href)
	}
}

func TestRefund_TransitionsAndDropsRefundLink(t *testing.T) {
	repo := newMockPaymentRepository()
	router := newPaymentRouter(repo)

	if rec := processPayment(t, router, validProcessBody()); rec.Code != http.StatusCreated {
		t.Fatalf("Setup payment failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/pagos/1/reembolsar", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body paymentResourceBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Status != domain.StatusRefunded {
		t.Errorf("Expected status %s, got %s", domain.StatusRefunded, body.Status)
	}
	if body.Links["pago"].Href != "/api/pagos/1" {
		t.Errorf("Expected pago link, got %v", body.Links)
	}

	// A second refund must fail with 400
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pagos/1/reembolsar", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on double refund, got %d", rec.Code)
	}
}

func TestListByUser_CollectionLinks(t *testing.T) {
	router := newPaymentRouter(newMockPaymentRepository())

	if rec := processPayment(t, router, validProcessBody()); rec.Code != http.StatusCreated {
		t.Fatalf("Setup payment failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/pagos/usuario/1001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var collection struct {
		Payments []paymentResourceBody `json:"pagos"`
		Links    map[string]Link       `json:"_links"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &collection); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(collection.Payments) != 1 {
		t.Fatalf("Expected 1 payment, got %d", len(collection.Payments))
	}
	if collection.Links["procesar-pago"].Href != "/api/pagos/procesar" {
		t.Errorf("Unexpected procesar-pago link: %q", collection.Links["procesar-pago"].Href)
	}
	if collection.Links["self"].Href != "/api/pagos/usuario/1001" {
		t.Errorf("Unexpected self link: %q", collection.Links["self"].Href)
	}
}

func TestRefundLinkOnlyWhileRefundable(t *testing.T) {
	builder := NewLinkBuilder("/api/pagos")

	paidAt := time.Now()
	completed := &domain.Payment{ID: 7, UserID: 3, Status: domain.StatusCompleted, PaidAt: paidAt}
	refunded := &domain.Payment{ID: 7, UserID: 3, Status: domain.StatusRefunded, PaidAt: paidAt}

	if _, ok := builder.Payment(completed)["reembolsar"]; !ok {
		t.Error("Completed payment must offer reembolsar")
	}
	if _, ok := builder.Payment(refunded)["reembolsar"]; ok {
		t.Error("Refunded payment must not offer reembolsar")
	}
}
