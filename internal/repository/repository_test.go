package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"commerce-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Create the product catalog tables
	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS categorias (
			id BIGSERIAL PRIMARY KEY,
			nombre VARCHAR(100) NOT NULL,
			descripcion TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS productos (
			id BIGSERIAL PRIMARY KEY,
			codigo_sku VARCHAR(64) NOT NULL UNIQUE,
			nombre VARCHAR(255) NOT NULL,
			descripcion TEXT NOT NULL DEFAULT '',
			precio DECIMAL(12, 2) NOT NULL CHECK (precio >= 0),
			costo DECIMAL(12, 2) NOT NULL CHECK (costo >= 0),
			catalogo VARCHAR(10) NOT NULL DEFAULT 'true',
			serial VARCHAR(64) NOT NULL UNIQUE,
			proveedor_id BIGINT NOT NULL,
			categoria_id BIGINT NOT NULL REFERENCES categorias(id)
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Create the payments table
	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS pagos (
			id BIGSERIAL PRIMARY KEY,
			carrito_id BIGINT NOT NULL,
			usuario_id BIGINT NOT NULL,
			metodo_pago VARCHAR(32) NOT NULL,
			monto DECIMAL(12, 2) NOT NULL CHECK (monto > 0),
			estado VARCHAR(32) NOT NULL,
			referencia UUID NOT NULL,
			fecha_pago TIMESTAMP NOT NULL,
			fecha_reembolso TIMESTAMP,
			referencia_reembolso UUID
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func createTestCategory(t *testing.T) *domain.Category {
	t.Helper()

	category := &domain.Category{
		Name:        "Categoría " + uuid.New().String(),
		Description: "Categoría de prueba",
	}
	if err := NewCategoryRepository(testDB).Create(context.Background(), category); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return category
}

func newTestProduct(category *domain.Category) *domain.Product {
	suffix := uuid.New().String()
	return &domain.Product{
		SKU:         "SKU-" + suffix,
		Name:        "Laptop",
		Description: "Laptop de última generación",
		Price:       decimal.NewFromFloat(1200.00),
		Cost:        decimal.NewFromFloat(900.00),
		Catalog:     "true",
		Serial:      "SER-" + suffix,
		SupplierID:  1,
		Category:    category,
	}
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t)
	product := newTestProduct(category)

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	if product.ID == 0 {
		t.Fatal("Expected store-assigned ID")
	}

	retrieved, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve product: %v", err)
	}

	if retrieved.SKU != product.SKU {
		t.Errorf("SKU mismatch: %s != %s", retrieved.SKU, product.SKU)
	}
	if retrieved.Name != product.Name {
		t.Errorf("Name mismatch: %s != %s", retrieved.Name, product.Name)
	}
	if !retrieved.Price.Equal(product.Price) {
		t.Errorf("Price mismatch: %s != %s", retrieved.Price, product.Price)
	}
	if retrieved.Category == nil || retrieved.Category.ID != category.ID {
		t.Error("Expected category to be resolved")
	}
}

func TestProductRepository_ExistsBySKUAndSerial(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t)
	product := newTestProduct(category)

	if exists, _ := repo.ExistsBySKU(ctx, product.SKU); exists {
		t.Fatal("SKU should not exist before create")
	}

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	if exists, err := repo.ExistsBySKU(ctx, product.SKU); err != nil || !exists {
		t.Errorf("Expected SKU to exist, got exists=%v err=%v", exists, err)
	}
	if exists, err := repo.ExistsBySerial(ctx, product.Serial); err != nil || !exists {
		t.Errorf("Expected serial to exist, got exists=%v err=%v", exists, err)
	}
}

func TestProductRepository_DeleteReportsNotFound(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t)
	product := newTestProduct(category)

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Expected delete to succeed, got %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound on second delete, got %v", err)
	}

	if _, err := repo.FindByID(ctx, product.ID); err != ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestCategoryRepository_FindByIDNotFound(t *testing.T) {
	repo := NewCategoryRepository(testDB)

	if _, err := repo.FindByID(context.Background(), 999999); err != ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func newTestPayment(userID int64) *domain.Payment {
	return &domain.Payment{
		CartID:    123,
		UserID:    userID,
		Method:    domain.MethodCreditCard,
		Amount:    decimal.NewFromFloat(1200.00),
		Status:    domain.StatusCompleted,
		Reference: uuid.New(),
		PaidAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPaymentRepository_CreateAndFind(t *testing.T) {
	repo := NewPaymentRepository(testDB)
	ctx := context.Background()

	payment := newTestPayment(1001)
	if err := repo.Create(ctx, payment); err != nil {
		t.Fatalf("Failed to create payment: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, payment.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve payment: %v", err)
	}

	if retrieved.Status != domain.StatusCompleted {
		t.Errorf("Status mismatch: %s", retrieved.Status)
	}
	if !retrieved.Amount.Equal(payment.Amount) {
		t.Errorf("Amount mismatch: %s != %s", retrieved.Amount, payment.Amount)
	}
	if retrieved.Reference != payment.Reference {
		t.Errorf("Reference mismatch: %s != %s", retrieved.Reference, payment.Reference)
	}
	if retrieved.RefundedAt != nil {
		t.Error("New payment must have no refund timestamp")
	}
}

func TestPaymentRepository_FindByUser(t *testing.T) {
	repo := NewPaymentRepository(testDB)
	ctx := context.Background()

	userID := int64(770001)

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, newTestPayment(userID)); err != nil {
			t.Fatalf("Failed to create payment: %v", err)
		}
	}

	payments, err := repo.FindByUser(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to list payments: %v", err)
	}
	if len(payments) != 3 {
		t.Errorf("Expected 3 payments, got %d", len(payments))
	}

	empty, err := repo.FindByUser(ctx, 880001)
	if err != nil {
		t.Fatalf("Failed to list payments for unknown user: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty list, got %d", len(empty))
	}
}

func TestPaymentRepository_MarkRefundedIsConditional(t *testing.T) {
	repo := NewPaymentRepository(testDB)
	ctx := context.Background()

	payment := newTestPayment(1002)
	if err := repo.Create(ctx, payment); err != nil {
		t.Fatalf("Failed to create payment: %v", err)
	}

	refundedAt := time.Now().UTC().Truncate(time.Microsecond)
	refundRef := uuid.New()
	payment.Status = domain.StatusRefunded
	payment.RefundedAt = &refundedAt
	payment.RefundReference = &refundRef

	if err := repo.MarkRefunded(ctx, payment); err != nil {
		t.Fatalf("Expected refund to succeed, got %v", err)
	}

	// The guarded update matches no row once the status left COMPLETADO
	if err := repo.MarkRefunded(ctx, payment); err != ErrPaymentNotRefundable {
		t.Errorf("Expected ErrPaymentNotRefundable on second refund, got %v", err)
	}

	retrieved, err := repo.FindByID(ctx, payment.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve payment: %v", err)
	}
	if retrieved.Status != domain.StatusRefunded {
		t.Errorf("Expected status %s, got %s", domain.StatusRefunded, retrieved.Status)
	}
	if retrieved.RefundReference == nil || *retrieved.RefundReference != refundRef {
		t.Error("Expected refund reference to be persisted")
	}
}
