package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"commerce-platform/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	ExistsBySerial(ctx context.Context, serial string) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and fills in its store-assigned ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO productos (codigo_sku, nombre, descripcion, precio, costo, catalogo, serial, proveedor_id, categoria_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.SKU,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.Catalog,
		product.Serial,
		product.SupplierID,
		product.Category.ID,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Delete removes a product. Reporting not-found via rows affected keeps the
// existence check and the delete in a single authoritative statement.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM productos WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID with its category resolved
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT p.id, p.codigo_sku, p.nombre, p.descripcion, p.precio, p.costo,
		       p.catalogo, p.serial, p.proveedor_id,
		       c.id, c.nombre, c.descripcion
		FROM productos p
		JOIN categorias c ON c.id = p.categoria_id
		WHERE p.id = $1
	`

	product := &domain.Product{Category: &domain.Category{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Cost,
		&product.Catalog,
		&product.Serial,
		&product.SupplierID,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.Description,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves all products with their categories resolved
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.codigo_sku, p.nombre, p.descripcion, p.precio, p.costo,
		       p.catalogo, p.serial, p.proveedor_id,
		       c.id, c.nombre, c.descripcion
		FROM productos p
		JOIN categorias c ON c.id = p.categoria_id
		ORDER BY p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{Category: &domain.Category{}}
		err := rows.Scan(
			&product.ID,
			&product.SKU,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Cost,
			&product.Catalog,
			&product.Serial,
			&product.SupplierID,
			&product.Category.ID,
			&product.Category.Name,
			&product.Category.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ExistsBySKU reports whether a product with the given SKU exists
func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM productos WHERE codigo_sku = $1)`

	if err := r.db.QueryRowContext(ctx, query, sku).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check SKU existence: %w", err)
	}

	return exists, nil
}

// ExistsBySerial reports whether a product with the given serial exists
func (r *productRepository) ExistsBySerial(ctx context.Context, serial string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM productos WHERE serial = $1)`

	if err := r.db.QueryRowContext(ctx, query, serial).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check serial existence: %w", err)
	}

	return exists, nil
}
