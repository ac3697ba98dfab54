package service

import (
	"context"
	"fmt"

	"commerce-platform/internal/client"
	"commerce-platform/internal/domain"
	"commerce-platform/internal/repository"

	"github.com/shopspring/decimal"
)

// Error messages surfaced to callers. The platform's API responses are in
// Spanish, matching the rest of the commerce suite.
const (
	MsgSKUExists           = "El SKU ya existe"
	MsgSerialExists        = "El serial ya existe"
	MsgCategoryNotFound    = "La categoría no existe"
	MsgSupplierUnavailable = "No se pudo consultar el proveedor"
)

// ProductDTO is the transport representation of a product. The owned
// category relation is flattened to its identifier.
type ProductDTO struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"codigo_sku"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Cost        decimal.Decimal `json:"costo"`
	Catalog     string          `json:"catalogo"`
	Serial      string          `json:"serial"`
	SupplierID  int64           `json:"proveedor_id"`
	CategoryID  int64           `json:"categoria_id"`
}

// CreateProductInput carries the validated fields of a product creation
// request into the service.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Catalog     string
	Serial      string
	SupplierID  int64
	CategoryID  int64
}

// ProductService defines the product catalog business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) Result[ProductDTO]
	List(ctx context.Context) Result[[]ProductDTO]
	Get(ctx context.Context, id int64) Result[ProductDTO]
	Delete(ctx context.Context, id int64) Result[struct{}]
	GetSupplier(ctx context.Context, supplierID int64, token string) Result[domain.Supplier]
}

type productService struct {
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	supplierClient client.SupplierClient
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierClient client.SupplierClient,
) ProductService {
	return &productService{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		supplierClient: supplierClient,
	}
}

// Create validates uniqueness of SKU and serial and existence of the
// category, in that order, then performs the single persistence write.
func (s *productService) Create(ctx context.Context, input CreateProductInput) Result[ProductDTO] {
	skuExists, err := s.productRepo.ExistsBySKU(ctx, input.SKU)
	if err != nil {
		return Fail[ProductDTO](fmt.Sprintf("Error al validar el SKU: %v", err))
	}
	if skuExists {
		return Fail[ProductDTO](MsgSKUExists)
	}

	serialExists, err := s.productRepo.ExistsBySerial(ctx, input.Serial)
	if err != nil {
		return Fail[ProductDTO](fmt.Sprintf("Error al validar el serial: %v", err))
	}
	if serialExists {
		return Fail[ProductDTO](MsgSerialExists)
	}

	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return Fail[ProductDTO](MsgCategoryNotFound)
		}
		return Fail[ProductDTO](fmt.Sprintf("Error al buscar la categoría: %v", err))
	}

	product := &domain.Product{
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Cost:        input.Cost,
		Catalog:     input.Catalog,
		Serial:      input.Serial,
		SupplierID:  input.SupplierID,
		Category:    category,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return Fail[ProductDTO](fmt.Sprintf("Error al guardar el producto: %v", err))
	}

	return Ok(s.toDTO(product))
}

// List returns all products; an empty catalog is not an error.
func (s *productService) List(ctx context.Context) Result[[]ProductDTO] {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return Fail[[]ProductDTO](fmt.Sprintf("Error al listar los productos: %v", err))
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, s.toDTO(p))
	}

	return Ok(dtos)
}

// Get returns a product by ID
func (s *productService) Get(ctx context.Context, id int64) Result[ProductDTO] {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return Fail[ProductDTO](fmt.Sprintf("Producto no encontrado con ID %d", id))
		}
		return Fail[ProductDTO](fmt.Sprintf("Error al buscar el producto: %v", err))
	}

	return Ok(s.toDTO(product))
}

// Delete removes a product by ID. Not-found is detected by the delete itself
// via rows affected, so there is no separate existence check to race against.
func (s *productService) Delete(ctx context.Context, id int64) Result[struct{}] {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return Fail[struct{}](fmt.Sprintf("Producto con ID %d no existe", id))
		}
		return Fail[struct{}](fmt.Sprintf("Error al eliminar el producto: %v", err))
	}

	return Ok(struct{}{})
}

// GetSupplier fetches supplier details from the supplier service, passing the
// caller's bearer token along. Single attempt; transport failures surface as
// a generic lookup failure.
func (s *productService) GetSupplier(ctx context.Context, supplierID int64, token string) Result[domain.Supplier] {
	supplier, err := s.supplierClient.GetSupplier(ctx, supplierID, token)
	if err != nil {
		return Fail[domain.Supplier](MsgSupplierUnavailable)
	}

	return Ok(*supplier)
}

// toDTO maps a persisted product to its transport representation.
func (s *productService) toDTO(product *domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Cost:        product.Cost,
		Catalog:     product.Catalog,
		Serial:      product.Serial,
		SupplierID:  product.SupplierID,
	}
	if product.Category != nil {
		dto.CategoryID = product.Category.ID
	}
	return dto
}
