package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog product. SKU and Serial are unique across the
// catalog; Category is an owned relation that must exist before the product
// is created. SupplierID points at a record owned by the supplier service and
// is stored only as a foreign identifier.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	SKU         string          `json:"codigo_sku" db:"codigo_sku"`
	Name        string          `json:"nombre" db:"nombre"`
	Description string          `json:"descripcion" db:"descripcion"`
	Price       decimal.Decimal `json:"precio" db:"precio"`
	Cost        decimal.Decimal `json:"costo" db:"costo"`
	Catalog     string          `json:"catalogo" db:"catalogo"`
	Serial      string          `json:"serial" db:"serial"`
	SupplierID  int64           `json:"proveedor_id" db:"proveedor_id"`
	Category    *Category       `json:"categoria,omitempty"`
}

// Category represents a product category
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"nombre" db:"nombre"`
	Description string `json:"descripcion" db:"descripcion"`
}
