package domain

// Supplier is the supplier service's representation of a supplier. It is
// fetched on demand and never persisted locally.
type Supplier struct {
	ID       int64   `json:"id"`
	Name     string  `json:"nombre"`
	Email    string  `json:"email"`
	TaxID    string  `json:"rut"`
	Address  string  `json:"direccion"`
	Phone    string  `json:"telefono"`
	Active   bool    `json:"activo"`
	Products []int64 `json:"productos"`
}
