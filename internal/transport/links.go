package transport

import (
	"fmt"

	"commerce-platform/internal/domain"
)

// Link is a single hypermedia link
type Link struct {
	Href string `json:"href"`
}

// Links maps relation names to links
type Links map[string]Link

// LinkBuilder assembles hypermedia links for payment resources. It is pure
// presentation glue; the domain services know nothing about it.
type LinkBuilder struct {
	basePath string
}

// NewLinkBuilder creates a LinkBuilder rooted at the given base path,
// e.g. "/api/pagos".
func NewLinkBuilder(basePath string) *LinkBuilder {
	return &LinkBuilder{basePath: basePath}
}

// Payment builds the link set for a single payment: self, reembolsar while
// the payment is still refundable, and the owning user's payment list.
func (b *LinkBuilder) Payment(p *domain.Payment) Links {
	links := Links{
		"self": {Href: fmt.Sprintf("%s/%d", b.basePath, p.ID)},
	}
	if p.Refundable() {
		links["reembolsar"] = Link{Href: fmt.Sprintf("%s/%d/reembolsar", b.basePath, p.ID)}
	}
	links["pagos-usuario"] = Link{Href: fmt.Sprintf("%s/usuario/%d", b.basePath, p.UserID)}
	return links
}

// Refund builds the link set returned after a refund: self points at the
// refund action, plus the payment itself and the user's payment list.
func (b *LinkBuilder) Refund(p *domain.Payment) Links {
	return Links{
		"self":          {Href: fmt.Sprintf("%s/%d/reembolsar", b.basePath, p.ID)},
		"pago":          {Href: fmt.Sprintf("%s/%d", b.basePath, p.ID)},
		"pagos-usuario": {Href: fmt.Sprintf("%s/usuario/%d", b.basePath, p.UserID)},
	}
}

// UserCollection builds the link set for a user's payment collection.
func (b *LinkBuilder) UserCollection(userID int64) Links {
	return Links{
		"self":          {Href: fmt.Sprintf("%s/usuario/%d", b.basePath, userID)},
		"procesar-pago": {Href: fmt.Sprintf("%s/procesar", b.basePath)},
	}
}

// Location returns the canonical URI of a payment for the Location header.
func (b *LinkBuilder) Location(p *domain.Payment) string {
	return fmt.Sprintf("%s/%d", b.basePath, p.ID)
}
