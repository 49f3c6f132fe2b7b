package service

import "github.com/rl1809/sweet-shop/internal/core/domain"

// Operation names every action the access policy can gate.
type Operation string

const (
	OpListSweets  Operation = "sweets.list"
	OpGetSweet    Operation = "sweets.get"
	OpCreateSweet Operation = "sweets.create"
	OpUpdateSweet Operation = "sweets.update"
	OpDeleteSweet Operation = "sweets.delete"
	OpPurchase    Operation = "sweets.purchase"
	OpRestock     Operation = "sweets.restock"
	OpProfile     Operation = "auth.profile"
)

// AccessPolicy maps a principal to an allow/deny decision per operation.
// It is a pure decision table: catalog reads are public, purchasing needs
// any authenticated principal, everything that shapes the catalog needs
// the admin role.
type AccessPolicy struct{}

func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// Authorize returns nil when principal may perform op. A nil principal
// means the caller is anonymous.
func (AccessPolicy) Authorize(principal *domain.Principal, op Operation) error {
	switch op {
	case OpListSweets, OpGetSweet:
		return nil
	case OpPurchase, OpProfile:
		if principal == nil {
			return ErrUnauthorized
		}
		return nil
	case OpCreateSweet, OpUpdateSweet, OpDeleteSweet, OpRestock:
		if principal == nil {
			return ErrUnauthorized
		}
		if !principal.IsAdmin() {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
