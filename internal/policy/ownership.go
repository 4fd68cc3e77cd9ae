// Package policy wires the ownership rules of the domain resources into a gate.
package policy

import (
	"context"

	"github.com/AnokSystem/anok-pedido-flow/gate"
)

// Resource type names registered on the gate.
const (
	ResourceClient   = "client"
	ResourceProduct  = "product"
	ResourceOrder    = "order"
	ResourceSettings = "company_settings"
)

// Ownable is implemented by every model that belongs to a user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy grants access to resources owned by the user. List and
// create checks (nil resource) are always allowed since queries are scoped
// by owner anyway.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy { return &OwnershipPolicy{} }

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// NewGate returns a gate with the ownership policy registered for every
// resource type of the application.
func NewGate() *gate.Gate[uint] {
	g := gate.NewGate[uint]()
	owner := NewOwnershipPolicy()
	for _, res := range []string{ResourceClient, ResourceProduct, ResourceOrder, ResourceSettings} {
		g.Register(res, owner)
	}
	return g
}
