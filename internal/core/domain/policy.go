package domain

// Operation names an entry of the authorization policy.
type Operation string

const (
	OpListProducts  Operation = "product.list"
	OpCreateProduct Operation = "product.create"
	OpUpdateProduct Operation = "product.update"
	OpDeleteProduct Operation = "product.delete"
	OpListOrders    Operation = "order.list"
	OpCreateOrder   Operation = "order.create"
	OpListAllOrders Operation = "order.list_all"
)

// Rule describes who may perform an operation. An empty Roles slice allows
// every authenticated identity; Public additionally admits anonymous callers.
type Rule struct {
	Public bool
	Roles  []Role
}

// Policy is the single authorization table for the API.
var Policy = map[Operation]Rule{
	OpListProducts:  {Public: true},
	OpCreateProduct: {Roles: []Role{RoleAdmin}},
	OpUpdateProduct: {Roles: []Role{RoleAdmin, RoleManager}},
	OpDeleteProduct: {Roles: []Role{RoleAdmin}},
	OpListOrders:    {},
	OpCreateOrder:   {},
	OpListAllOrders: {Roles: []Role{RoleAdmin, RoleManager}},
}

// RequiresToken reports whether op needs an authenticated identity.
// Unknown operations always do.
func RequiresToken(op Operation) bool {
	rule, ok := Policy[op]
	return !ok || !rule.Public
}

// Allowed reports whether role may perform op. Unknown operations are denied.
func Allowed(op Operation, role Role) bool {
	rule, ok := Policy[op]
	if !ok {
		return false
	}
	if rule.Public {
		return true
	}
	if len(rule.Roles) == 0 {
		return role.Valid()
	}
	for _, r := range rule.Roles {
		if r == role {
			return true
		}
	}
	return false
}
