package model

// Role tags as supplied by the caller. Token handling lives outside this
// service; every operation receives the role explicitly.
const (
	RoleWarehouse  = "warehouse"
	RolePurchasing = "purchasing"
	RoleMarketing  = "marketing"
	RoleDeveloper  = "developer"
)

// AllRoles lists every role known to the system.
var AllRoles = []string{RoleWarehouse, RolePurchasing, RoleMarketing, RoleDeveloper}

// ValidRole reports whether role is one of the known role tags.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CanCreateProduct: only warehouse stocks new products. Developer bypasses
// every role gate.
func CanCreateProduct(role string) bool {
	return role == RoleWarehouse || role == RoleDeveloper
}

// CanDeleteProduct mirrors CanCreateProduct.
func CanDeleteProduct(role string) bool {
	return role == RoleWarehouse || role == RoleDeveloper
}

// CanEditStockFields: name, category, stock and unit belong to warehouse.
func CanEditStockFields(role string) bool {
	return role == RoleWarehouse || role == RoleDeveloper
}

// CanEditPriceFields: sale price and cost price belong to purchasing.
func CanEditPriceFields(role string) bool {
	return role == RolePurchasing || role == RoleDeveloper
}

// CanSeeCost: marketing never sees the cost price.
func CanSeeCost(role string) bool {
	return role != RoleMarketing
}
