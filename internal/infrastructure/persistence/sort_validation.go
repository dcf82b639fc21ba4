package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(extra ...string) map[string]bool {
	fields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"is_active":  true,
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// Allowed sort fields per table. Column names outside these maps never
// reach ORDER BY.
var (
	OrganizationSortFields = sortFields("name", "tax_id", "email")
	UserSortFields         = sortFields("username", "email", "first_name", "last_name", "last_login_at", "is_superadmin")
	RoleSortFields         = sortFields("code", "name", "is_system")
	PermissionSortFields   = sortFields("code", "resource", "action")
	PlanSortFields         = sortFields("code", "name", "price", "duration_days")
	ProductSortFields      = sortFields("code", "name", "category", "unit", "barcode", "purchase_price", "sale_price", "min_stock")
	WarehouseSortFields    = sortFields("code", "name", "address")
	StockSortFields        = sortFields("quantity", "product_code", "product_name", "warehouse_code", "warehouse_name")
	ClientSortFields       = sortFields("name", "document_type", "document_number", "email")
	SupplierSortFields     = sortFields("name", "tax_id", "contact_name", "email")
	PurchaseSortFields     = sortFields("number", "purchase_date", "document_number", "total")
	SaleSortFields         = sortFields("number", "sale_date", "payment_method", "total")
)
