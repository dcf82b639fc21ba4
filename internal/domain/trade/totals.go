package trade

import (
	"fmt"

	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Document number prefixes
const (
	SaleNumberPrefix     = "V-"
	PurchaseNumberPrefix = "C-"
)

// FormatDocumentNumber renders prefix followed by an 8 digit zero padded sequence
func FormatDocumentNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%08d", prefix, seq)
}

// Totals are the monetary totals of a trade document
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals applies discount and tax to the sum of the line subtotals:
// tax = (subtotal - discount) * taxRate, total = subtotal - discount + tax.
// Amounts are rounded to 2 decimals.
func ComputeTotals(lineSubtotals []decimal.Decimal, discount, taxRate decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if taxRate.IsNegative() {
		return Totals{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	subtotal := decimal.Zero
	for _, s := range lineSubtotals {
		subtotal = subtotal.Add(s)
	}
	subtotal = subtotal.Round(2)
	discount = discount.Round(2)
	if discount.GreaterThan(subtotal) {
		return Totals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    taxable.Add(tax).Round(2),
	}, nil
}

func lineSubtotal(quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return quantity.Mul(unitPrice).Round(2), nil
}
