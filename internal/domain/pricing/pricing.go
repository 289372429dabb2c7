// Package pricing is the single place effective unit prices are computed.
// Cart views, subtotals, and checkout amounts all go through Resolve so the
// figures can never diverge.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/product"
)

// DiscountType names the discount rule applied to a cart line.
type DiscountType string

const (
	// DiscountNone means the list price applies unchanged.
	DiscountNone DiscountType = ""
	// DiscountBulk means the bulk-threshold price applies.
	DiscountBulk DiscountType = "Bulk"
	// DiscountSale means the flat 15% sale reduction applies.
	DiscountSale DiscountType = "Sale"
)

// saleFactor is the multiplier for "On Sale" products (15% off).
var saleFactor = decimal.RequireFromString("0.85")

// Quote is the resolved price for one cart line.
type Quote struct {
	OriginalPrice   decimal.Decimal
	EffectivePrice  decimal.Decimal
	DiscountApplied bool
	DiscountType    DiscountType
}

// Resolve computes the effective unit price for a product at the given cart
// quantity. Rules are checked first-match-wins with no stacking:
//
//  1. "Cheap in Bulk" with bulk fields set and quantity at or above the
//     threshold uses the bulk price.
//  2. "On Sale" applies the flat 15% reduction.
//  3. Otherwise the list price stands.
func Resolve(p *product.Product, quantity int) Quote {
	if p.HasTag(product.TagBulk) && p.BulkQuantity != nil && p.BulkPrice != nil && quantity >= *p.BulkQuantity {
		return Quote{
			OriginalPrice:   p.Price,
			EffectivePrice:  *p.BulkPrice,
			DiscountApplied: true,
			DiscountType:    DiscountBulk,
		}
	}

	if p.HasTag(product.TagOnSale) {
		return Quote{
			OriginalPrice:   p.Price,
			EffectivePrice:  p.Price.Mul(saleFactor).Round(2),
			DiscountApplied: true,
			DiscountType:    DiscountSale,
		}
	}

	return Quote{
		OriginalPrice:  p.Price,
		EffectivePrice: p.Price,
	}
}

// LineTotal returns the effective price multiplied by the quantity.
func (q Quote) LineTotal(quantity int) decimal.Decimal {
	return q.EffectivePrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// LineDiscount returns the per-line saving versus the list price.
func (q Quote) LineDiscount(quantity int) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	return q.OriginalPrice.Mul(qty).Sub(q.EffectivePrice.Mul(qty))
}

// Totals aggregates a priced cart: subtotal at effective prices, the total
// discount versus list prices, VAT on the subtotal, and the grand total.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// Line pairs a quote with its quantity for total calculation.
type Line struct {
	Quote    Quote
	Quantity int
}

// Sum computes cart totals. Total = subtotal × (1 + vatRate), rounded to
// 2 decimal places.
func Sum(lines []Line, vatRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Quote.LineTotal(l.Quantity))
		discount = discount.Add(l.Quote.LineDiscount(l.Quantity))
	}

	vat := subtotal.Mul(vatRate).Round(2)
	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		VAT:      vat,
		Total:    subtotal.Round(2).Add(vat),
	}
}
