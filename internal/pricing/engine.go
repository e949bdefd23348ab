package pricing

import (
	"errors"

	"github.com/noah-isme/pos-toko/internal/money"
)

// Validation failures surfaced by the engine. All of them are recoverable:
// the cashier corrects the input and the quote is recomputed.
var (
	ErrInvalidQuantity     = errors.New("pricing: quantity must be at least 1")
	ErrInvalidPrice        = errors.New("pricing: unit price must not be negative")
	ErrInvalidTaxRate      = errors.New("pricing: tax rate must not be negative")
	ErrInsufficientPayment = errors.New("pricing: amount tendered is less than total")
)

// Item is one cart line used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice money.Amount
}

// DiscountMode selects how a discount amount is interpreted.
type DiscountMode string

const (
	// DiscountPercent interprets the amount as basis points of the subtotal.
	DiscountPercent DiscountMode = "percentage"
	// DiscountFixed interprets the amount as a flat minor-unit reduction.
	DiscountFixed DiscountMode = "fixed"
)

// DiscountSpec describes the discount applied to the active cart. For
// percentage mode Bps carries the rate in basis points; for fixed mode
// Amount carries the flat reduction.
type DiscountSpec struct {
	Mode   DiscountMode
	Bps    int
	Amount money.Amount
}

// Quote aggregates the computed pricing components for the current cart
// state. It is a pure projection of items + discount + tax rate and is
// recomputed from scratch on every input change.
type Quote struct {
	Subtotal   money.Amount `json:"subtotal"`
	Discount   money.Amount `json:"discount"`
	TaxRateBps int          `json:"taxRateBps"`
	Tax        money.Amount `json:"tax"`
	Total      money.Amount `json:"total"`
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(items []Item) (money.Amount, error) {
	var subtotal money.Amount
	for _, it := range items {
		if it.Qty < 1 {
			return 0, ErrInvalidQuantity
		}
		if it.UnitPrice < 0 {
			return 0, ErrInvalidPrice
		}
		subtotal += money.Amount(it.Qty) * it.UnitPrice
	}
	return subtotal, nil
}

// Discount resolves the discount against the subtotal. The result is always in
// [0, subtotal]: negative amounts count as zero and a discount never exceeds
// the subtotal, so the taxable base cannot go negative.
func Discount(subtotal money.Amount, spec DiscountSpec) money.Amount {
	var discount money.Amount
	switch spec.Mode {
	case DiscountPercent:
		bps := spec.Bps
		if bps < 0 {
			bps = 0
		}
		discount = (subtotal * money.Amount(bps)) / 10000
	default:
		discount = spec.Amount
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// Tax computes tax over the taxable base at the given rate in basis points.
func Tax(taxable money.Amount, rateBps int) (money.Amount, error) {
	if rateBps < 0 {
		return 0, ErrInvalidTaxRate
	}
	if taxable < 0 {
		taxable = 0
	}
	return (taxable * money.Amount(rateBps)) / 10000, nil
}

// Total combines the components into the amount due.
func Total(subtotal, discount, tax money.Amount) money.Amount {
	return subtotal - discount + tax
}

// Change returns the cash to hand back. A tendered amount below the total
// fails with ErrInsufficientPayment and checkout must not proceed.
func Change(total, tendered money.Amount) (money.Amount, error) {
	if tendered < total {
		return 0, ErrInsufficientPayment
	}
	return tendered - total, nil
}

// Compute derives the full quote for the given inputs.
func Compute(items []Item, spec DiscountSpec, taxRateBps int) (Quote, error) {
	subtotal, err := Subtotal(items)
	if err != nil {
		return Quote{}, err
	}
	discount := Discount(subtotal, spec)
	taxable := subtotal - discount
	tax, err := Tax(taxable, taxRateBps)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Subtotal:   subtotal,
		Discount:   discount,
		TaxRateBps: taxRateBps,
		Tax:        tax,
		Total:      Total(subtotal, discount, tax),
	}, nil
}
