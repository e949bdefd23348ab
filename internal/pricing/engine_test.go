package pricing_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/pricing"
)

func TestSubtotalMatchesArithmeticSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		n := rng.Intn(12) + 1
		items := make([]pricing.Item, 0, n)
		var want money.Amount
		for j := 0; j < n; j++ {
			qty := rng.Intn(20) + 1
			price := money.Amount(rng.Intn(500_000))
			items = append(items, pricing.Item{Qty: qty, UnitPrice: price})
			want += money.Amount(qty) * price
		}
		got, err := pricing.Subtotal(items)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestSubtotalRejectsInvalidLines(t *testing.T) {
	_, err := pricing.Subtotal([]pricing.Item{{Qty: 0, UnitPrice: 100}})
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = pricing.Subtotal([]pricing.Item{{Qty: 1, UnitPrice: -1}})
	require.ErrorIs(t, err, pricing.ErrInvalidPrice)
}

func TestDiscountStaysWithinSubtotal(t *testing.T) {
	cases := []struct {
		name     string
		subtotal money.Amount
		spec     pricing.DiscountSpec
		want     money.Amount
	}{
		{"percent", 115_000, pricing.DiscountSpec{Mode: pricing.DiscountPercent, Bps: 1000}, 11_500},
		{"percent over 100", 50_000, pricing.DiscountSpec{Mode: pricing.DiscountPercent, Bps: 25_000}, 50_000},
		{"percent negative", 50_000, pricing.DiscountSpec{Mode: pricing.DiscountPercent, Bps: -500}, 0},
		{"fixed", 50_000, pricing.DiscountSpec{Mode: pricing.DiscountFixed, Amount: 10_000}, 10_000},
		{"fixed above subtotal", 50_000, pricing.DiscountSpec{Mode: pricing.DiscountFixed, Amount: 80_000}, 50_000},
		{"fixed negative", 50_000, pricing.DiscountSpec{Mode: pricing.DiscountFixed, Amount: -10}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.Discount(tc.subtotal, tc.spec)
			require.Equal(t, tc.want, got)
			require.GreaterOrEqual(t, got, money.Amount(0))
			require.LessOrEqual(t, got, tc.subtotal)
		})
	}
}

func TestDiscountRandomInputsNeverEscapeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		subtotal := money.Amount(rng.Intn(1_000_000))
		spec := pricing.DiscountSpec{
			Mode:   pricing.DiscountFixed,
			Amount: money.Amount(rng.Intn(2_000_000) - 1_000_000),
		}
		if rng.Intn(2) == 0 {
			spec = pricing.DiscountSpec{
				Mode: pricing.DiscountPercent,
				Bps:  rng.Intn(40_000) - 20_000,
			}
		}
		got := pricing.Discount(subtotal, spec)
		require.GreaterOrEqual(t, got, money.Amount(0))
		require.LessOrEqual(t, got, subtotal)
	}
}

func TestTaxRejectsNegativeRate(t *testing.T) {
	_, err := pricing.Tax(100_000, -1)
	require.ErrorIs(t, err, pricing.ErrInvalidTaxRate)
}

func TestComputeGroceryScenario(t *testing.T) {
	items := []pricing.Item{
		{Qty: 2, UnitPrice: 50_000},
		{Qty: 1, UnitPrice: 15_000},
	}
	quote, err := pricing.Compute(items, pricing.DiscountSpec{Mode: pricing.DiscountPercent, Bps: 1000}, 1100)
	require.NoError(t, err)
	require.Equal(t, money.Amount(115_000), quote.Subtotal)
	require.Equal(t, money.Amount(11_500), quote.Discount)
	require.Equal(t, money.Amount(11_385), quote.Tax)
	require.Equal(t, money.Amount(114_885), quote.Total)
}

func TestComputeIsIdempotent(t *testing.T) {
	items := []pricing.Item{{Qty: 3, UnitPrice: 3_500}, {Qty: 1, UnitPrice: 18_000}}
	spec := pricing.DiscountSpec{Mode: pricing.DiscountFixed, Amount: 5_000}
	first, err := pricing.Compute(items, spec, 1100)
	require.NoError(t, err)
	second, err := pricing.Compute(items, spec, 1100)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeTotalNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 300; i++ {
		items := []pricing.Item{{Qty: rng.Intn(10) + 1, UnitPrice: money.Amount(rng.Intn(100_000))}}
		spec := pricing.DiscountSpec{Mode: pricing.DiscountFixed, Amount: money.Amount(rng.Intn(2_000_000))}
		quote, err := pricing.Compute(items, spec, rng.Intn(3000))
		require.NoError(t, err)
		require.GreaterOrEqual(t, quote.Total, money.Amount(0))
	}
}

func TestChange(t *testing.T) {
	_, err := pricing.Change(114_885, 100_000)
	require.ErrorIs(t, err, pricing.ErrInsufficientPayment)

	change, err := pricing.Change(114_885, 120_000)
	require.NoError(t, err)
	require.Equal(t, money.Amount(5_115), change)

	change, err = pricing.Change(114_885, 114_885)
	require.NoError(t, err)
	require.Equal(t, money.Amount(0), change)
}
