package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pos-toko/internal/store"
)

func sampleTransaction() store.Transaction {
	return store.Transaction{
		ID:        "TRX-6f1b2c3d",
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Items: []store.TransactionItem{
			{ProductID: "p1", Name: "Beras Premium 5kg", Qty: 2, UnitPrice: 50000, LineTotal: 100000},
			{ProductID: "p2", Name: "Gula Pasir 1kg", Qty: 1, UnitPrice: 15000, LineTotal: 15000},
		},
		Subtotal:       115000,
		Discount:       11500,
		TaxRateBps:     1100,
		Tax:            11385,
		Total:          114885,
		PaymentMethod:  "cash",
		AmountTendered: 120000,
		Change:         5115,
	}
}

func TestRenderContainsTotals(t *testing.T) {
	r := &Renderer{StoreName: "Toko Sejahtera"}
	out := r.Render(sampleTransaction())

	require.Contains(t, out, "Toko Sejahtera")
	require.Contains(t, out, "TRX-6f1b2c3d")
	require.Contains(t, out, "Beras Premium 5kg")
	require.Contains(t, out, "2 x Rp 50.000")
	require.Contains(t, out, "Rp 115.000")
	require.Contains(t, out, "-Rp 11.500")
	require.Contains(t, out, "Tax (11%)")
	require.Contains(t, out, "Rp 114.885")
	require.Contains(t, out, "CASH")
	require.Contains(t, out, "Rp 5.115")
}

func TestRenderRightAlignsAmounts(t *testing.T) {
	r := &Renderer{StoreName: "Toko", Width: 32}
	out := r.Render(sampleTransaction())

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "TOTAL") {
			require.Len(t, line, 32)
			require.True(t, strings.HasSuffix(line, "Rp 114.885"))
			return
		}
	}
	t.Fatal("total line not found")
}

func TestRenderSkipsZeroDiscount(t *testing.T) {
	tx := sampleTransaction()
	tx.Discount = 0
	out := (&Renderer{}).Render(tx)
	require.NotContains(t, out, "Discount")
}

func TestFileName(t *testing.T) {
	got := FileName(sampleTransaction())
	require.Equal(t, "receipt-20260314-TRX-6f1b2c3d.txt", got)
}
