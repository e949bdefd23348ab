package receipt

import (
	"fmt"
	"strings"

	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/store"
)

// Renderer produces the plain-text receipt sent to a 58 mm thermal printer.
// Output is fixed-width; the printer does the rest.
type Renderer struct {
	StoreName string
	Width     int
}

const defaultWidth = 32

// Render lays out a completed transaction as a printable document.
func (r *Renderer) Render(t store.Transaction) string {
	width := defaultWidth
	if r != nil && r.Width > 0 {
		width = r.Width
	}
	name := "POS"
	if r != nil && strings.TrimSpace(r.StoreName) != "" {
		name = strings.TrimSpace(r.StoreName)
	}
	rule := strings.Repeat("-", width)

	var b strings.Builder
	writeCentered(&b, name, width)
	writeCentered(&b, t.CreatedAt.Local().Format("02 Jan 2006 15:04"), width)
	writeCentered(&b, t.ID, width)
	b.WriteString(rule + "\n")

	for _, it := range t.Items {
		b.WriteString(it.Name + "\n")
		left := fmt.Sprintf("  %d x %s", it.Qty, money.FormatIDR(it.UnitPrice))
		writeRow(&b, left, money.FormatIDR(it.LineTotal), width)
	}
	b.WriteString(rule + "\n")

	writeRow(&b, "Subtotal", money.FormatIDR(t.Subtotal), width)
	if t.Discount > 0 {
		writeRow(&b, "Discount", "-"+money.FormatIDR(t.Discount), width)
	}
	writeRow(&b, fmt.Sprintf("Tax (%s%%)", formatRate(t.TaxRateBps)), money.FormatIDR(t.Tax), width)
	writeRow(&b, "TOTAL", money.FormatIDR(t.Total), width)
	b.WriteString(rule + "\n")

	writeRow(&b, "Payment", strings.ToUpper(t.PaymentMethod), width)
	writeRow(&b, "Paid", money.FormatIDR(t.AmountTendered), width)
	writeRow(&b, "Change", money.FormatIDR(t.Change), width)
	b.WriteString(rule + "\n")

	writeCentered(&b, "Thank you!", width)
	return b.String()
}

// FileName suggests a stable name for exported receipt documents.
func FileName(t store.Transaction) string {
	return fmt.Sprintf("receipt-%s-%s.txt", t.CreatedAt.Format("20060102"), t.ID)
}

func formatRate(bps int) string {
	if bps%100 == 0 {
		return fmt.Sprintf("%d", bps/100)
	}
	s := fmt.Sprintf("%d.%02d", bps/100, bps%100)
	return strings.TrimRight(s, "0")
}

func writeCentered(b *strings.Builder, s string, width int) {
	if len(s) >= width {
		b.WriteString(s + "\n")
		return
	}
	pad := (width - len(s)) / 2
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

func writeRow(b *strings.Builder, left, right string, width int) {
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}
