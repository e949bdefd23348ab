package history

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/store"
)

// Storage enumerates the persistence operations history reads from.
type Storage interface {
	GetTransaction(ctx context.Context, id string) (store.Transaction, error)
	ListTransactions(ctx context.Context, limit, offset int) ([]store.Transaction, int, error)
}

// Record is the API representation of a completed checkout. Records are
// immutable: there is no update surface anywhere in the terminal.
type Record struct {
	ID             string       `json:"id"`
	CreatedAt      time.Time    `json:"createdAt"`
	Items          []RecordItem `json:"items"`
	Pricing        RecordQuote  `json:"pricing"`
	PaymentMethod  string       `json:"paymentMethod"`
	AmountTendered money.Amount `json:"amountTendered"`
	Change         money.Amount `json:"change"`
}

// RecordItem is one sold line with its computed line total.
type RecordItem struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Qty       int          `json:"qty"`
	UnitPrice money.Amount `json:"unitPrice"`
	LineTotal money.Amount `json:"lineTotal"`
}

// RecordQuote is the pricing snapshot captured at checkout.
type RecordQuote struct {
	Subtotal   money.Amount `json:"subtotal"`
	Discount   money.Amount `json:"discount"`
	TaxRateBps int          `json:"taxRateBps"`
	Tax        money.Amount `json:"tax"`
	Total      money.Amount `json:"total"`
}

// FromStore maps a persisted transaction to its API shape.
func FromStore(t store.Transaction) Record {
	rec := Record{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		Items:     make([]RecordItem, 0, len(t.Items)),
		Pricing: RecordQuote{
			Subtotal:   t.Subtotal,
			Discount:   t.Discount,
			TaxRateBps: t.TaxRateBps,
			Tax:        t.Tax,
			Total:      t.Total,
		},
		PaymentMethod:  t.PaymentMethod,
		AmountTendered: t.AmountTendered,
		Change:         t.Change,
	}
	for _, it := range t.Items {
		rec.Items = append(rec.Items, RecordItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return rec
}

// Service reads completed transactions back for the reports screen and for
// receipt re-rendering.
type Service struct {
	Storage Storage
}

// Get fetches one record.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	t, err := s.Storage.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Record{}, common.NewAppError("NOT_FOUND", "transaction not found", http.StatusNotFound, err)
		}
		return Record{}, err
	}
	return FromStore(t), nil
}

// List returns records most recent first.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Record, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	rows, total, err := s.Storage.ListTransactions(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromStore(row))
	}
	return out, total, nil
}
