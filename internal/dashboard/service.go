package dashboard

import (
	"context"
	"time"

	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/store"
)

// Storage is the slice of the store the dashboard reads from.
type Storage interface {
	SalesSummarySince(ctx context.Context, since time.Time) (money.Amount, int, error)
	ListLowStockProducts(ctx context.Context) ([]store.Product, error)
}

// Summary is the landing screen payload for the terminal.
type Summary struct {
	Date         string       `json:"date"`
	TotalSales   money.Amount `json:"totalSales"`
	Transactions int          `json:"transactions"`
	AverageSale  money.Amount `json:"averageSale"`
	Alerts       []StockAlert `json:"inventoryAlerts"`
}

// StockAlert flags a product whose stock fell under its threshold.
type StockAlert struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// Service aggregates same-day sales and inventory alerts.
type Service struct {
	Storage Storage
	Now     func() time.Time
}

// TodaySummary reports totals since local midnight plus current low stock
// alerts. Average is integer division; the remainder is not material on a
// whole-rupiah currency.
func (s *Service) TodaySummary(ctx context.Context) (Summary, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	total, count, err := s.Storage.SalesSummarySince(ctx, start)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Date:         start.Format("2006-01-02"),
		TotalSales:   total,
		Transactions: count,
		Alerts:       []StockAlert{},
	}
	if count > 0 {
		summary.AverageSale = total / money.Amount(count)
	}

	low, err := s.Storage.ListLowStockProducts(ctx)
	if err != nil {
		return Summary{}, err
	}
	for _, p := range low {
		summary.Alerts = append(summary.Alerts, StockAlert{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: p.LowStockThreshold,
		})
	}
	return summary, nil
}
