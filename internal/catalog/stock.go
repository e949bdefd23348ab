package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/pos-toko/internal/events"
	"github.com/noah-isme/pos-toko/internal/obs"
	"github.com/noah-isme/pos-toko/internal/store"
)

// StockStorage is the slice of the store the stock applier needs.
type StockStorage interface {
	DecrementStock(ctx context.Context, id string, qty int) (store.Product, error)
}

// soldLine mirrors the item shape inside a transaction.completed payload.
type soldLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// StockApplier listens for completed transactions and walks sold quantities
// off the inventory. It runs behind the event bus so checkout never waits on
// or fails because of inventory bookkeeping.
type StockApplier struct {
	Storage StockStorage
	Bus     *events.Bus
	Logger  zerolog.Logger
}

// Notify implements events.Notifier.
func (a *StockApplier) Notify(ctx context.Context, event store.DomainEvent) error {
	if a == nil || a.Storage == nil || event.Topic != events.TopicTransactionCompleted {
		return nil
	}
	var payload struct {
		Items []soldLine `json:"items"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode transaction payload: %w", err)
	}
	for _, line := range payload.Items {
		if line.ProductID == "" || line.Qty <= 0 {
			continue
		}
		product, err := a.Storage.DecrementStock(ctx, line.ProductID, line.Qty)
		if err != nil {
			a.Logger.Error().Err(err).Str("product_id", line.ProductID).Msg("decrement stock")
			continue
		}
		if product.Stock < product.LowStockThreshold {
			obs.RecordLowStockEvent()
			a.Logger.Warn().
				Str("product_id", product.ID).
				Str("name", product.Name).
				Int("stock", product.Stock).
				Int("threshold", product.LowStockThreshold).
				Msg("low stock")
			if a.Bus != nil {
				_, _ = a.Bus.Emit(ctx, events.TopicLowStock, product.ID, map[string]any{
					"name":      product.Name,
					"stock":     product.Stock,
					"threshold": product.LowStockThreshold,
				})
			}
		}
	}
	return nil
}
