package checkout

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pos-toko/internal/cart"
	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/events"
	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/obs"
	"github.com/noah-isme/pos-toko/internal/pricing"
	"github.com/noah-isme/pos-toko/internal/store"
)

// History is the slice of the store checkout writes to.
type History interface {
	AppendTransaction(ctx context.Context, t store.Transaction) error
}

// Input is the settlement request for the active cart.
type Input struct {
	Method         string `json:"method"`
	AmountTendered string `json:"amountTendered"`
}

// Service finalises the active cart into an immutable transaction record.
// The pricing projection is recomputed from the cart snapshot at the moment
// of checkout, never trusted from an earlier quote.
type Service struct {
	Session           *cart.Session
	History           History
	Bus               *events.Bus
	Logger            zerolog.Logger
	DefaultTaxRateBps int
	Now               func() time.Time
	NewID             func() string
}

// Complete settles the cart. On success the session is cleared and the
// persisted record returned; on any failure the cart is left untouched and
// nothing is written.
func (s *Service) Complete(ctx context.Context, in Input) (store.Transaction, error) {
	if s == nil || s.Session == nil || s.History == nil {
		return store.Transaction{}, errors.New("checkout service not configured")
	}

	method := cart.PaymentMethod(strings.ToLower(strings.TrimSpace(in.Method)))
	if err := s.Session.SelectPayment(cart.Payment{
		Method:   method,
		Tendered: money.ParseAmount(in.AmountTendered),
	}); err != nil {
		obs.RecordCheckout(string(method), "rejected")
		return store.Transaction{}, mapCartError(err)
	}

	snap := s.Session.Snapshot()
	items := make([]pricing.Item, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, pricing.Item{Qty: line.Qty, UnitPrice: line.UnitPrice})
	}
	quote, err := pricing.Compute(items, snap.Discount, snap.TaxRateBps)
	if err != nil {
		obs.RecordCheckout(string(method), "rejected")
		return store.Transaction{}, mapPricingError(err)
	}

	tendered := snap.Payment.Tendered
	var change money.Amount
	switch method {
	case cart.PayCash:
		change, err = pricing.Change(quote.Total, tendered)
		if err != nil {
			obs.RecordCheckout(string(method), "rejected")
			return store.Transaction{}, mapPricingError(err)
		}
	default:
		// Card and mobile settle exactly; the terminal never handles change.
		tendered = quote.Total
		change = 0
	}

	t := store.Transaction{
		ID:             s.newID(),
		CreatedAt:      s.now(),
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		TaxRateBps:     quote.TaxRateBps,
		Tax:            quote.Tax,
		Total:          quote.Total,
		PaymentMethod:  string(method),
		AmountTendered: tendered,
		Change:         change,
	}
	qty := 0
	for _, line := range snap.Items {
		qty += line.Qty
		t.Items = append(t.Items, store.TransactionItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice * money.Amount(line.Qty),
		})
	}

	if err := s.History.AppendTransaction(ctx, t); err != nil {
		obs.RecordCheckout(string(method), "error")
		return store.Transaction{}, err
	}

	if s.Bus != nil {
		sold := make([]map[string]any, 0, len(t.Items))
		for _, it := range t.Items {
			sold = append(sold, map[string]any{"productId": it.ProductID, "qty": it.Qty})
		}
		if _, err := s.Bus.Emit(ctx, events.TopicTransactionCompleted, t.ID, map[string]any{
			"transactionId": t.ID,
			"total":         t.Total,
			"paymentMethod": t.PaymentMethod,
			"items":         sold,
		}); err != nil {
			s.Logger.Error().Err(err).Str("transaction_id", t.ID).Msg("emit transaction completed")
		}
	}

	obs.RecordCheckout(string(method), "completed")
	obs.RecordSale(t.Total, qty)
	s.Session.Clear(s.DefaultTaxRateBps)

	s.Logger.Info().
		Str("transaction_id", t.ID).
		Str("payment_method", t.PaymentMethod).
		Int64("total", t.Total).
		Int("lines", len(t.Items)).
		Msg("checkout completed")
	return t, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return "TRX-" + uuid.NewString()
}

func mapCartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		return common.NewAppError("EMPTY_CART", "cart has no items", http.StatusConflict, err)
	case errors.Is(err, cart.ErrUnknownPaymentMethod):
		return common.NewAppError("VALIDATION", "unknown payment method", http.StatusUnprocessableEntity, err)
	}
	return err
}

func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInsufficientPayment):
		return common.NewAppError("INSUFFICIENT_PAYMENT", "amount tendered is below the total", http.StatusUnprocessableEntity, err)
	case errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidPrice),
		errors.Is(err, pricing.ErrInvalidTaxRate):
		return common.NewAppError("VALIDATION", err.Error(), http.StatusUnprocessableEntity, err)
	}
	return err
}
