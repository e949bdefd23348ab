package cart

import (
	"errors"
	"sync"

	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/pricing"
)

// ErrEmptyCart indicates an operation that needs at least one line item.
var ErrEmptyCart = errors.New("cart: cart is empty")

// ErrUnknownItem indicates the product is not in the cart.
var ErrUnknownItem = errors.New("cart: item not in cart")

// ErrUnknownPaymentMethod indicates an unsupported payment selection.
var ErrUnknownPaymentMethod = errors.New("cart: unknown payment method")

// State tracks where the single checkout session currently is.
type State string

const (
	// StateBuilding means line items are being added or edited.
	StateBuilding State = "building"
	// StateQuoting means a quote has been computed for the current inputs.
	StateQuoting State = "quoting"
	// StateAwaitingPayment means a payment method has been selected.
	StateAwaitingPayment State = "awaiting_payment"
)

// PaymentMethod is how the customer settles the sale.
type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayCard   PaymentMethod = "card"
	PayMobile PaymentMethod = "mobile"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCard, PayMobile:
		return true
	}
	return false
}

// Line is one product entry in the active cart.
type Line struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unitPrice"`
	Qty       int          `json:"qty"`
}

// Payment is the selected settlement for the session.
type Payment struct {
	Method   PaymentMethod `json:"method"`
	Tendered money.Amount  `json:"amountTendered"`
}

// Snapshot is an immutable copy of the session used for quoting, checkout,
// and rendering. Mutating the live cart after taking a snapshot does not
// affect it.
type Snapshot struct {
	State      State                `json:"state"`
	Items      []Line               `json:"items"`
	Discount   pricing.DiscountSpec `json:"discount"`
	TaxRateBps int                  `json:"taxRateBps"`
	Payment    Payment              `json:"payment"`
}

// Session is the single active checkout session on the terminal. All pricing
// recomputation is synchronous; the mutex only guards against overlapping
// HTTP requests from the device UI.
type Session struct {
	mu         sync.Mutex
	state      State
	items      []Line
	discount   pricing.DiscountSpec
	taxRateBps int
	payment    Payment
}

// NewSession returns an empty session with the given default tax rate.
func NewSession(defaultTaxRateBps int) *Session {
	s := &Session{}
	s.reset(defaultTaxRateBps)
	return s
}

func (s *Session) reset(taxRateBps int) {
	s.state = StateBuilding
	s.items = nil
	s.discount = pricing.DiscountSpec{Mode: pricing.DiscountPercent}
	s.taxRateBps = taxRateBps
	s.payment = Payment{Method: PayCash}
}

// AddItem merges a product into the cart: an existing line gains quantity,
// a new product starts at the given quantity.
func (s *Session) AddItem(productID, name string, unitPrice money.Amount, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Qty += qty
			s.state = StateBuilding
			return
		}
	}
	s.items = append(s.items, Line{ProductID: productID, Name: name, UnitPrice: unitPrice, Qty: qty})
	s.state = StateBuilding
}

// SetQuantity sets the quantity of a line; zero removes it.
func (s *Session) SetQuantity(productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Qty = qty
		}
		s.state = StateBuilding
		return nil
	}
	return ErrUnknownItem
}

// RemoveItem deletes a line outright.
func (s *Session) RemoveItem(productID string) error {
	return s.SetQuantity(productID, 0)
}

// SetDiscount replaces the discount spec for the session.
func (s *Session) SetDiscount(spec pricing.DiscountSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = spec
	s.state = StateBuilding
}

// SetTaxRate replaces the session tax rate in basis points. Validity is
// checked when the quote is computed.
func (s *Session) SetTaxRate(bps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxRateBps = bps
	s.state = StateBuilding
}

// SelectPayment records the payment method and tendered amount, moving the
// session to awaiting payment.
func (s *Session) SelectPayment(p Payment) error {
	if !ValidPaymentMethod(p.Method) {
		return ErrUnknownPaymentMethod
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return ErrEmptyCart
	}
	s.payment = p
	s.state = StateAwaitingPayment
	return nil
}

// Quote recomputes the pricing projection for the current inputs.
func (s *Session) Quote() (pricing.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quote, err := s.quoteLocked()
	if err != nil {
		return pricing.Quote{}, err
	}
	if s.state == StateBuilding {
		s.state = StateQuoting
	}
	return quote, nil
}

func (s *Session) quoteLocked() (pricing.Quote, error) {
	if len(s.items) == 0 {
		return pricing.Quote{}, ErrEmptyCart
	}
	items := make([]pricing.Item, 0, len(s.items))
	for _, line := range s.items {
		items = append(items, pricing.Item{Qty: line.Qty, UnitPrice: line.UnitPrice})
	}
	return pricing.Compute(items, s.discount, s.taxRateBps)
}

// Snapshot copies the session for checkout or rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Line, len(s.items))
	copy(items, s.items)
	return Snapshot{
		State:      s.state,
		Items:      items,
		Discount:   s.discount,
		TaxRateBps: s.taxRateBps,
		Payment:    s.payment,
	}
}

// Cancel discards all pending line items and quote state. It has no side
// effects on history.
func (s *Session) Cancel(defaultTaxRateBps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(defaultTaxRateBps)
}

// Clear resets the session after a completed checkout.
func (s *Session) Clear(defaultTaxRateBps int) {
	s.Cancel(defaultTaxRateBps)
}

// Empty reports whether the cart has no line items.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}
