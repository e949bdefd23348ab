package cart_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pos-toko/internal/cart"
	"github.com/noah-isme/pos-toko/internal/catalog"
	"github.com/noah-isme/pos-toko/internal/store"
)

type cartView struct {
	Data struct {
		State string `json:"state"`
		Items []struct {
			ProductID string `json:"productId"`
			Qty       int    `json:"qty"`
		} `json:"items"`
		Quote *struct {
			Subtotal int64 `json:"subtotal"`
			Discount int64 `json:"discount"`
			Tax      int64 `json:"tax"`
			Total    int64 `json:"total"`
		} `json:"quote"`
	} `json:"data"`
}

func newCartRouter(t *testing.T) (*chi.Mux, string) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{Storage: st})
	require.NoError(t, err)
	product, err := catalogSvc.CreateProduct(ctx, catalog.ProductInput{
		Name: "Beras Premium 5kg", Price: 50000, Stock: 40, Category: "Sembako",
	})
	require.NoError(t, err)

	h := &cart.Handler{
		Session:           cart.NewSession(1100),
		Catalog:           catalogSvc,
		DefaultTaxRateBps: 1100,
	}
	r := chi.NewRouter()
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{productId}", h.UpdateItem)
	r.Delete("/cart/items/{productId}", h.RemoveItem)
	r.Post("/cart/discount", h.SetDiscount)
	r.Post("/cart/tax-rate", h.SetTaxRate)
	r.Get("/cart/quote", h.Quote)
	r.Post("/cart/cancel", h.Cancel)
	return r, product.ID
}

func do(t *testing.T, router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body == "" {
		rd = bytes.NewBuffer(nil)
	} else {
		rd = bytes.NewBufferString(body)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, rd))
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) cartView {
	t.Helper()
	var v cartView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestAddItemMergesQuantity(t *testing.T) {
	router, productID := newCartRouter(t)

	rr := do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+productID+`","qty":2}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+productID+`","qty":1}`)
	view := decodeView(t, rr)
	require.Len(t, view.Data.Items, 1)
	require.Equal(t, 3, view.Data.Items[0].Qty)
	require.NotNil(t, view.Data.Quote)
	require.Equal(t, int64(150000), view.Data.Quote.Subtotal)
}

func TestAddUnknownProduct(t *testing.T) {
	router, _ := newCartRouter(t)
	rr := do(t, router, http.MethodPost, "/cart/items", `{"productId":"nope","qty":1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDiscountAndTaxRecompute(t *testing.T) {
	router, productID := newCartRouter(t)

	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+productID+`","qty":2}`)
	rr := do(t, router, http.MethodPost, "/cart/discount", `{"mode":"percentage","amount":"10"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	view := decodeView(t, rr)
	require.NotNil(t, view.Data.Quote)
	require.Equal(t, int64(100000), view.Data.Quote.Subtotal)
	require.Equal(t, int64(10000), view.Data.Quote.Discount)
	require.Equal(t, int64(9900), view.Data.Quote.Tax)
	require.Equal(t, int64(99900), view.Data.Quote.Total)
}

func TestDiscountRejectsUnknownMode(t *testing.T) {
	router, _ := newCartRouter(t)
	rr := do(t, router, http.MethodPost, "/cart/discount", `{"mode":"loyalty","amount":"10"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestUpdateItemToZeroRemovesLine(t *testing.T) {
	router, productID := newCartRouter(t)

	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+productID+`","qty":2}`)
	rr := do(t, router, http.MethodPatch, "/cart/items/"+productID, `{"qty":0}`)
	view := decodeView(t, rr)
	require.Empty(t, view.Data.Items)

	rr = do(t, router, http.MethodPatch, "/cart/items/"+productID, `{"qty":1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQuoteEmptyCart(t *testing.T) {
	router, _ := newCartRouter(t)
	rr := do(t, router, http.MethodGet, "/cart/quote", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCancelResetsSession(t *testing.T) {
	router, productID := newCartRouter(t)

	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+productID+`","qty":2}`)
	do(t, router, http.MethodPost, "/cart/discount", `{"mode":"fixed","amount":"5.000"}`)

	rr := do(t, router, http.MethodPost, "/cart/cancel", "")
	view := decodeView(t, rr)
	require.Equal(t, "building", view.Data.State)
	require.Empty(t, view.Data.Items)
	require.Nil(t, view.Data.Quote)
}
