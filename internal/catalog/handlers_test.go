package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	svc, _, _ := newTestService(t)
	h := NewHandler(HandlerConfig{Service: svc})

	r := chi.NewRouter()
	r.Get("/products", h.Products)
	r.Post("/products", h.CreateProduct)
	r.Get("/products/low-stock", h.LowStock)
	r.Get("/products/{id}", h.ProductDetail)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
	return r, svc
}

func TestCreateAndFetchProduct(t *testing.T) {
	router, _ := newTestRouter(t)

	body := bytes.NewBufferString(`{"name":"Beras Premium 5kg","price":50000,"stock":40,"category":"Sembako"}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/products", body))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Data Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	rr2 := httptest.NewRecorder()
	router.ServeHTTP(rr2, httptest.NewRequest(http.MethodGet, "/products/"+created.Data.ID, nil))
	require.Equal(t, http.StatusOK, rr2.Code)
}

func TestCreateProductValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	body := bytes.NewBufferString(`{"name":"","price":-5}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/products", body))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var payload struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, "VALIDATION", payload.Error.Code)
	require.Contains(t, payload.Error.Details, "Name")
}

func TestProductNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductsPagination(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	for _, name := range []string{"Beras", "Gula", "Minyak"} {
		_, err := svc.CreateProduct(ctx, ProductInput{Name: name, Price: 10000, Stock: 5})
		require.NoError(t, err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products?page=1&limit=2", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Data       []Product `json:"data"`
		Pagination struct {
			TotalItems int `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 2)
	require.Equal(t, 3, payload.Pagination.TotalItems)
}
