package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/events"
	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/store"
)

// Storage enumerates the persistence operations the catalog needs.
type Storage interface {
	CreateProduct(ctx context.Context, p store.Product) error
	UpdateProduct(ctx context.Context, p store.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (store.Product, error)
	ListProducts(ctx context.Context, f store.ProductFilter) ([]store.Product, int, error)
	ListLowStockProducts(ctx context.Context) ([]store.Product, error)
	CreateCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error
	ListCategories(ctx context.Context) ([]string, error)
	CreateSupplier(ctx context.Context, sp store.Supplier) error
	GetSupplier(ctx context.Context, id string) (store.Supplier, error)
	ListSuppliers(ctx context.Context) ([]store.Supplier, error)
}

// Service orchestrates catalog reads and writes, DTO assembly, and caching.
type Service struct {
	storage                  Storage
	cache                    *Cache
	bus                      *events.Bus
	defaultLimit             int
	maxLimit                 int
	defaultLowStockThreshold int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Storage                  Storage
	Cache                    *Cache
	Bus                      *events.Bus
	DefaultLimit             int
	MaxLimit                 int
	DefaultLowStockThreshold int
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Storage == nil {
		return nil, errors.New("catalog: storage is required")
	}
	svc := &Service{
		storage:                  cfg.Storage,
		cache:                    cfg.Cache,
		bus:                      cfg.Bus,
		defaultLimit:             cfg.DefaultLimit,
		maxLimit:                 cfg.MaxLimit,
		defaultLowStockThreshold: cfg.DefaultLowStockThreshold,
	}
	if svc.defaultLimit <= 0 {
		svc.defaultLimit = 20
	}
	if svc.maxLimit <= 0 {
		svc.maxLimit = 100
	}
	if svc.defaultLowStockThreshold <= 0 {
		svc.defaultLowStockThreshold = 10
	}
	return svc, nil
}

// Product is the API representation of a catalog entry.
type Product struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Price             money.Amount `json:"price"`
	Stock             int          `json:"stock"`
	Category          string       `json:"category"`
	Supplier          *Supplier    `json:"supplier,omitempty"`
	LowStockThreshold int          `json:"lowStockThreshold"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// Supplier is the API representation of a supplier.
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ProductInput carries create/update payloads.
type ProductInput struct {
	Name              string       `json:"name" validate:"required,min=1,max=120"`
	Price             money.Amount `json:"price" validate:"gte=0"`
	Stock             int          `json:"stock" validate:"gte=0"`
	Category          string       `json:"category" validate:"max=60"`
	SupplierID        string       `json:"supplierId"`
	LowStockThreshold int          `json:"lowStockThreshold" validate:"gte=0"`
}

// SupplierInput carries supplier create payloads.
type SupplierInput struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Contact string `json:"contact" validate:"max=60"`
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// ListResult bundles a page of products with pagination data.
type ListResult struct {
	Items []Product
	Total int
	Page  int
	Limit int
}

func errNotFound(what string) *common.AppError {
	return common.NewAppError("NOT_FOUND", what+" not found", http.StatusNotFound, store.ErrNotFound)
}

// CreateProduct registers a new product and its category.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	if in.LowStockThreshold == 0 {
		in.LowStockThreshold = s.defaultLowStockThreshold
	}
	if in.SupplierID != "" {
		if _, err := s.storage.GetSupplier(ctx, in.SupplierID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return Product{}, common.NewAppError("VALIDATION", "unknown supplier", http.StatusUnprocessableEntity, err)
			}
			return Product{}, err
		}
	}
	row := store.Product{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Price:             in.Price,
		Stock:             in.Stock,
		Category:          strings.TrimSpace(in.Category),
		SupplierID:        in.SupplierID,
		LowStockThreshold: in.LowStockThreshold,
	}
	if err := s.storage.CreateProduct(ctx, row); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	if row.Category != "" {
		_ = s.storage.CreateCategory(ctx, row.Category)
	}
	s.cache.Invalidate(ctx)
	s.emit(ctx, events.TopicProductCreated, row.ID, map[string]any{"name": row.Name, "price": row.Price})
	return s.toProduct(ctx, row), nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	existing, err := s.storage.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Product{}, errNotFound("product")
		}
		return Product{}, err
	}
	existing.Name = strings.TrimSpace(in.Name)
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.Category = strings.TrimSpace(in.Category)
	existing.SupplierID = in.SupplierID
	if in.LowStockThreshold > 0 {
		existing.LowStockThreshold = in.LowStockThreshold
	}
	if err := s.storage.UpdateProduct(ctx, existing); err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if existing.Category != "" {
		_ = s.storage.CreateCategory(ctx, existing.Category)
	}
	s.cache.Invalidate(ctx)
	s.emit(ctx, events.TopicProductUpdated, id, map[string]any{"name": existing.Name, "price": existing.Price})
	return s.toProduct(ctx, existing), nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("product")
		}
		return err
	}
	s.cache.Invalidate(ctx)
	s.emit(ctx, events.TopicProductDeleted, id, nil)
	return nil
}

// GetProduct fetches one product.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	row, err := s.storage.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Product{}, errNotFound("product")
		}
		return Product{}, err
	}
	return s.toProduct(ctx, row), nil
}

// ListProducts returns a filtered page of products, served from cache when
// possible.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = s.defaultLimit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}

	key := s.cache.ListKey(ctx, fmt.Sprintf("products:q=%s:c=%s:p=%d:l=%d", params.Query, params.Category, params.Page, params.Limit))
	var cached ListResult
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	rows, total, err := s.storage.ListProducts(ctx, store.ProductFilter{
		Query:    params.Query,
		Category: params.Category,
		Limit:    params.Limit,
		Offset:   (params.Page - 1) * params.Limit,
	})
	if err != nil {
		return ListResult{}, err
	}
	result := ListResult{Items: make([]Product, 0, len(rows)), Total: total, Page: params.Page, Limit: params.Limit}
	for _, row := range rows {
		result.Items = append(result.Items, s.toProduct(ctx, row))
	}
	_ = s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// ListLowStock returns products below their low-stock threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	rows, err := s.storage.ListLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.toProduct(ctx, row))
	}
	return out, nil
}

// ListCategories returns all known category names.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	key := s.cache.ListKey(ctx, "categories")
	var cached []string
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	names, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, names)
	return names, nil
}

// AddCategory registers a category name.
func (s *Service) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.NewAppError("VALIDATION", "category name is required", http.StatusUnprocessableEntity, nil)
	}
	if err := s.storage.CreateCategory(ctx, name); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// RemoveCategory deletes a category name.
func (s *Service) RemoveCategory(ctx context.Context, name string) error {
	if err := s.storage.DeleteCategory(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("category")
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// CreateSupplier registers a supplier.
func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (Supplier, error) {
	sp := store.Supplier{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Contact: strings.TrimSpace(in.Contact),
	}
	if err := s.storage.CreateSupplier(ctx, sp); err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	return Supplier{ID: sp.ID, Name: sp.Name, Contact: sp.Contact}, nil
}

// ListSuppliers returns all suppliers.
func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.storage.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Supplier, 0, len(rows))
	for _, row := range rows {
		out = append(out, Supplier{ID: row.ID, Name: row.Name, Contact: row.Contact})
	}
	return out, nil
}

func (s *Service) toProduct(ctx context.Context, row store.Product) Product {
	p := Product{
		ID:                row.ID,
		Name:              row.Name,
		Price:             row.Price,
		Stock:             row.Stock,
		Category:          row.Category,
		LowStockThreshold: row.LowStockThreshold,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.SupplierID != "" {
		if sp, err := s.storage.GetSupplier(ctx, row.SupplierID); err == nil {
			p.Supplier = &Supplier{ID: sp.ID, Name: sp.Name, Contact: sp.Contact}
		}
	}
	return p
}

func (s *Service) emit(ctx context.Context, topic, aggregateID string, payload any) {
	if s.bus == nil {
		return
	}
	_, _ = s.bus.Emit(ctx, topic, aggregateID, payload)
}
