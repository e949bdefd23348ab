package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/pos-toko/internal/money"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Product is a catalog entry as persisted on the device.
type Product struct {
	ID                string
	Name              string
	Price             money.Amount
	Stock             int
	Category          string
	SupplierID        string
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

const productColumns = `id, name, price, stock, category, COALESCE(supplier_id, ''), low_stock_threshold, created_at, updated_at`

// CreateProduct inserts a product.
func (s *Store) CreateProduct(ctx context.Context, p Product) error {
	now := encodeTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, stock, category, supplier_id, low_stock_threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Stock, p.Category, p.SupplierID, p.LowStockThreshold, now, now)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct replaces the mutable fields of a product.
func (s *Store) UpdateProduct(ctx context.Context, p Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, price = ?, stock = ?, category = ?, supplier_id = NULLIF(?, ''), low_stock_threshold = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Price, p.Stock, p.Category, p.SupplierID, p.LowStockThreshold, encodeTime(time.Now()), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res)
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res)
}

// GetProduct fetches one product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// ListProducts returns products matching the filter ordered by name, plus the
// total count for pagination.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]Product, int, error) {
	where, args := productWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// ListLowStockProducts returns products whose stock fell below their
// per-product threshold, lowest stock first.
func (s *Store) ListLowStockProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stock < low_stock_threshold
		ORDER BY stock ASC, name`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DecrementStock subtracts sold quantity without going negative and returns
// the resulting product row.
func (s *Store) DecrementStock(ctx context.Context, id string, qty int) (Product, error) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET stock = MAX(0, stock - ?), updated_at = ?
		WHERE id = ?`,
		qty, encodeTime(time.Now()), id)
	if err != nil {
		return Product{}, fmt.Errorf("decrement stock: %w", err)
	}
	return s.GetProduct(ctx, id)
}

func productWhere(f ProductFilter) (string, []any) {
	var clauses []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		clauses = append(clauses, `name LIKE ? COLLATE NOCASE`)
		args = append(args, "%"+q+"%")
	}
	if f.Category != "" {
		clauses = append(clauses, `category = ?`)
		args = append(args, f.Category)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var created, updated string
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.SupplierID, &p.LowStockThreshold, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.CreatedAt = decodeTime(created)
	p.UpdatedAt = decodeTime(updated)
	return p, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
