package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Supplier identifies where a product is sourced from.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
}

// CreateSupplier inserts a supplier.
func (s *Store) CreateSupplier(ctx context.Context, sp Supplier) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO suppliers (id, name, contact, created_at) VALUES (?, ?, ?, ?)`,
		sp.ID, sp.Name, sp.Contact, encodeTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetSupplier fetches one supplier by id.
func (s *Store) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	var sp Supplier
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, contact, created_at FROM suppliers WHERE id = ?`, id).
		Scan(&sp.ID, &sp.Name, &sp.Contact, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, fmt.Errorf("get supplier: %w", err)
	}
	sp.CreatedAt = decodeTime(created)
	return sp, nil
}

// ListSuppliers returns all suppliers ordered by name.
func (s *Store) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, contact, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var sp Supplier
		var created string
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Contact, &created); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		sp.CreatedAt = decodeTime(created)
		out = append(out, sp)
	}
	return out, rows.Err()
}

// CreateCategory registers a category name. Inserting an existing name is a
// no-op so the seeder and the add-product form can both register freely.
func (s *Store) CreateCategory(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, encodeTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category name.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

// ListCategories returns all category names in alphabetical order.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
