package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/pos-toko/internal/money"
)

// Transaction is a completed checkout as persisted in history. Rows are
// written once and never updated.
type Transaction struct {
	ID             string
	CreatedAt      time.Time
	Subtotal       money.Amount
	Discount       money.Amount
	TaxRateBps     int
	Tax            money.Amount
	Total          money.Amount
	PaymentMethod  string
	AmountTendered money.Amount
	Change         money.Amount
	Items          []TransactionItem
}

// TransactionItem is one sold line within a transaction.
type TransactionItem struct {
	ProductID string
	Name      string
	Qty       int
	UnitPrice money.Amount
	LineTotal money.Amount
}

// AppendTransaction writes the record and its items atomically. There is no
// update path; history is append-only.
func (s *Store) AppendTransaction(ctx context.Context, t Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, created_at, subtotal, discount, tax_rate_bps, tax, total, payment_method, amount_tendered, change)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, encodeTime(t.CreatedAt), t.Subtotal, t.Discount, t.TaxRateBps, t.Tax, t.Total, t.PaymentMethod, t.AmountTendered, t.Change)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	for i, it := range t.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transaction_items (transaction_id, position, product_id, name, qty, unit_price, line_total)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, it.ProductID, it.Name, it.Qty, it.UnitPrice, it.LineTotal)
		if err != nil {
			return fmt.Errorf("insert transaction item: %w", err)
		}
	}
	return tx.Commit()
}

// GetTransaction fetches one record with its items.
func (s *Store) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	var t Transaction
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, subtotal, discount, tax_rate_bps, tax, total, payment_method, amount_tendered, change
		FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &created, &t.Subtotal, &t.Discount, &t.TaxRateBps, &t.Tax, &t.Total, &t.PaymentMethod, &t.AmountTendered, &t.Change)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.CreatedAt = decodeTime(created)

	items, err := s.listTransactionItems(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	t.Items = items
	return t, nil
}

// ListTransactions returns records most recent first, with items, plus the
// total row count.
func (s *Store) ListTransactions(ctx context.Context, limit, offset int) ([]Transaction, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `
		SELECT id, created_at, subtotal, discount, tax_rate_bps, tax, total, payment_method, amount_tendered, change
		FROM transactions ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var created string
		if err := rows.Scan(&t.ID, &created, &t.Subtotal, &t.Discount, &t.TaxRateBps, &t.Tax, &t.Total, &t.PaymentMethod, &t.AmountTendered, &t.Change); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		t.CreatedAt = decodeTime(created)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range out {
		items, err := s.listTransactionItems(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].Items = items
	}
	return out, total, nil
}

// SalesSummarySince aggregates revenue and transaction count from the given
// instant onward. Used by the dashboard for today's figures.
func (s *Store) SalesSummarySince(ctx context.Context, since time.Time) (money.Amount, int, error) {
	var total money.Amount
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM transactions WHERE created_at >= ?`, encodeTime(since)).
		Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("sales summary: %w", err)
	}
	return total, count, nil
}

func (s *Store) listTransactionItems(ctx context.Context, id string) ([]TransactionItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, qty, unit_price, line_total
		FROM transaction_items WHERE transaction_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()

	var items []TransactionItem
	for rows.Next() {
		var it TransactionItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Qty, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
