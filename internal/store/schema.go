package store

const schema = `
CREATE TABLE IF NOT EXISTS suppliers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	contact    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	name       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	price               INTEGER NOT NULL CHECK (price >= 0),
	stock               INTEGER NOT NULL DEFAULT 0,
	category            TEXT NOT NULL DEFAULT '',
	supplier_id         TEXT REFERENCES suppliers(id),
	low_stock_threshold INTEGER NOT NULL DEFAULT 10,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	created_at       TEXT NOT NULL,
	subtotal         INTEGER NOT NULL,
	discount         INTEGER NOT NULL,
	tax_rate_bps     INTEGER NOT NULL,
	tax              INTEGER NOT NULL,
	total            INTEGER NOT NULL,
	payment_method   TEXT NOT NULL,
	amount_tendered  INTEGER NOT NULL,
	change           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);

CREATE TABLE IF NOT EXISTS transaction_items (
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	position       INTEGER NOT NULL,
	product_id     TEXT NOT NULL,
	name           TEXT NOT NULL,
	qty            INTEGER NOT NULL,
	unit_price     INTEGER NOT NULL,
	line_total     INTEGER NOT NULL,
	PRIMARY KEY (transaction_id, position)
);

CREATE TABLE IF NOT EXISTS domain_events (
	id           TEXT PRIMARY KEY,
	topic        TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	payload      TEXT NOT NULL,
	occurred_at  TEXT NOT NULL
);
`
