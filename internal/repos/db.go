package repos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// nowExpr yields fixed-width UTC millisecond timestamps so text ordering is
// chronological.
const nowExpr = `strftime('%Y-%m-%dT%H:%M:%fZ','now')`

// timestampLayout formats a time.Time the way nowExpr does.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: sqlite serializes writers anyway, and :memory:
	// databases only exist per connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;
PRAGMA busy_timeout = 5000;

-- Customers, deduplicated by (first_name, last_name, dob, zip)
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  dob TEXT NOT NULL,
  street TEXT NOT NULL,
  zip TEXT NOT NULL,
  city TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  insurance_type TEXT NOT NULL CHECK (insurance_type IN ('statutory','private')),
  insurance_name TEXT NOT NULL,
  care_grade TEXT NOT NULL DEFAULT '' CHECK (care_grade IN ('','1','2','3','4','5')),
  beihilfe_percent INTEGER NOT NULL DEFAULT 0 CHECK (beihilfe_percent IN (0,50,70,80)),
  legal_rep_present INTEGER NOT NULL DEFAULT 0,
  legal_rep_name TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_natural_key ON customers(first_name, last_name, dob, zip);
CREATE INDEX IF NOT EXISTS idx_customers_updated_at ON customers(updated_at);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_no INTEGER NOT NULL UNIQUE,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE RESTRICT,
  month_key TEXT NOT NULL,
  total NUMERIC NOT NULL CHECK (total >= 0),
  budget_max NUMERIC NOT NULL CHECK (budget_max > 0),
  status TEXT NOT NULL DEFAULT 'open',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer   ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  line_no    INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  name       TEXT NOT NULL,
  category   TEXT NOT NULL,
  unit_price NUMERIC NOT NULL CHECK (unit_price >= 0),
  quantity   INTEGER NOT NULL CHECK (quantity > 0),
  size       TEXT NOT NULL DEFAULT '',
  line_total NUMERIC NOT NULL,
  PRIMARY KEY (order_id, line_no)
);

-- Configurator drafts: one cart per configurator session cookie
CREATE TABLE IF NOT EXISTS drafts(
  id TEXT PRIMARY KEY,
  care_grade TEXT NOT NULL DEFAULT '',
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS draft_lines(
  draft_id   TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
  position   INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  name       TEXT NOT NULL,
  category   TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity   INTEGER NOT NULL CHECK (quantity >= 1),
  size       TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (draft_id, product_id, size)
);
`
	_, err := db.Exec(schema)
	return err
}

// InTx runs fn in a transaction and commits when fn returns nil. The
// transaction is rolled back on every other exit path.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// IsUniqueViolation reports whether err comes from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
