// Package client provides the ember database client: the shared
// connection to an embedded SQLite database and the model handles that
// bind table definitions to it. The client implements the builder
// Executor, so every statement built by a model flows through Exec or
// Fetch here, and nothing else in the module touches database/sql.
package client

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/embersql/ember/internal/debug"
)

// Client owns the shared connection to an embedded SQLite database.
// The engine serializes writers itself; the client adds no locking of
// its own and no retry logic — driver failures and context
// cancellation propagate to the caller unchanged.
type Client struct {
	db *sql.DB
}

// Open opens a SQLite database at path. Use ":memory:" for a
// transient in-memory database.
func Open(path string) (*Client, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return &Client{db: db}, nil
}

// NewFromDB wraps an already-open connection.
func NewFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Connect verifies the connection is usable.
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// DB returns the underlying database handle.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Exec runs a statement and returns the number of affected rows.
func (c *Client) Exec(ctx context.Context, query string, args []interface{}) (int64, error) {
	debug.Debug("exec", "sql", query, "args", len(args))
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	return n, nil
}

// Fetch runs a query and returns raw rows, each a slice of
// driver-native values in column order.
func (c *Client) Fetch(ctx context.Context, query string, args []interface{}) ([][]interface{}, error) {
	debug.Debug("fetch", "sql", query, "args", len(args))
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	var out [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return out, nil
}
