// Package builder provides fluent, single-use statement builders for
// SELECT, UPDATE and DELETE. A builder accumulates target columns, one
// condition tree, ordering terms and a row limit, then compiles through
// sqlgen and executes through an Executor. Builders are sticky-error:
// the first misuse is recorded and surfaced before any SQL is
// generated, so nothing invalid ever reaches the driver.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/embersql/ember/query/sqlgen"
	"github.com/embersql/ember/runtime/record"
	"github.com/embersql/ember/schema"
)

var (
	// ErrWhereAlreadySet reports a second Where call on the same builder.
	ErrWhereAlreadySet = errors.New("where already set")

	// ErrNilCondition reports a Where call with a nil condition.
	ErrNilCondition = errors.New("nil condition")

	// ErrBuilderConsumed reports a builder executed more than once.
	ErrBuilderConsumed = errors.New("builder already executed")
)

// Executor issues compiled statements against the shared connection.
// It is implemented by the runtime client.
type Executor interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args []interface{}) (int64, error)
	// Fetch runs a query and returns raw rows, each a slice of
	// driver-native values in column order.
	Fetch(ctx context.Context, query string, args []interface{}) ([][]interface{}, error)
}

// core holds the state shared by all three statement kinds.
type core struct {
	exec     Executor
	table    *schema.Table
	cond     schema.Cond
	whereSet bool
	consumed bool
	err      error
}

func (c *core) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *core) setWhere(cond schema.Cond) {
	if c.err != nil {
		return
	}
	if c.whereSet {
		c.fail(fmt.Errorf("table %q: %w", c.table.Name(), ErrWhereAlreadySet))
		return
	}
	if cond == nil {
		c.fail(fmt.Errorf("table %q: %w", c.table.Name(), ErrNilCondition))
		return
	}
	if err := cond.Err(); err != nil {
		c.fail(err)
		return
	}
	c.cond = cond
	c.whereSet = true
}

func (c *core) checkColumn(col *schema.Column) bool {
	if c.err != nil {
		return false
	}
	if !c.table.Has(col) {
		name := "<nil>"
		if col != nil {
			name = col.Name()
		}
		c.fail(fmt.Errorf("table %q: column %q: %w", c.table.Name(), name, schema.ErrUnknownColumn))
		return false
	}
	return true
}

// take marks the builder consumed, exactly once.
func (c *core) take() error {
	if c.err != nil {
		return c.err
	}
	if c.consumed {
		return fmt.Errorf("table %q: %w", c.table.Name(), ErrBuilderConsumed)
	}
	c.consumed = true
	return nil
}

// SelectBuilder accumulates the shape of a SELECT statement.
type SelectBuilder struct {
	core
	columns []*schema.Column
	orderBy []sqlgen.OrderBy
	limit   *int64
}

// NewSelect creates a SELECT builder targeting the given columns, or
// all declared columns when none are given.
func NewSelect(exec Executor, table *schema.Table, columns ...*schema.Column) *SelectBuilder {
	b := &SelectBuilder{core: core{exec: exec, table: table}}
	for _, col := range columns {
		if !b.checkColumn(col) {
			break
		}
	}
	b.columns = columns
	return b
}

// Where attaches the condition tree. It may be called at most once.
func (b *SelectBuilder) Where(cond schema.Cond) *SelectBuilder {
	b.setWhere(cond)
	return b
}

// OrderBy appends one ascending ORDER BY term. Each call adds one
// tie-break level; earlier calls take priority.
func (b *SelectBuilder) OrderBy(col *schema.Column) *SelectBuilder {
	if b.checkColumn(col) {
		b.orderBy = append(b.orderBy, sqlgen.OrderBy{Column: col})
	}
	return b
}

// OrderByDesc appends one descending ORDER BY term.
func (b *SelectBuilder) OrderByDesc(col *schema.Column) *SelectBuilder {
	if b.checkColumn(col) {
		b.orderBy = append(b.orderBy, sqlgen.OrderBy{Column: col, Desc: true})
	}
	return b
}

// Limit caps the number of returned rows. Unlike OrderBy it
// overwrites: the last call wins. Negative limits are rejected.
func (b *SelectBuilder) Limit(n int64) *SelectBuilder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.fail(fmt.Errorf("limit %d: %w", n, sqlgen.ErrNegativeLimit))
		return b
	}
	b.limit = &n
	return b
}

// Err returns the first error recorded while chaining.
func (b *SelectBuilder) Err() error { return b.err }

// Compile renders the accumulated statement without executing it.
func (b *SelectBuilder) Compile() (*sqlgen.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	return sqlgen.Select(b.table, b.columns, b.cond, b.orderBy, b.limit)
}

// All executes the query and marshals every row. The builder is
// consumed; a second execution is an error.
func (b *SelectBuilder) All(ctx context.Context) ([]*record.Record, error) {
	q, err := b.compileLocked()
	if err != nil {
		return nil, err
	}
	raw, err := b.exec.Fetch(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	cols := b.columns
	if len(cols) == 0 {
		cols = b.table.Columns()
	}
	out := make([]*record.Record, 0, len(raw))
	for _, row := range raw {
		rec, err := record.FromRaw(b.table, cols, row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// First executes the query with LIMIT 1 and returns the first row, or
// nil when nothing matched.
func (b *SelectBuilder) First(ctx context.Context) (*record.Record, error) {
	b.Limit(1)
	rows, err := b.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (b *SelectBuilder) compileLocked() (*sqlgen.Query, error) {
	if err := b.take(); err != nil {
		return nil, err
	}
	return sqlgen.Select(b.table, b.columns, b.cond, b.orderBy, b.limit)
}

// UpdateBuilder accumulates the shape of an UPDATE statement.
type UpdateBuilder struct {
	core
	assigns []sqlgen.Assign
}

// NewUpdate creates an UPDATE builder for the table.
func NewUpdate(exec Executor, table *schema.Table) *UpdateBuilder {
	return &UpdateBuilder{core: core{exec: exec, table: table}}
}

// Set appends one SET assignment. Values are checked against the
// column's declared type immediately.
func (b *UpdateBuilder) Set(col *schema.Column, value interface{}) *UpdateBuilder {
	if !b.checkColumn(col) {
		return b
	}
	if err := col.Check(value); err != nil {
		b.fail(err)
		return b
	}
	b.assigns = append(b.assigns, sqlgen.Assign{Column: col, Value: value})
	return b
}

// Where attaches the condition tree. It may be called at most once,
// and UPDATE refuses to compile without it.
func (b *UpdateBuilder) Where(cond schema.Cond) *UpdateBuilder {
	b.setWhere(cond)
	return b
}

// Err returns the first error recorded while chaining.
func (b *UpdateBuilder) Err() error { return b.err }

// Compile renders the accumulated statement without executing it.
func (b *UpdateBuilder) Compile() (*sqlgen.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	return sqlgen.Update(b.table, b.assigns, b.cond)
}

// Exec executes the update and returns the affected row count. The
// builder is consumed.
func (b *UpdateBuilder) Exec(ctx context.Context) (int64, error) {
	if err := b.take(); err != nil {
		return 0, err
	}
	q, err := sqlgen.Update(b.table, b.assigns, b.cond)
	if err != nil {
		return 0, err
	}
	return b.exec.Exec(ctx, q.SQL, q.Args)
}

// DeleteBuilder accumulates the shape of a DELETE statement.
type DeleteBuilder struct {
	core
}

// NewDelete creates a DELETE builder for the table.
func NewDelete(exec Executor, table *schema.Table) *DeleteBuilder {
	return &DeleteBuilder{core: core{exec: exec, table: table}}
}

// Where attaches the condition tree. It may be called at most once,
// and DELETE refuses to compile without it.
func (b *DeleteBuilder) Where(cond schema.Cond) *DeleteBuilder {
	b.setWhere(cond)
	return b
}

// Err returns the first error recorded while chaining.
func (b *DeleteBuilder) Err() error { return b.err }

// Compile renders the accumulated statement without executing it.
func (b *DeleteBuilder) Compile() (*sqlgen.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	return sqlgen.Delete(b.table, b.cond)
}

// Exec executes the delete and returns the affected row count. The
// builder is consumed.
func (b *DeleteBuilder) Exec(ctx context.Context) (int64, error) {
	if err := b.take(); err != nil {
		return 0, err
	}
	q, err := sqlgen.Delete(b.table, b.cond)
	if err != nil {
		return 0, err
	}
	return b.exec.Exec(ctx, q.SQL, q.Args)
}
