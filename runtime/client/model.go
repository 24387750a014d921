package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/embersql/ember/query/builder"
	"github.com/embersql/ember/query/sqlgen"
	"github.com/embersql/ember/runtime/record"
	"github.com/embersql/ember/schema"
)

var (
	// ErrNoPrimaryKey reports an instance-level update or delete on a
	// table declared without a primary key.
	ErrNoPrimaryKey = errors.New("table has no primary key")

	// ErrNoIdentity reports an instance-level update or delete on a
	// record whose primary-key value was never set.
	ErrNoIdentity = errors.New("record has no captured primary-key value")

	// ErrWrongTable reports a record passed to a model of a different
	// table.
	ErrWrongTable = errors.New("record belongs to another table")
)

// Model binds one table definition to the client's connection. It is
// the entry point for statements against that table.
type Model struct {
	c     *Client
	table *schema.Table
}

// Model returns a handle for statements against the table.
func (c *Client) Model(table *schema.Table) *Model {
	return &Model{c: c, table: table}
}

// Table returns the model's table definition.
func (m *Model) Table() *schema.Table { return m.table }

// Select starts a SELECT over the given columns, or all declared
// columns when none are given.
func (m *Model) Select(columns ...*schema.Column) *builder.SelectBuilder {
	return builder.NewSelect(m.c, m.table, columns...)
}

// Update starts an UPDATE builder.
func (m *Model) Update() *builder.UpdateBuilder {
	return builder.NewUpdate(m.c, m.table)
}

// Delete starts a DELETE builder.
func (m *Model) Delete() *builder.DeleteBuilder {
	return builder.NewDelete(m.c, m.table)
}

// New creates a record bound to this model's table.
func (m *Model) New(values map[string]interface{}) (*record.Record, error) {
	return record.New(m.table, values)
}

// Insert writes rec as a new row, filling declared defaults for unset
// columns.
func (m *Model) Insert(ctx context.Context, rec *record.Record) error {
	if err := m.check(rec); err != nil {
		return err
	}
	cols, values, err := rec.InsertPlan()
	if err != nil {
		return err
	}
	q, err := sqlgen.Insert(m.table, cols, values)
	if err != nil {
		return err
	}
	_, err = m.c.Exec(ctx, q.SQL, q.Args)
	return err
}

// UpdateRecord writes rec's current non-key column values to the row
// identified by the primary-key value captured when the record was
// created. It requires a declared primary key and a captured value;
// both are checked before any SQL is generated.
func (m *Model) UpdateRecord(ctx context.Context, rec *record.Record) (int64, error) {
	pk, id, err := m.identity(rec)
	if err != nil {
		return 0, err
	}
	assigns, err := rec.Assigns()
	if err != nil {
		return 0, err
	}
	q, err := sqlgen.Update(m.table, assigns, pk.Eq(id))
	if err != nil {
		return 0, err
	}
	return m.c.Exec(ctx, q.SQL, q.Args)
}

// DeleteRecord removes the row identified by rec's captured
// primary-key value.
func (m *Model) DeleteRecord(ctx context.Context, rec *record.Record) (int64, error) {
	pk, id, err := m.identity(rec)
	if err != nil {
		return 0, err
	}
	q, err := sqlgen.Delete(m.table, pk.Eq(id))
	if err != nil {
		return 0, err
	}
	return m.c.Exec(ctx, q.SQL, q.Args)
}

func (m *Model) check(rec *record.Record) error {
	if rec.Table() != m.table {
		return fmt.Errorf("table %q: %w", m.table.Name(), ErrWrongTable)
	}
	return nil
}

func (m *Model) identity(rec *record.Record) (*schema.Column, interface{}, error) {
	if err := m.check(rec); err != nil {
		return nil, nil, err
	}
	pk, ok := m.table.PrimaryKey()
	if !ok {
		return nil, nil, fmt.Errorf("table %q: %w", m.table.Name(), ErrNoPrimaryKey)
	}
	id, ok := rec.Identity()
	if !ok {
		return nil, nil, fmt.Errorf("table %q: %w", m.table.Name(), ErrNoIdentity)
	}
	return pk, id, nil
}

// CreateTable issues CREATE TABLE IF NOT EXISTS DDL for the table.
func (c *Client) CreateTable(ctx context.Context, table *schema.Table) error {
	_, err := c.Exec(ctx, sqlgen.CreateTable(table), nil)
	return err
}

// DropTable issues DROP TABLE IF EXISTS DDL for the table.
func (c *Client) DropTable(ctx context.Context, table *schema.Table) error {
	_, err := c.Exec(ctx, sqlgen.DropTable(table), nil)
	return err
}
