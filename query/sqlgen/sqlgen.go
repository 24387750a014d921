// Package sqlgen compiles statement shapes into parameterized SQLite
// SQL. Compilation is a pure function: the same inputs always produce
// the same SQL text and the same argument order, every user-supplied
// literal is bound through a ? placeholder, and identifiers come only
// from validated schema definitions.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/embersql/ember/schema"
)

// Query is a compiled SQL statement with its bound arguments in
// placeholder order.
type Query struct {
	SQL  string
	Args []interface{}
}

// OrderBy is one ORDER BY term. Terms are emitted in sequence order;
// later terms break ties among earlier ones.
type OrderBy struct {
	Column *schema.Column
	Desc   bool
}

// Assign is one SET assignment in an UPDATE statement. Assignments are
// an ordered slice so compilation stays deterministic.
type Assign struct {
	Column *schema.Column
	Value  interface{}
}

// Select compiles a SELECT statement. An empty column list selects all
// declared columns, in declaration order, so positional row decoding
// stays deterministic.
func Select(table *schema.Table, columns []*schema.Column, cond schema.Cond, orderBy []OrderBy, limit *int64) (*Query, error) {
	cols := columns
	if len(cols) == 0 {
		cols = table.Columns()
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdentifier(c.Name())
	}

	parts := []string{
		"SELECT " + strings.Join(names, ", "),
		"FROM " + quoteIdentifier(table.Name()),
	}
	var args []interface{}

	if cond != nil {
		whereSQL, whereArgs, err := buildCond(cond)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	if len(orderBy) > 0 {
		parts = append(parts, "ORDER BY "+buildOrderBy(orderBy))
	}

	if limit != nil {
		if *limit < 0 {
			return nil, fmt.Errorf("limit %d: %w", *limit, ErrNegativeLimit)
		}
		parts = append(parts, "LIMIT ?")
		args = append(args, *limit)
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}, nil
}

// Update compiles an UPDATE statement. The SET list is emitted in
// assignment order; WHERE arguments follow the SET arguments. A nil
// condition is rejected: updating every row must be asked for
// explicitly by the caller, never implied.
func Update(table *schema.Table, assigns []Assign, cond schema.Cond) (*Query, error) {
	if len(assigns) == 0 {
		return nil, fmt.Errorf("UPDATE %q: %w", table.Name(), ErrNoAssignments)
	}
	if cond == nil {
		return nil, fmt.Errorf("UPDATE %q: %w", table.Name(), ErrMissingWhere)
	}

	setParts := make([]string, len(assigns))
	args := make([]interface{}, 0, len(assigns))
	for i, a := range assigns {
		setParts[i] = quoteIdentifier(a.Column.Name()) + " = ?"
		args = append(args, a.Value)
	}

	whereSQL, whereArgs, err := buildCond(cond)
	if err != nil {
		return nil, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quoteIdentifier(table.Name()), strings.Join(setParts, ", "), whereSQL)
	return &Query{SQL: sql, Args: args}, nil
}

// Delete compiles a DELETE statement. As with Update, a nil condition
// is rejected.
func Delete(table *schema.Table, cond schema.Cond) (*Query, error) {
	if cond == nil {
		return nil, fmt.Errorf("DELETE %q: %w", table.Name(), ErrMissingWhere)
	}

	whereSQL, args, err := buildCond(cond)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdentifier(table.Name()), whereSQL)
	return &Query{SQL: sql, Args: args}, nil
}

// Insert compiles an INSERT statement for the given columns and values.
func Insert(table *schema.Table, columns []*schema.Column, values []interface{}) (*Query, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("INSERT %q: %d columns, %d values: %w",
			table.Name(), len(columns), len(values), ErrColumnValueCount)
	}

	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdentifier(c.Name())
		placeholders[i] = "?"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(table.Name()),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "))
	return &Query{SQL: sql, Args: values}, nil
}

func buildOrderBy(orderBy []OrderBy) string {
	terms := make([]string, len(orderBy))
	for i, ob := range orderBy {
		dir := "ASC"
		if ob.Desc {
			dir = "DESC"
		}
		terms[i] = quoteIdentifier(ob.Column.Name()) + " " + dir
	}
	return strings.Join(terms, ", ")
}

// quoteIdentifier quotes an identifier for SQLite. Names reach this
// point only through schema validation, which restricts them to
// [A-Za-z0-9_].
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}
