// Package schema defines table and column metadata for ember models.
//
// A Table is declared once, up front, from a set of Column descriptors.
// Columns double as the entry point for query conditions: their
// comparison and membership methods return immutable condition nodes
// that the query compiler turns into parameterized SQL.
package schema

import (
	"fmt"
	"regexp"
)

// Type is the semantic SQL type of a column.
type Type int

const (
	TypeInteger Type = iota
	TypeText
	TypeReal
)

// String returns the SQLite type name.
func (t Type) String() string {
	switch t {
	case TypeText:
		return "TEXT"
	case TypeReal:
		return "REAL"
	default:
		return "INTEGER"
	}
}

// Column describes one table attribute: its type, nullability, default
// value and key flags. A Column is created at declaration time and is
// immutable afterwards.
type Column struct {
	name       string
	typ        Type
	nullable   bool
	def        interface{}
	hasDefault bool
	primaryKey bool
	unique     bool
}

// Option configures a column at declaration time.
type Option func(*Column)

// Nullable marks the column as accepting NULL.
func Nullable() Option {
	return func(c *Column) { c.nullable = true }
}

// Default sets the column's declared default value.
func Default(v interface{}) Option {
	return func(c *Column) {
		c.def = v
		c.hasDefault = true
	}
}

// PrimaryKey marks the column as the table's primary key.
func PrimaryKey() Option {
	return func(c *Column) { c.primaryKey = true }
}

// Unique marks the column as UNIQUE.
func Unique() Option {
	return func(c *Column) { c.unique = true }
}

func newColumn(name string, typ Type, opts []Option) *Column {
	c := &Column{name: name, typ: typ}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Int declares an INTEGER column.
func Int(name string, opts ...Option) *Column {
	return newColumn(name, TypeInteger, opts)
}

// Text declares a TEXT column.
func Text(name string, opts ...Option) *Column {
	return newColumn(name, TypeText, opts)
}

// Real declares a REAL column.
func Real(name string, opts ...Option) *Column {
	return newColumn(name, TypeReal, opts)
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column's semantic type.
func (c *Column) Type() Type { return c.typ }

// IsNullable reports whether the column accepts NULL.
func (c *Column) IsNullable() bool { return c.nullable }

// Default returns the declared default value, if any.
func (c *Column) Default() (interface{}, bool) { return c.def, c.hasDefault }

// IsPrimaryKey reports whether the column is the table's primary key.
func (c *Column) IsPrimaryKey() bool { return c.primaryKey }

// IsUnique reports whether the column is declared UNIQUE.
func (c *Column) IsUnique() bool { return c.unique }

// Check validates that v can be stored in the column. A nil value is
// accepted only for nullable columns; otherwise v must lie inside the
// column's declared type domain.
func (c *Column) Check(v interface{}) error {
	if v == nil {
		if c.nullable {
			return nil
		}
		return fmt.Errorf("column %q: %w", c.name, ErrNotNullable)
	}
	if err := checkLiteral(c.typ, v); err != nil {
		return fmt.Errorf("column %q: %w", c.name, err)
	}
	return nil
}

// checkLiteral validates a non-nil literal against a column type.
// Integer columns reject floating-point literals: the truncation is
// lossy and never applied silently.
func checkLiteral(t Type, v interface{}) error {
	switch t {
	case TypeInteger:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return nil
		}
	case TypeText:
		switch v.(type) {
		case string, []byte:
			return nil
		}
	case TypeReal:
		switch v.(type) {
		case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return nil
		}
	}
	return fmt.Errorf("%w: %T is not a %s", ErrTypeMismatch, v, t)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table is an immutable table definition: a name plus its columns in
// declaration order.
type Table struct {
	name    string
	columns []*Column
	byName  map[string]*Column
	pk      *Column
}

// New creates a table definition and validates it: identifiers must be
// ASCII-safe, column names unique, at most one column may be the
// primary key, and declared defaults must match their column's type.
func New(name string, cols ...*Column) (*Table, error) {
	if !identPattern.MatchString(name) {
		return nil, fmt.Errorf("table %q: %w", name, ErrInvalidIdentifier)
	}
	t := &Table{
		name:   name,
		byName: make(map[string]*Column, len(cols)),
	}
	for _, c := range cols {
		if !identPattern.MatchString(c.name) {
			return nil, fmt.Errorf("table %q: column %q: %w", name, c.name, ErrInvalidIdentifier)
		}
		if _, ok := t.byName[c.name]; ok {
			return nil, fmt.Errorf("table %q: column %q: %w", name, c.name, ErrDuplicateColumn)
		}
		if c.primaryKey {
			if t.pk != nil {
				return nil, fmt.Errorf("table %q: columns %q and %q: %w", name, t.pk.name, c.name, ErrMultiplePrimaryKeys)
			}
			t.pk = c
		}
		if c.hasDefault {
			if err := c.Check(c.def); err != nil {
				return nil, fmt.Errorf("table %q: default for %w", name, err)
			}
		}
		t.columns = append(t.columns, c)
		t.byName[c.name] = c
	}
	return t, nil
}

// MustNew is like New but panics on error. It is intended for
// package-level table declarations.
func MustNew(name string, cols ...*Column) *Table {
	t, err := New(name, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns in declaration order. The returned slice
// must not be modified.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// PrimaryKey returns the primary-key column, if one was declared.
func (t *Table) PrimaryKey() (*Column, bool) {
	return t.pk, t.pk != nil
}

// Has reports whether c is one of the table's declared columns.
func (t *Table) Has(c *Column) bool {
	return c != nil && t.byName[c.name] == c
}
