// Package record converts between raw driver rows and typed row
// instances. Decoding is positional: raw values are zipped against the
// selected columns in order, checked against each column's declared
// type domain, and normalized so that equality over records is
// well-defined. The reverse direction builds insert and update
// payloads, filling declared defaults for unset columns.
package record

import (
	"errors"
	"fmt"

	"github.com/embersql/ember/query/sqlgen"
	"github.com/embersql/ember/schema"
)

var (
	// ErrColumnCount reports a raw row whose length does not match the
	// selected column list.
	ErrColumnCount = errors.New("raw row length mismatch")

	// ErrValueDomain reports a driver value lying outside its column's
	// declared type domain.
	ErrValueDomain = errors.New("value outside column type domain")

	// ErrMissingValue reports a column with no value, no default and no
	// nullability while building a statement payload.
	ErrMissingValue = errors.New("no value, no default")
)

// Record is one row instance: one value per column, keyed by column
// name. Values are mutable through Set, but the row's identity — the
// primary-key value captured when the record was created — is not, so
// later field mutation cannot change which row an update or delete
// targets.
type Record struct {
	table  *schema.Table
	values map[string]interface{}
	id     interface{}
	hasID  bool
}

// New creates a record for table with the given column values. Every
// value is type-checked and normalized; the primary-key value, when
// present, is captured as the record's identity.
func New(table *schema.Table, values map[string]interface{}) (*Record, error) {
	r := &Record{
		table:  table,
		values: make(map[string]interface{}, len(values)),
	}
	for name, v := range values {
		if err := r.Set(name, v); err != nil {
			return nil, err
		}
	}
	if pk, ok := table.PrimaryKey(); ok {
		if v, ok := r.values[pk.Name()]; ok {
			r.id = v
			r.hasID = true
		}
	}
	return r, nil
}

// FromRaw zips a raw driver row against the selected columns, in
// order, into a new record.
func FromRaw(table *schema.Table, cols []*schema.Column, raw []interface{}) (*Record, error) {
	if len(raw) != len(cols) {
		return nil, fmt.Errorf("table %q: %d columns, %d values: %w",
			table.Name(), len(cols), len(raw), ErrColumnCount)
	}
	r := &Record{
		table:  table,
		values: make(map[string]interface{}, len(cols)),
	}
	for i, c := range cols {
		v, err := decode(c, raw[i])
		if err != nil {
			return nil, err
		}
		r.values[c.Name()] = v
	}
	if pk, ok := table.PrimaryKey(); ok {
		if v, ok := r.values[pk.Name()]; ok {
			r.id = v
			r.hasID = true
		}
	}
	return r, nil
}

// decode checks a driver-native value against the column's type domain
// and normalizes it. A float for an Integer column is truncation-unsafe
// and rejected; integral values widen safely into Real columns; []byte
// is accepted as Text.
func decode(c *schema.Column, v interface{}) (interface{}, error) {
	if v == nil {
		if !c.IsNullable() {
			return nil, fmt.Errorf("column %q: NULL: %w", c.Name(), ErrValueDomain)
		}
		return nil, nil
	}
	switch c.Type() {
	case schema.TypeInteger:
		switch val := v.(type) {
		case int64:
			return val, nil
		case int:
			return int64(val), nil
		case int32:
			return int64(val), nil
		}
	case schema.TypeText:
		switch val := v.(type) {
		case string:
			return val, nil
		case []byte:
			return string(val), nil
		}
	case schema.TypeReal:
		switch val := v.(type) {
		case float64:
			return val, nil
		case float32:
			return float64(val), nil
		case int64:
			return float64(val), nil
		case int:
			return float64(val), nil
		}
	}
	return nil, fmt.Errorf("column %q: %T: %w", c.Name(), v, ErrValueDomain)
}

// normalize brings a caller-supplied value into the same canonical
// shape decode produces, so round-tripped records compare equal.
func normalize(c *schema.Column, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch c.Type() {
	case schema.TypeInteger:
		switch val := v.(type) {
		case int:
			return int64(val)
		case int8:
			return int64(val)
		case int16:
			return int64(val)
		case int32:
			return int64(val)
		case uint:
			return int64(val)
		case uint8:
			return int64(val)
		case uint16:
			return int64(val)
		case uint32:
			return int64(val)
		case uint64:
			return int64(val)
		}
	case schema.TypeText:
		if val, ok := v.([]byte); ok {
			return string(val)
		}
	case schema.TypeReal:
		switch val := v.(type) {
		case float32:
			return float64(val)
		case int:
			return float64(val)
		case int32:
			return float64(val)
		case int64:
			return float64(val)
		}
	}
	return v
}

// Table returns the record's table definition.
func (r *Record) Table() *schema.Table { return r.table }

// Get returns the current value of a column, and whether the column
// has a value at all.
func (r *Record) Get(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set assigns a column value after type-checking it. Identity is not
// affected: updating the primary-key field changes the value that will
// be written, not the row the record refers to.
func (r *Record) Set(name string, v interface{}) error {
	col, ok := r.table.Column(name)
	if !ok {
		return fmt.Errorf("table %q: column %q: %w", r.table.Name(), name, schema.ErrUnknownColumn)
	}
	if err := col.Check(v); err != nil {
		return err
	}
	r.values[name] = normalize(col, v)
	return nil
}

// Identity returns the primary-key value captured when the record was
// created, and whether one was captured.
func (r *Record) Identity() (interface{}, bool) {
	return r.id, r.hasID
}

// Equal reports element-wise equality over all declared columns. Two
// records of different tables are never equal.
func (r *Record) Equal(other *Record) bool {
	if other == nil || r.table != other.table {
		return false
	}
	for _, c := range r.table.Columns() {
		a, aok := r.values[c.Name()]
		b, bok := other.values[c.Name()]
		if aok != bok || a != b {
			return false
		}
	}
	return true
}

// InsertPlan resolves one value per declared column, in declaration
// order: the explicit value when one was set, else the declared
// default, else NULL for nullable columns. A column with none of these
// fails before any statement is built.
func (r *Record) InsertPlan() ([]*schema.Column, []interface{}, error) {
	cols := r.table.Columns()
	values := make([]interface{}, 0, len(cols))
	for _, c := range cols {
		v, err := r.resolve(c)
		if err != nil {
			return nil, nil, err
		}
		values = append(values, v)
	}
	return cols, values, nil
}

// Assigns resolves SET assignments for an instance update: every
// non-primary-key column in declaration order, with the same value
// resolution as InsertPlan.
func (r *Record) Assigns() ([]sqlgen.Assign, error) {
	var assigns []sqlgen.Assign
	for _, c := range r.table.Columns() {
		if c.IsPrimaryKey() {
			continue
		}
		v, err := r.resolve(c)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, sqlgen.Assign{Column: c, Value: v})
	}
	return assigns, nil
}

func (r *Record) resolve(c *schema.Column) (interface{}, error) {
	if v, ok := r.values[c.Name()]; ok {
		return v, nil
	}
	if def, ok := c.Default(); ok {
		return normalize(c, def), nil
	}
	if c.IsNullable() {
		return nil, nil
	}
	return nil, fmt.Errorf("table %q: column %q: %w", r.table.Name(), c.Name(), ErrMissingValue)
}
