package schema

import "errors"

var (
	// ErrInvalidIdentifier reports a table or column name containing
	// characters outside [A-Za-z0-9_].
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrDuplicateColumn reports two columns declared with the same name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrMultiplePrimaryKeys reports a table declared with more than one
	// primary-key column.
	ErrMultiplePrimaryKeys = errors.New("multiple primary key columns")

	// ErrTypeMismatch reports a literal incompatible with the column's
	// declared type.
	ErrTypeMismatch = errors.New("literal type mismatch")

	// ErrNilLiteral reports a nil literal where a value is required.
	ErrNilLiteral = errors.New("nil literal")

	// ErrNotNullable reports a nil value assigned to a NOT NULL column.
	ErrNotNullable = errors.New("column is not nullable")

	// ErrEmptyIn reports an IN condition built from an empty value set.
	ErrEmptyIn = errors.New("empty IN set")

	// ErrUnknownColumn reports a column that does not belong to the table.
	ErrUnknownColumn = errors.New("unknown column")
)
