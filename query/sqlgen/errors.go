package sqlgen

import "errors"

var (
	// ErrMissingWhere reports an UPDATE or DELETE compiled without a
	// condition. Statements that would touch every row must say so
	// explicitly through a condition; there is no silent fallback.
	ErrMissingWhere = errors.New("missing WHERE condition")

	// ErrNegativeLimit reports a negative row limit.
	ErrNegativeLimit = errors.New("negative limit")

	// ErrNoAssignments reports an UPDATE with an empty SET list.
	ErrNoAssignments = errors.New("no SET assignments")

	// ErrColumnValueCount reports an INSERT whose column and value
	// counts disagree.
	ErrColumnValueCount = errors.New("column/value count mismatch")
)
