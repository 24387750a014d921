package schema

import "fmt"

// Cond is one node of an immutable condition tree. Nodes are built
// bottom-up from column methods and combined with And/Or. Building a
// node never touches the database; it only validates types and
// arities, and any validation failure is recorded on the node and
// reported by Err before compilation.
type Cond interface {
	// Err reports a construction error recorded on this node or on any
	// node beneath it.
	Err() error

	isCond()
}

// CompareOp is a simple comparison operator.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// Compare is a simple comparison against a literal.
type Compare struct {
	Col   *Column
	Op    CompareOp
	Value interface{}

	err error
}

func (n *Compare) Err() error { return n.err }
func (n *Compare) isCond()    {}

// Like matches a column against a pattern. The pattern is passed to
// the engine verbatim; its wildcard semantics are the engine's.
type Like struct {
	Col     *Column
	Pattern string
}

func (n *Like) Err() error { return nil }
func (n *Like) isCond()    {}

// In tests membership in a non-empty literal set.
type In struct {
	Col    *Column
	Values []interface{}

	err error
}

func (n *In) Err() error { return n.err }
func (n *In) isCond()    {}

// Between is an inclusive range test. Whether low exceeds high is not
// checked here; BETWEEN semantics belong to the engine.
type Between struct {
	Col  *Column
	Low  interface{}
	High interface{}

	err error
}

func (n *Between) Err() error { return n.err }
func (n *Between) isCond()    {}

// Null is an IS NULL test, inverted when Not is set.
type Null struct {
	Col *Column
	Not bool
}

func (n *Null) Err() error { return nil }
func (n *Null) isCond()    {}

// Binary combines two conditions with AND or OR.
type Binary struct {
	Op    string // "AND" or "OR"
	Left  Cond
	Right Cond

	err error
}

func (n *Binary) Err() error {
	if n.err != nil {
		return n.err
	}
	if err := n.Left.Err(); err != nil {
		return err
	}
	return n.Right.Err()
}

func (n *Binary) isCond() {}

// And combines two conditions so both must hold.
func And(left, right Cond) Cond {
	return combine("AND", left, right)
}

// Or combines two conditions so either may hold.
func Or(left, right Cond) Cond {
	return combine("OR", left, right)
}

func combine(op string, left, right Cond) Cond {
	n := &Binary{Op: op, Left: left, Right: right}
	if left == nil || right == nil {
		n.err = fmt.Errorf("%s: %w", op, ErrNilLiteral)
		if left == nil {
			n.Left = &Null{}
		}
		if right == nil {
			n.Right = &Null{}
		}
	}
	return n
}

func (c *Column) compare(op CompareOp, v interface{}) Cond {
	n := &Compare{Col: c, Op: op, Value: v}
	if v == nil {
		// "= NULL" is always false under SQL three-valued logic; null
		// checks must go through IsNull/IsNotNull instead.
		n.err = fmt.Errorf("column %q: comparison against nil, use IsNull or IsNotNull: %w", c.name, ErrNilLiteral)
	} else if err := checkLiteral(c.typ, v); err != nil {
		n.err = fmt.Errorf("column %q: %w", c.name, err)
	}
	return n
}

// Eq builds an equality condition.
func (c *Column) Eq(v interface{}) Cond { return c.compare(OpEq, v) }

// Ne builds a not-equal condition.
func (c *Column) Ne(v interface{}) Cond { return c.compare(OpNe, v) }

// Lt builds a less-than condition.
func (c *Column) Lt(v interface{}) Cond { return c.compare(OpLt, v) }

// Le builds a less-or-equal condition.
func (c *Column) Le(v interface{}) Cond { return c.compare(OpLe, v) }

// Gt builds a greater-than condition.
func (c *Column) Gt(v interface{}) Cond { return c.compare(OpGt, v) }

// Ge builds a greater-or-equal condition.
func (c *Column) Ge(v interface{}) Cond { return c.compare(OpGe, v) }

// Like builds a pattern-match condition.
func (c *Column) Like(pattern string) Cond {
	return &Like{Col: c, Pattern: pattern}
}

// In builds a membership condition over a non-empty literal set.
func (c *Column) In(values ...interface{}) Cond {
	n := &In{Col: c, Values: values}
	if len(values) == 0 {
		n.err = fmt.Errorf("column %q: %w", c.name, ErrEmptyIn)
		return n
	}
	for _, v := range values {
		if v == nil {
			n.err = fmt.Errorf("column %q: %w", c.name, ErrNilLiteral)
			return n
		}
		if err := checkLiteral(c.typ, v); err != nil {
			n.err = fmt.Errorf("column %q: %w", c.name, err)
			return n
		}
	}
	return n
}

// Between builds an inclusive range condition.
func (c *Column) Between(low, high interface{}) Cond {
	n := &Between{Col: c, Low: low, High: high}
	for _, v := range []interface{}{low, high} {
		if v == nil {
			n.err = fmt.Errorf("column %q: %w", c.name, ErrNilLiteral)
			return n
		}
		if err := checkLiteral(c.typ, v); err != nil {
			n.err = fmt.Errorf("column %q: %w", c.name, err)
			return n
		}
	}
	return n
}

// IsNull builds an IS NULL condition.
func (c *Column) IsNull() Cond {
	return &Null{Col: c}
}

// IsNotNull builds an IS NOT NULL condition.
func (c *Column) IsNotNull() Cond {
	return &Null{Col: c, Not: true}
}
