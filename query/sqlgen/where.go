package sqlgen

import (
	"fmt"
	"strings"

	"github.com/embersql/ember/schema"
)

// buildCond renders a condition tree depth-first, left to right,
// appending one bound argument per literal in traversal order. An
// errored tree is refused before any SQL text is produced.
func buildCond(cond schema.Cond) (string, []interface{}, error) {
	if err := cond.Err(); err != nil {
		return "", nil, err
	}
	var args []interface{}
	sql, err := renderCond(cond, "", &args)
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

// renderCond renders one node. parentOp is the combinator of the
// enclosing Binary node, or "" at the top of the tree: a Binary child
// whose combinator differs from its parent's is parenthesized so that
// AND/OR precedence is decided here, never by the engine.
func renderCond(cond schema.Cond, parentOp string, args *[]interface{}) (string, error) {
	switch n := cond.(type) {
	case *schema.Compare:
		*args = append(*args, n.Value)
		return fmt.Sprintf("%s %s ?", quoteIdentifier(n.Col.Name()), n.Op), nil

	case *schema.Like:
		*args = append(*args, n.Pattern)
		return quoteIdentifier(n.Col.Name()) + " LIKE ?", nil

	case *schema.In:
		placeholders := make([]string, len(n.Values))
		for i, v := range n.Values {
			placeholders[i] = "?"
			*args = append(*args, v)
		}
		return fmt.Sprintf("%s IN (%s)", quoteIdentifier(n.Col.Name()), strings.Join(placeholders, ", ")), nil

	case *schema.Between:
		*args = append(*args, n.Low, n.High)
		return quoteIdentifier(n.Col.Name()) + " BETWEEN ? AND ?", nil

	case *schema.Null:
		if n.Not {
			return quoteIdentifier(n.Col.Name()) + " IS NOT NULL", nil
		}
		return quoteIdentifier(n.Col.Name()) + " IS NULL", nil

	case *schema.Binary:
		left, err := renderCond(n.Left, n.Op, args)
		if err != nil {
			return "", err
		}
		right, err := renderCond(n.Right, n.Op, args)
		if err != nil {
			return "", err
		}
		sql := left + " " + n.Op + " " + right
		if parentOp != "" && parentOp != n.Op {
			sql = "(" + sql + ")"
		}
		return sql, nil

	default:
		return "", fmt.Errorf("unsupported condition node %T", cond)
	}
}
