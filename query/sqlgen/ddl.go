package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/embersql/ember/schema"
)

// CreateTable renders CREATE TABLE IF NOT EXISTS DDL for a table
// definition. DDL carries no user-supplied values at statement time:
// identifiers are schema-validated and defaults were type-checked at
// declaration, so defaults are rendered as SQL literals here.
func CreateTable(table *schema.Table) string {
	cols := table.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = columnDef(c)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdentifier(table.Name()), strings.Join(defs, ", "))
}

// DropTable renders DROP TABLE IF EXISTS DDL.
func DropTable(table *schema.Table) string {
	return "DROP TABLE IF EXISTS " + quoteIdentifier(table.Name())
}

func columnDef(c *schema.Column) string {
	var b strings.Builder
	b.WriteString(quoteIdentifier(c.Name()))
	b.WriteString(" ")
	b.WriteString(c.Type().String())
	if c.IsPrimaryKey() {
		b.WriteString(" PRIMARY KEY")
	} else if !c.IsNullable() {
		b.WriteString(" NOT NULL")
	}
	if c.IsUnique() && !c.IsPrimaryKey() {
		b.WriteString(" UNIQUE")
	}
	if def, ok := c.Default(); ok {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(def))
	}
	return b.String()
}

// defaultLiteral renders a declared default as a SQL literal. Strings
// are single-quoted with embedded quotes doubled.
func defaultLiteral(v interface{}) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%d", v)
	}
}
