package sqlgen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embersql/ember/schema"
)

func testTable(t *testing.T) *schema.Table {
	t.Helper()
	tbl, err := schema.New("T",
		schema.Int("foo", schema.PrimaryKey()),
		schema.Text("bar", schema.Default("x")),
	)
	require.NoError(t, err)
	return tbl
}

func TestSelectScenario(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	limit := int64(1)
	q, err := Select(tbl, nil, foo.Gt(2), []OrderBy{{Column: foo}}, &limit)
	require.NoError(t, err)
	require.Equal(t, `SELECT "foo", "bar" FROM "T" WHERE "foo" > ? ORDER BY "foo" ASC LIMIT ?`, q.SQL)
	require.Equal(t, []interface{}{2, int64(1)}, q.Args)
}

func TestSelectIsDeterministic(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	build := func() *Query {
		cond := schema.And(foo.In(1, 2, 3), bar.Like("a%"))
		q, err := Select(tbl, nil, cond, []OrderBy{{Column: bar, Desc: true}}, nil)
		require.NoError(t, err)
		return q
	}
	first, second := build(), build()
	require.Equal(t, first.SQL, second.SQL)
	require.Equal(t, first.Args, second.Args)
}

func TestLiteralsNeverAppearInSQL(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	cond := schema.And(
		schema.Or(bar.Like("%needle%"), bar.Eq("haystack")),
		foo.Between(1234, 5678),
	)
	q, err := Select(tbl, nil, cond, nil, nil)
	require.NoError(t, err)

	for _, lit := range []string{"needle", "haystack", "1234", "5678"} {
		require.NotContains(t, q.SQL, lit)
	}
	require.Equal(t, []interface{}{"%needle%", "haystack", 1234, 5678}, q.Args)
}

func TestParameterOrderFollowsTraversal(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	ab, err := Select(tbl, nil, schema.And(foo.Gt(1), bar.Eq("b")), nil, nil)
	require.NoError(t, err)
	ba, err := Select(tbl, nil, schema.And(bar.Eq("b"), foo.Gt(1)), nil, nil)
	require.NoError(t, err)

	require.Equal(t, []interface{}{1, "b"}, ab.Args)
	require.Equal(t, []interface{}{"b", 1}, ba.Args)
	require.NotEqual(t, ab.SQL, ba.SQL)
}

func TestMixedCombinatorsAreParenthesized(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	// AND under OR must keep its parentheses.
	cond := schema.Or(schema.And(foo.Gt(1), bar.Eq("b")), foo.Lt(0))
	q, err := Select(tbl, nil, cond, nil, nil)
	require.NoError(t, err)
	require.Contains(t, q.SQL, `("foo" > ? AND "bar" = ?) OR "foo" < ?`)

	// Same-combinator chains stay flat.
	chain := schema.And(schema.And(foo.Gt(1), foo.Lt(9)), foo.Ne(5))
	q, err = Select(tbl, nil, chain, nil, nil)
	require.NoError(t, err)
	require.Contains(t, q.SQL, `"foo" > ? AND "foo" < ? AND "foo" != ?`)
	require.NotContains(t, q.SQL, "(")
}

func TestOrderByKeepsEveryTerm(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	q, err := Select(tbl, nil, nil, []OrderBy{
		{Column: foo},
		{Column: bar, Desc: true},
		{Column: foo}, // duplicates emit their own term
	}, nil)
	require.NoError(t, err)
	require.Contains(t, q.SQL, `ORDER BY "foo" ASC, "bar" DESC, "foo" ASC`)
}

func TestSelectRefusesErroredCondition(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	_, err := Select(tbl, nil, foo.In(), nil, nil)
	require.ErrorIs(t, err, schema.ErrEmptyIn)
}

func TestSelectRejectsNegativeLimit(t *testing.T) {
	tbl := testTable(t)
	limit := int64(-1)
	_, err := Select(tbl, nil, nil, nil, &limit)
	require.ErrorIs(t, err, ErrNegativeLimit)
}

func TestSelectExplicitColumns(t *testing.T) {
	tbl := testTable(t)
	bar, _ := tbl.Column("bar")

	q, err := Select(tbl, []*schema.Column{bar}, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, `SELECT "bar" FROM "T"`, q.SQL)
	require.Empty(t, q.Args)
}

func TestUpdateCompilesSetThenWhere(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	q, err := Update(tbl, []Assign{{Column: bar, Value: "y"}}, foo.Eq(5))
	require.NoError(t, err)
	require.Equal(t, `UPDATE "T" SET "bar" = ? WHERE "foo" = ?`, q.SQL)
	require.Equal(t, []interface{}{"y", 5}, q.Args)
}

func TestUpdateRequiresWhereAndAssignments(t *testing.T) {
	tbl := testTable(t)
	bar, _ := tbl.Column("bar")

	_, err := Update(tbl, []Assign{{Column: bar, Value: "y"}}, nil)
	require.ErrorIs(t, err, ErrMissingWhere)

	foo, _ := tbl.Column("foo")
	_, err = Update(tbl, nil, foo.Eq(1))
	require.ErrorIs(t, err, ErrNoAssignments)
}

func TestDeleteRequiresWhere(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	_, err := Delete(tbl, nil)
	require.ErrorIs(t, err, ErrMissingWhere)

	q, err := Delete(tbl, foo.Eq(5))
	require.NoError(t, err)
	require.Equal(t, `DELETE FROM "T" WHERE "foo" = ?`, q.SQL)
	require.Equal(t, []interface{}{5}, q.Args)
}

func TestInsert(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	q, err := Insert(tbl, []*schema.Column{foo, bar}, []interface{}{5, "x"})
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "T" ("foo", "bar") VALUES (?, ?)`, q.SQL)
	require.Equal(t, []interface{}{5, "x"}, q.Args)

	_, err = Insert(tbl, []*schema.Column{foo}, []interface{}{5, "x"})
	require.ErrorIs(t, err, ErrColumnValueCount)
}

func TestBetweenAndNullRendering(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")
	bar, _ := tbl.Column("bar")

	q, err := Select(tbl, nil, schema.And(foo.Between(1, 10), bar.IsNotNull()), nil, nil)
	require.NoError(t, err)
	require.Contains(t, q.SQL, `"foo" BETWEEN ? AND ? AND "bar" IS NOT NULL`)
	require.Equal(t, []interface{}{1, 10}, q.Args)

	q, err = Select(tbl, nil, bar.IsNull(), nil, nil)
	require.NoError(t, err)
	require.Contains(t, q.SQL, `"bar" IS NULL`)
	require.Empty(t, q.Args)
}

func TestCreateTableDDL(t *testing.T) {
	tbl, err := schema.New("users",
		schema.Int("id", schema.PrimaryKey()),
		schema.Text("email", schema.Unique()),
		schema.Text("name", schema.Nullable()),
		schema.Real("score", schema.Default(0.5)),
		schema.Text("role", schema.Default("it's a user")),
	)
	require.NoError(t, err)

	ddl := CreateTable(tbl)
	require.Equal(t, `CREATE TABLE IF NOT EXISTS "users" (`+
		`"id" INTEGER PRIMARY KEY, `+
		`"email" TEXT NOT NULL UNIQUE, `+
		`"name" TEXT, `+
		`"score" REAL NOT NULL DEFAULT 0.5, `+
		`"role" TEXT NOT NULL DEFAULT 'it''s a user')`, ddl)

	require.Equal(t, `DROP TABLE IF EXISTS "users"`, DropTable(tbl))
}

func TestManyPlaceholdersStayOrdered(t *testing.T) {
	tbl := testTable(t)
	foo, _ := tbl.Column("foo")

	vals := make([]interface{}, 20)
	for i := range vals {
		vals[i] = i
	}
	q, err := Select(tbl, nil, foo.In(vals...), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 20, strings.Count(q.SQL, "?"))
	require.Equal(t, vals, q.Args)
	require.Contains(t, q.SQL, fmt.Sprintf(`"foo" IN (%s)`, strings.Repeat("?, ", 19)+"?"))
}
