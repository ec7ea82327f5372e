package finder

import (
	"strconv"
	"strings"
)

// Query is a small SELECT builder. Conditions take "?" placeholders which
// SQL renumbers into postgres "$n" form in the order they were added.
type Query struct {
	columns []string
	from    string
	joins   []string
	where   []string
	args    []any
	order   string
	limit   int
	offset  int
}

// Select starts a query selecting the given columns
func Select(columns ...string) *Query {
	return &Query{columns: append([]string(nil), columns...)}
}

// Select appends columns
func (q *Query) Select(columns ...string) *Query {
	q.columns = append(q.columns, columns...)
	return q
}

// From sets the source table, alias included ("jdm_articles AS a")
func (q *Query) From(table string) *Query {
	q.from = table
	return q
}

// LeftJoin adds a LEFT JOIN clause ("jdm_languages AS b ON a.language = b.code")
func (q *Query) LeftJoin(clause string) *Query {
	q.joins = append(q.joins, "LEFT JOIN "+clause)
	return q
}

// Where adds a condition ANDed with the existing ones
func (q *Query) Where(cond string, args ...any) *Query {
	q.where = append(q.where, cond)
	q.args = append(q.args, args...)
	return q
}

// OrderBy sets the ORDER BY expression
func (q *Query) OrderBy(expr string) *Query {
	q.order = expr
	return q
}

// Limit sets LIMIT/OFFSET; a zero limit means unbounded
func (q *Query) Limit(limit, offset int) *Query {
	q.limit = limit
	q.offset = offset
	return q
}

// Clone returns an independent copy that can be narrowed further
func (q *Query) Clone() *Query {
	c := *q
	c.columns = append([]string(nil), q.columns...)
	c.joins = append([]string(nil), q.joins...)
	c.where = append([]string(nil), q.where...)
	c.args = append([]any(nil), q.args...)
	return &c
}

// Merge adds the conditions of other to a copy of q
func (q *Query) Merge(other *Query) *Query {
	c := q.Clone()
	if other == nil {
		return c
	}
	c.where = append(c.where, other.where...)
	c.args = append(c.args, other.args...)
	return c
}

// CountQuery returns a COUNT(*) over the same source and conditions
func (q *Query) CountQuery() *Query {
	c := q.Clone()
	c.columns = []string{"COUNT(*)"}
	c.order = ""
	c.limit, c.offset = 0, 0
	return c
}

// SQL renders the statement and returns it with its arguments
func (q *Query) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.columns, ", "))
	if q.from != "" {
		b.WriteString(" FROM ")
		b.WriteString(q.from)
	}
	for _, j := range q.joins {
		b.WriteByte(' ')
		b.WriteString(j)
	}

	n := 0
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		for i, cond := range q.where {
			if i > 0 {
				b.WriteString(" AND ")
			}
			for _, r := range cond {
				if r == '?' {
					n++
					b.WriteByte('$')
					b.WriteString(strconv.Itoa(n))
					continue
				}
				b.WriteRune(r)
			}
		}
	}
	if q.order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.order)
	}
	if q.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.limit))
		if q.offset > 0 {
			b.WriteString(" OFFSET ")
			b.WriteString(strconv.Itoa(q.offset))
		}
	}
	return b.String(), q.args
}
