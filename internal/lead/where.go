package lead

import (
	"fmt"
	"strings"
)

// whereBuilder assembles a parameterized WHERE clause. Conditions are
// ANDed in the order they are added; empty filter values are skipped so
// callers can pass query params straight through.
type whereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{argIndex: 1}
}

// Add appends an equality condition on a column. A blank value means the
// filter was not provided and is ignored.
func (wb *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", column, wb.argIndex))
	wb.args = append(wb.args, value)
	wb.argIndex++
}

// AddSearch appends a case-insensitive substring match ORed across the
// given columns, ANDed with the other conditions as a single group.
func (wb *whereBuilder) AddSearch(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, wb.argIndex)
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
	wb.args = append(wb.args, "%"+term+"%")
	wb.argIndex++
}

// Build returns the WHERE clause (with leading space, or empty when no
// conditions were added) and the argument slice.
func (wb *whereBuilder) Build() (string, []interface{}) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextArgIndex returns the placeholder index the next argument would use.
// Callers appending LIMIT/OFFSET use this to continue the numbering.
func (wb *whereBuilder) NextArgIndex() int {
	return wb.argIndex
}
