package database

import (
	"strconv"
	"strings"

	apperrors "github.com/target/jobly/internal/errors"
)

// ColumnMap translates request field names to column names, e.g.
// {"companyHandle": "company_handle"}. A nil map is valid.
type ColumnMap map[string]string

// Column returns the mapped column for field, or field itself when unmapped.
func (m ColumnMap) Column(field string) string {
	if col, ok := m[field]; ok && col != "" {
		return col
	}
	return field
}

// FieldValue is one field of a partial update. Order is significant: it fixes the
// positional parameter each value is bound to.
type FieldValue struct {
	Field string
	Value any
}

// PartialUpdate is the SET clause of an UPDATE and the values bound to it.
type PartialUpdate struct {
	// SetCols looks like `"first_name"=$1, "age"=$2`.
	SetCols string
	Values  []any
}

// NextParam returns the placeholder that follows the SET values, for the WHERE clause.
func (p PartialUpdate) NextParam() string {
	return "$" + strconv.Itoa(len(p.Values)+1)
}

// SQLForPartialUpdate builds the SET clause for an UPDATE touching only the given fields.
//
//	SQLForPartialUpdate(
//		[]FieldValue{{"firstName", "Aliya"}, {"age", 32}},
//		ColumnMap{"firstName": "first_name"},
//	)
//	// SetCols: `"first_name"=$1, "age"=$2`
//	// Values:  ["Aliya", 32]
//
// An empty field list is a validation error ("No data").
func SQLForPartialUpdate(fields []FieldValue, cols ColumnMap) (PartialUpdate, error) {
	if len(fields) == 0 {
		return PartialUpdate{}, apperrors.Validation("No data")
	}

	assignments := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, f := range fields {
		assignments[i] = sanitizeIdentifier(cols.Column(f.Field)) + "=$" + strconv.Itoa(i+1)
		values[i] = f.Value
	}

	return PartialUpdate{
		SetCols: strings.Join(assignments, ", "),
		Values:  values,
	}, nil
}
