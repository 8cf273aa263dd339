// Package database assembles parameterized PostgreSQL statements. Identifiers are
// quoted with pgx.Identifier; values always travel as positional arguments.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	Custom             ConditionType = "CUSTOM"

	defaultLimit  = -1
	defaultOffset = -1
)

var (
	reAlias       = regexp.MustCompile(`(?i)\s+AS\s+`)
	rePlaceholder = regexp.MustCompile(`\$(\d+)`)
)

// Condition is one predicate of a WHERE clause. Conditions are joined with AND.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery string
}

// WhereCond builds a "<field> <op> $n" predicate. Field may be qualified ("j.salary").
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond embeds a raw SQL predicate. Its $1..$n placeholders refer to params and
// are renumbered to fit the surrounding query. The SQL text is NOT sanitized.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: rawQuery, Value: params}
}

// Join describes a LEFT JOIN of Table (optionally aliased) on LeftCol = RightCol.
type Join struct {
	Table    string
	Alias    string
	LeftCol  string
	RightCol string
}

// ListQueryOptions describes a SELECT over one table plus optional LEFT JOINs.
type ListQueryOptions struct {
	Table      string
	TableAlias string
	Joins      []Join
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select. "expr AS alias" is supported.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithTableAlias aliases the base table, e.g. "jobs" AS "j".
func WithTableAlias(alias string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.TableAlias = alias
	}
}

// WithLeftJoin adds a LEFT JOIN. Columns may be qualified ("c.handle").
func WithLeftJoin(table, alias, leftCol, rightCol string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Joins = append(o.Joins, Join{Table: table, Alias: alias, LeftCol: leftCol, RightCol: rightCol})
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier quotes each dot-separated part: j.title → "j"."title".
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// processColumnSpec quotes "col", "t.col" and "t.col AS alias" column specs.
func processColumnSpec(columnSpec string) string {
	parts := reAlias.Split(columnSpec, 2)
	if len(parts) == 2 {
		return sanitizeQualifiedIdentifier(strings.TrimSpace(parts[0])) +
			" AS " + sanitizeIdentifier(strings.TrimSpace(parts[1]))
	}
	return sanitizeQualifiedIdentifier(strings.TrimSpace(columnSpec))
}

func buildSelectClause(options *ListQueryOptions) string {
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = processColumnSpec(col)
	}
	return "SELECT " + strings.Join(cols, ", ") + " "
}

// buildFromClause renders the base table with its alias and any LEFT JOINs.
func buildFromClause(options *ListQueryOptions) string {
	var from strings.Builder
	from.WriteString("FROM ")
	from.WriteString(sanitizeIdentifier(options.Table))
	if options.TableAlias != "" {
		from.WriteString(" AS ")
		from.WriteString(sanitizeIdentifier(options.TableAlias))
	}
	for _, j := range options.Joins {
		if j.Table == "" || j.LeftCol == "" || j.RightCol == "" {
			continue
		}
		from.WriteString(" LEFT JOIN ")
		from.WriteString(sanitizeIdentifier(j.Table))
		if j.Alias != "" {
			from.WriteString(" AS ")
			from.WriteString(sanitizeIdentifier(j.Alias))
		}
		from.WriteString(" ON ")
		from.WriteString(sanitizeQualifiedIdentifier(j.LeftCol))
		from.WriteString(" = ")
		from.WriteString(sanitizeQualifiedIdentifier(j.RightCol))
	}
	return from.String()
}

// buildPaginationAndOrderClause renders ORDER BY, LIMIT and OFFSET; direction is
// whitelisted to ASC/DESC.
func buildPaginationAndOrderClause(options *ListQueryOptions, paramCount int, args []any) (string, []any) {
	var clause strings.Builder

	if options.OrderBy != "" {
		clause.WriteString(" ORDER BY ")
		clause.WriteString(sanitizeQualifiedIdentifier(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			clause.WriteString(" ")
			clause.WriteString(dir)
		}
	}
	if options.Limit != defaultLimit {
		fmt.Fprintf(&clause, " LIMIT $%d", paramCount)
		args = append(args, options.Limit)
		paramCount++
	}
	if options.Offset != defaultOffset {
		fmt.Fprintf(&clause, " OFFSET $%d", paramCount)
		args = append(args, options.Offset)
	}
	return clause.String(), args
}

// BuildListQuery constructs a SQL query string and arguments from options.
//
// Example usage:
//
//	options := NewListQueryOptions("jobs",
//		WithTableAlias("j"),
//		WithLeftJoin("companies", "c", "c.handle", "j.company_handle"),
//		WithColumns("j.id", "j.title", "c.name AS company_name"),
//		WithCondition(WhereCond("j.salary", GreaterThanOrEqual, 50000)),
//		WithCondition(WhereCond("j.title", ILike, "%eng%")),
//		WithOrderBy("j.title", "ASC"),
//	)
//
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString(buildFromClause(options))

	whereClause, args, nextParam := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}

	tail, args := buildPaginationAndOrderClause(options, nextParam, args)
	query.WriteString(tail)

	return query.String(), args
}

func handleStandardCondition(cond Condition, field string, paramCount int) (string, []any, int) {
	return fmt.Sprintf("%s %s $%d", field, cond.Type, paramCount), []any{cond.Value}, paramCount + 1
}

func handleInCondition(cond Condition, field string, paramCount int) (string, []any, int) {
	rv := reflect.ValueOf(cond.Value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return "", nil, paramCount
	}

	placeholders := make([]string, rv.Len())
	args := make([]any, rv.Len())
	for i := range rv.Len() {
		placeholders[i] = "$" + strconv.Itoa(paramCount)
		args[i] = rv.Index(i).Interface()
		paramCount++
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")), args, paramCount
}

func handleCustomCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.rawQuery == "" {
		return "", nil, paramCount
	}
	params, _ := cond.Value.([]any)
	if len(params) == 0 {
		return cond.rawQuery, nil, paramCount
	}

	// $1 and $10 are distinct; repeated placeholders share one argument.
	var args []any
	idxMap := make(map[int]int)
	out := rePlaceholder.ReplaceAllStringFunc(cond.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := idxMap[n]; !ok {
			idxMap[n] = paramCount
			args = append(args, params[n-1])
			paramCount++
		}
		return "$" + strconv.Itoa(idxMap[n])
	})
	return out, args, paramCount
}

func processCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.Type == Custom {
		return handleCustomCondition(cond, paramCount)
	}
	if cond.Field == "" {
		return "", nil, paramCount
	}
	field := sanitizeQualifiedIdentifier(cond.Field)

	switch cond.Type {
	case In:
		return handleInCondition(cond, field, paramCount)
	case Equal, GreaterThanOrEqual, ILike:
		return handleStandardCondition(cond, field, paramCount)
	}
	return "", nil, paramCount
}

// buildWhereClause renders the AND-joined WHERE clause starting at $startParamIndex.
func buildWhereClause(inputConditions []Condition, startParamIndex int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := []any{}
	paramCount := startParamIndex

	for _, cond := range inputConditions {
		conditionStr, newArgs, next := processCondition(cond, paramCount)
		if conditionStr != "" {
			conditions = append(conditions, conditionStr)
			args = append(args, newArgs...)
			paramCount = next
		}
	}

	if len(conditions) == 0 {
		return "", args, paramCount
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, paramCount
}
