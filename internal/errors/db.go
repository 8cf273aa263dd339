package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Patterns for PgError.Detail messages.
var (
	// "Key (handle)=(acme) already exists."
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "Key (handle)=(acme) is still referenced from table "jobs"."
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// "Key (company_handle)=(nope) is not present in table "companies"."
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// MapDBError turns a driver error into an AppError suitable for showing to an operator:
//   - context deadline/cancel → Timeout/Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violation → Conflict
//   - foreign key violation → ForeignKey
//   - check / not-null violation → Validation
//
// AppErrors and unrecognised errors are returned unchanged. The data layer never calls
// this; it is meant for the edge that renders errors.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return mapForeignKeyViolation(pgErr)
	case pgerrcode.CheckViolation:
		return mapCheckViolation(pgErr)
	case pgerrcode.NotNullViolation:
		return mapNotNullViolation(pgErr)
	case pgerrcode.InvalidTextRepresentation, pgerrcode.NumericValueOutOfRange:
		return &AppError{Code: ErrCodeValidation, Message: "Invalid value. Please check your input.", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}

func mapUniqueViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}
	if field == "" {
		field = inferFieldFromConstraint(pgErr.ConstraintName)
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   pgErr,
	}
}

func mapForeignKeyViolation(pgErr *pgconn.PgError) error {
	var message string

	if pgErr.Detail != "" {
		if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot delete because this item is in use by " + mapTableToDomain(m[1]) + "."
		} else if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot complete operation because the referenced " + mapTableToDomain(m[1]) + " does not exist."
		}
	}

	if message == "" && pgErr.TableName != "" {
		message = "Cannot complete operation because this item is in use by " + mapTableToDomain(pgErr.TableName) + "."
	}

	if message == "" {
		message = inferForeignKeyMessage(pgErr.ConstraintName)
	}

	return &AppError{Code: ErrCodeForeignKey, Message: message, Cause: pgErr}
}

func mapNotNullViolation(pgErr *pgconn.PgError) error {
	if pgErr.ColumnName != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Required field is missing. Please check your input.",
		Cause:   pgErr,
	}
}

// mapCheckViolation covers the jobs_salary_check / jobs_equity_check style constraints.
func mapCheckViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" {
		field = inferFieldFromConstraint(pgErr.ConstraintName)
	}
	if field != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field has an invalid value.",
			Field:   field,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Invalid data. Please check your input.",
		Cause:   pgErr,
	}
}

// inferFieldFromConstraint pulls the column out of "<table>_<column>_<suffix>" names,
// e.g. "jobs_salary_check" → "salary". Multi-column or expression constraints yield "".
func inferFieldFromConstraint(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	parts := strings.Split(constraintName, "_")
	if len(parts) != 3 {
		return ""
	}
	if isFunctionName(parts[1]) {
		return ""
	}
	return parts[1]
}

func mapTableToDomain(tableName string) string {
	tableName = strings.ToLower(strings.TrimSpace(tableName))

	domainMap := map[string]string{
		"jobs":      "Job",
		"companies": "Company",
	}
	if domainName, ok := domainMap[tableName]; ok {
		return domainName
	}

	return capitalizeWords(strings.ReplaceAll(tableName, "_", " "))
}

func capitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if len(word) > 0 && word[0] >= 'a' && word[0] <= 'z' {
			words[i] = string(word[0]-32) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func inferForeignKeyMessage(constraintName string) string {
	constraintName = strings.ToLower(constraintName)

	if strings.Contains(constraintName, "company") {
		return "Cannot complete operation because the referenced Company does not exist."
	}
	if strings.Contains(constraintName, "job") {
		return "Cannot delete because it is in use by a Job."
	}
	return "Cannot complete operation because this item is in use."
}

func isFunctionName(s string) bool {
	switch strings.ToLower(s) {
	case "lower", "upper", "trim", "ltrim", "rtrim", "md5", "coalesce":
		return true
	}
	return false
}
