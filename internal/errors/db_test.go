package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_NilError(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_PassesAppErrorsThrough(t *testing.T) {
	nf := NotFoundf("No job: %d", 9)
	got := MapDBError(nf)
	assert.Same(t, nf, got)
}

func TestMapDBError_ContextErrors(t *testing.T) {
	assert.True(t, IsTimeout(MapDBError(context.DeadlineExceeded)))
	assert.True(t, IsCanceled(MapDBError(fmt.Errorf("query: %w", context.Canceled))))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "column name",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "name"},
			wantField: "name",
		},
		{
			name: "detail message",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: `Key (handle)=(acme) already exists.`,
			},
			wantField: "handle",
		},
		{
			name:      "constraint name",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "companies_name_key"},
			wantField: "name",
		},
		{
			name:      "ambiguous constraint",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "companies_pkey"},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			assert.True(t, IsConflict(err))
			assert.Equal(t, tt.wantField, GetField(err))
		})
	}
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantMsg string
	}{
		{
			name: "missing company on insert",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "jobs_company_handle_fkey",
				Detail:         `Key (company_handle)=(nope) is not present in table "companies".`,
			},
			wantMsg: "Cannot complete operation because the referenced Company does not exist.",
		},
		{
			name: "company still referenced",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (handle)=(acme) is still referenced from table "jobs".`,
			},
			wantMsg: "Cannot delete because this item is in use by Job.",
		},
		{
			name:    "table metadata only",
			pgErr:   &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "job_applications"},
			wantMsg: "Cannot complete operation because this item is in use by Job Applications.",
		},
		{
			name:    "constraint name only",
			pgErr:   &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "jobs_company_handle_fkey"},
			wantMsg: "Cannot complete operation because the referenced Company does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			require.True(t, IsForeignKey(err))

			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantMsg, appErr.Message)

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(err, &pgErr), "driver error stays in the chain")
		})
	}
}

func TestMapDBError_CheckAndNotNull(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "jobs_salary_check"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, "salary", GetField(err))

	err = MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "title"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, "title", GetField(err))

	err = MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation})
	assert.True(t, IsValidation(err))
	assert.Empty(t, GetField(err))
}

func TestMapDBError_InvalidInput(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})
	assert.True(t, IsValidation(err))
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})
	assert.True(t, IsInternal(err))
}

func TestMapDBError_StandardError(t *testing.T) {
	plain := errors.New("dial tcp: refused")
	assert.Same(t, plain, MapDBError(plain))
}

func TestInferFieldFromConstraint(t *testing.T) {
	assert.Equal(t, "equity", inferFieldFromConstraint("jobs_equity_check"))
	assert.Equal(t, "", inferFieldFromConstraint("jobs_lower_key"))
	assert.Equal(t, "", inferFieldFromConstraint("jobs_company_handle_fkey"))
	assert.Equal(t, "", inferFieldFromConstraint(""))
}

func TestMapTableToDomain(t *testing.T) {
	assert.Equal(t, "Job", mapTableToDomain("jobs"))
	assert.Equal(t, "Company", mapTableToDomain(" Companies "))
	assert.Equal(t, "Saved Searches", mapTableToDomain("saved_searches"))
}
