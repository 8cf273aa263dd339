package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobly/internal/data/pgxutil"
	"github.com/target/jobly/internal/domain/model"
	apperrors "github.com/target/jobly/internal/errors"
)

// CompanyRepo reads companies. Jobs reference them by handle.
type CompanyRepo struct {
	DB *sql.DB
}

// NewCompanyRepo creates a new CompanyRepo.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{DB: db}
}

const companyGetByHandleQuery = `
	SELECT handle, name, description, num_employees, logo_url
	FROM companies
	WHERE handle = $1`

// GetByHandle returns the company with the given handle, or a not-found error.
func (r *CompanyRepo) GetByHandle(ctx context.Context, handle string) (*model.Company, error) {
	var c model.Company
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, companyGetByHandleQuery, handle)
		if err != nil {
			return err
		}
		defer rows.Close()
		c, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("No company: %s", handle)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}
