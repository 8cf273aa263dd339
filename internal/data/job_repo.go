package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobly/internal/data/database"
	"github.com/target/jobly/internal/data/pgxutil"
	"github.com/target/jobly/internal/domain/model"
	apperrors "github.com/target/jobly/internal/errors"
)

// JobRepo provides database operations for jobs.
//
// Storage errors are returned as the driver reported them (wrapped, never replaced),
// so callers can still reach *pgconn.PgError with errors.As.
type JobRepo struct {
	DB        *sql.DB
	companies *CompanyRepo
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, companies: NewCompanyRepo(db)}
}

const (
	jobReturning = `RETURNING id, title, salary, equity, company_handle`

	jobInsertQuery = `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		` + jobReturning

	jobGetQuery = `
		SELECT id, title, salary, equity, company_handle
		FROM jobs
		WHERE id = $1`

	jobDeleteQuery = `DELETE FROM jobs WHERE id = $1`
)

// jobListColumns are the columns of a listing; company_name comes from the join.
func jobListColumns() []string {
	return []string{
		"j.id",
		"j.title",
		"j.salary",
		"j.equity",
		"j.company_handle",
		"c.name AS company_name",
	}
}

// Create inserts a job and returns the stored row. The company must exist; a missing
// one surfaces as the driver's foreign-key violation.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, ErrCreateJobRequired
	}

	var out model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobInsertQuery, req.Title, req.Salary, req.Equity, req.CompanyHandle)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindAll lists jobs matching filters, ordered by title. It never returns nil on success.
func (r *JobRepo) FindAll(ctx context.Context, filters model.JobFilters) ([]*model.JobListing, error) {
	query, args := database.BuildListQuery(buildJobQueryOptions(filters))

	var rowsOut []model.JobListing
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobListing])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	res := make([]*model.JobListing, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// buildJobQueryOptions turns filters into AND-ed conditions over jobs j LEFT JOIN companies c.
func buildJobQueryOptions(filters model.JobFilters) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithTableAlias("j"),
		database.WithLeftJoin("companies", "c", "c.handle", "j.company_handle"),
		database.WithColumns(jobListColumns()...),
	}

	if filters.MinSalary != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("j.salary", database.GreaterThanOrEqual, *filters.MinSalary),
		))
	}
	if filters.HasEquity != nil && *filters.HasEquity {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond(`"j"."equity" > 0`),
		))
	}
	if filters.Title != nil {
		// % and _ in the term are left as wildcards.
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("j.title", database.ILike, "%"+*filters.Title+"%"),
		))
	}

	queryOpts = append(queryOpts, database.WithOrderBy("j.title", "ASC"))
	if filters.Limit != nil {
		queryOpts = append(queryOpts, database.WithLimit(*filters.Limit))
	}
	if filters.Offset != nil {
		queryOpts = append(queryOpts, database.WithOffset(*filters.Offset))
	}
	return database.NewListQueryOptions("jobs", queryOpts...)
}

// Get returns a job with its company nested. The company is fetched in a second
// round-trip; it is nil only if the row vanished in between.
func (r *JobRepo) Get(ctx context.Context, id int) (*model.JobDetail, error) {
	var job model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobGetQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		job, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	company, err := r.companies.GetByHandle(ctx, job.CompanyHandle)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	return model.NewJobDetail(job, company), nil
}

// jobUpdateFields lists the set fields of req in a fixed order: title, salary, equity.
// Salary and equity set to null are bound as SQL NULL.
func jobUpdateFields(req model.UpdateJobRequest) []database.FieldValue {
	fields := make([]database.FieldValue, 0, 3)
	if req.Title != nil {
		fields = append(fields, database.FieldValue{Field: "title", Value: *req.Title})
	}
	if req.Salary.Set {
		fields = append(fields, database.FieldValue{Field: "salary", Value: optionalValue(req.Salary)})
	}
	if req.Equity.Set {
		fields = append(fields, database.FieldValue{Field: "equity", Value: optionalValue(req.Equity)})
	}
	return fields
}

func optionalValue[T any](o model.Optional[T]) any {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}

// Update changes the set fields of a job and returns the stored row. An empty request
// is rejected with a validation error before any statement is issued.
func (r *JobRepo) Update(ctx context.Context, id int, req model.UpdateJobRequest) (*model.Job, error) {
	set, err := database.SQLForPartialUpdate(jobUpdateFields(req), nil)
	if err != nil {
		return nil, err
	}
	query := "UPDATE jobs SET " + set.SetCols + " WHERE id = " + set.NextParam() + " " + jobReturning
	args := append(set.Values, id)

	var out model.Job
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobNotFound(id)
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return &out, nil
}

// Remove deletes a job, or returns a not-found error when no row matched.
func (r *JobRepo) Remove(ctx context.Context, id int) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, jobDeleteQuery, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if affected == 0 {
		return jobNotFound(id)
	}
	return nil
}

func jobNotFound(id int) error {
	return apperrors.NotFoundf("No job: %d", id)
}
