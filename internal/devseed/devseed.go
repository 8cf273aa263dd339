// Package devseed fills a development database with a few companies and jobs.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/target/jobly/internal/core"
	"github.com/target/jobly/internal/data/pgxutil"
	"github.com/target/jobly/internal/domain/model"
)

// Options bundles the dependencies needed for development seeding.
type Options struct {
	DB     *sql.DB
	Jobs   core.JobRepository
	Logger *slog.Logger
}

// Summary counts the rows a Run inserted.
type Summary struct {
	CompaniesCreated int
	JobsCreated      int
}

type seedJob struct {
	title  string
	salary *int
	equity string
}

type seedCompany struct {
	company model.Company
	jobs    []seedJob
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func seedData() []seedCompany {
	return []seedCompany{
		{
			company: model.Company{
				Handle:       "anderson-arias",
				Name:         "Anderson, Arias and Morrow",
				Description:  "Logistics software for regional freight carriers.",
				NumEmployees: intPtr(245),
				LogoURL:      strPtr("/logos/logo3.png"),
			},
			jobs: []seedJob{
				{title: "Backend Engineer", salary: intPtr(135000), equity: "0.004"},
				{title: "Data Analyst", salary: intPtr(98000), equity: "0"},
			},
		},
		{
			company: model.Company{
				Handle:       "bauer-gallagher",
				Name:         "Bauer-Gallagher",
				Description:  "Payroll and benefits for small clinics.",
				NumEmployees: intPtr(862),
			},
			jobs: []seedJob{
				{title: "Engineering Manager", salary: intPtr(175000), equity: "0.01"},
				{title: "Support Specialist", salary: intPtr(61000)},
			},
		},
		{
			company: model.Company{
				Handle:      "hall-davis",
				Name:        "Hall-Davis",
				Description: "Early-stage climate analytics startup.",
			},
			jobs: []seedJob{
				{title: "Founding Engineer", equity: "0.05"},
			},
		},
	}
}

// Run inserts the sample companies that are missing and creates their jobs.
// Companies that already exist are left alone together with their jobs, so Run
// can be repeated.
func Run(ctx context.Context, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var sum Summary
	for _, sc := range seedData() {
		created, err := insertCompany(ctx, opts.DB, sc.company)
		if err != nil {
			return sum, fmt.Errorf("seed company %s: %w", sc.company.Handle, err)
		}
		if !created {
			logger.DebugContext(ctx, "company already present", "handle", sc.company.Handle)
			continue
		}
		sum.CompaniesCreated++

		for _, sj := range sc.jobs {
			if _, err := opts.Jobs.Create(ctx, sj.request(sc.company.Handle)); err != nil {
				return sum, fmt.Errorf("seed job %q: %w", sj.title, err)
			}
			sum.JobsCreated++
		}
	}

	logger.InfoContext(ctx, "development data seeded",
		"companies_created", sum.CompaniesCreated,
		"jobs_created", sum.JobsCreated,
	)
	return sum, nil
}

func (sj seedJob) request(handle string) *model.CreateJobRequest {
	req := &model.CreateJobRequest{Title: sj.title, Salary: sj.salary, CompanyHandle: handle}
	if sj.equity != "" {
		req.Equity = decimal.NewNullDecimal(decimal.RequireFromString(sj.equity))
	}
	return req
}

func insertCompany(ctx context.Context, db *sql.DB, c model.Company) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			INSERT INTO companies (handle, name, description, num_employees, logo_url)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (handle) DO NOTHING`,
			c.Handle, c.Name, c.Description, c.NumEmployees, c.LogoURL)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	return affected == 1, err
}
