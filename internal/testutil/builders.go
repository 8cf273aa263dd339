package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/target/jobly/internal/domain/model"
)

// UniqueHandle returns a lowercase company handle that fits VARCHAR(25).
func UniqueHandle(prefix string) string {
	return strings.ToLower(prefix) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// CompanyBuilder provides a fluent interface for inserting company fixtures.
type CompanyBuilder struct {
	c model.Company
}

// NewCompany starts a company fixture with a unique handle and name.
func NewCompany() *CompanyBuilder {
	h := UniqueHandle("c")
	return &CompanyBuilder{c: model.Company{
		Handle:      h,
		Name:        "Company " + h,
		Description: "Desc " + h,
	}}
}

// WithHandle sets the handle.
func (b *CompanyBuilder) WithHandle(handle string) *CompanyBuilder {
	b.c.Handle = handle
	return b
}

// WithName sets the name.
func (b *CompanyBuilder) WithName(name string) *CompanyBuilder {
	b.c.Name = name
	return b
}

// WithNumEmployees sets the employee count.
func (b *CompanyBuilder) WithNumEmployees(n int) *CompanyBuilder {
	b.c.NumEmployees = &n
	return b
}

// WithLogoURL sets the logo URL.
func (b *CompanyBuilder) WithLogoURL(u string) *CompanyBuilder {
	b.c.LogoURL = &u
	return b
}

// Build returns the company without touching the database.
func (b *CompanyBuilder) Build() model.Company {
	return b.c
}

// Insert writes the company and fails the test on error.
func (b *CompanyBuilder) Insert(t TestingTB, db *sql.DB) model.Company {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO companies (handle, name, description, num_employees, logo_url)
		VALUES ($1, $2, $3, $4, $5)`,
		b.c.Handle, b.c.Name, b.c.Description, b.c.NumEmployees, b.c.LogoURL)
	if err != nil {
		t.Fatalf("Failed to insert company %s: %v", b.c.Handle, err)
	}
	return b.c
}

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder for the given company.
func NewJobRequest(companyHandle string) *JobRequestBuilder {
	return &JobRequestBuilder{req: model.CreateJobRequest{
		Title:         "Job " + uuid.NewString()[:8],
		CompanyHandle: companyHandle,
	}}
}

// WithTitle sets the title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithSalary sets the salary.
func (b *JobRequestBuilder) WithSalary(salary int) *JobRequestBuilder {
	b.req.Salary = &salary
	return b
}

// WithEquity sets the equity from its decimal string form, e.g. "0.05".
func (b *JobRequestBuilder) WithEquity(equity string) *JobRequestBuilder {
	b.req.Equity = NullDecimal(equity)
	return b
}

// Build returns the configured request.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	req := b.req
	return &req
}
