//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"github.com/shopspring/decimal"
)

// Job is a row of the jobs table.
type Job struct {
	ID            int                 `json:"id"            db:"id"`
	Title         string              `json:"title"         db:"title"`
	Salary        *int                `json:"salary"        db:"salary"`
	Equity        decimal.NullDecimal `json:"equity"        db:"equity"`
	CompanyHandle string              `json:"companyHandle" db:"company_handle"`
}

// JobListing is a job as returned by a listing: the job row plus the owning
// company's name, which is nil when the company row is missing.
type JobListing struct {
	Job
	CompanyName *string `json:"companyName" db:"company_name"`
}

// JobDetail is a single job with its company nested in place of the handle.
type JobDetail struct {
	ID      int                 `json:"id"`
	Title   string              `json:"title"`
	Salary  *int                `json:"salary"`
	Equity  decimal.NullDecimal `json:"equity"`
	Company *Company            `json:"company"`
}

// NewJobDetail drops the flat company handle of j and nests c instead.
func NewJobDetail(j Job, c *Company) *JobDetail {
	return &JobDetail{
		ID:      j.ID,
		Title:   j.Title,
		Salary:  j.Salary,
		Equity:  j.Equity,
		Company: c,
	}
}

// CreateJobRequest holds the columns of a new job. The id is generated by the database.
type CreateJobRequest struct {
	Title         string              `json:"title"`
	Salary        *int                `json:"salary,omitempty"`
	Equity        decimal.NullDecimal `json:"equity"`
	CompanyHandle string              `json:"companyHandle"`
}

// UpdateJobRequest holds the job fields that may change. Unset fields are left as-is.
// Salary and equity may be set to null; the title column is NOT NULL, so a nil Title
// means "unchanged". The id and company handle are not updatable.
type UpdateJobRequest struct {
	Title  *string                   `json:"title,omitempty"`
	Salary Optional[int]             `json:"salary,omitzero"`
	Equity Optional[decimal.Decimal] `json:"equity,omitzero"`
}

// HasUpdates reports whether any field is set in UpdateJobRequest.
func (r *UpdateJobRequest) HasUpdates() bool {
	return r != nil && (r.Title != nil || r.Salary.Set || r.Equity.Set)
}

// JobFilters narrows a job listing. Filters combine with AND; nil means no constraint.
// Notes:
// - MinSalary is inclusive.
// - HasEquity only constrains when true (equity > 0).
// - Title is a case-insensitive substring match; % and _ in it act as wildcards.
// - Limit and Offset page through the title ordering; nil or negative means no paging.
type JobFilters struct {
	MinSalary *int    `json:"minSalary,omitempty"`
	HasEquity *bool   `json:"hasEquity,omitempty"`
	Title     *string `json:"title,omitempty"`
	Limit     *int    `json:"limit,omitempty"`
	Offset    *int    `json:"offset,omitempty"`
}
