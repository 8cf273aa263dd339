// Package core declares the ports the service layer depends on. Implementations live
// in internal/data; mocks for tests are generated into internal/mocks.
package core

import (
	"context"

	"github.com/target/jobly/internal/domain/model"
)

// JobRepository defines the interface for job data operations.
//
// Get, Update and Remove return a not-found AppError for an unknown id. Update
// returns a validation AppError when req sets no fields. Other failures are storage
// errors left intact for errors.As.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	FindAll(ctx context.Context, filters model.JobFilters) ([]*model.JobListing, error)
	Get(ctx context.Context, id int) (*model.JobDetail, error)
	Update(ctx context.Context, id int, req model.UpdateJobRequest) (*model.Job, error)
	Remove(ctx context.Context, id int) error
}

// CompanyRepository reads companies.
type CompanyRepository interface {
	GetByHandle(ctx context.Context, handle string) (*model.Company, error)
}
