package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/jobly/internal/core"
	"github.com/target/jobly/internal/domain/model"
)

// ErrCompaniesNotConfigured is returned by GetCompany when no CompanyRepository was given.
var ErrCompaniesNotConfigured = errors.New("company repository not configured")

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo      core.JobRepository     // Required: job repository
	Companies core.CompanyRepository // Optional: company lookups
	Logger    *slog.Logger           // Optional: structured logger
}

// JobService exposes job operations to callers such as the admin CLI. It adds
// mutation logging on top of the repository and passes errors through unchanged.
type JobService struct {
	repo      core.JobRepository
	companies core.CompanyRepository
	logger    *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &JobService{
		repo:      opts.Repo,
		companies: opts.Companies,
		logger:    logger.With("component", "job_service"),
	}, nil
}

// MustNewJobService constructs a new JobService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// Create creates a job.
func (s *JobService) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	job, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "job created", "job_id", job.ID, "company_handle", job.CompanyHandle)
	return job, nil
}

// FindAll lists jobs matching filters.
func (s *JobService) FindAll(ctx context.Context, filters model.JobFilters) ([]*model.JobListing, error) {
	return s.repo.FindAll(ctx, filters)
}

// Get returns a job with its company.
func (s *JobService) Get(ctx context.Context, id int) (*model.JobDetail, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a partial update to a job.
func (s *JobService) Update(ctx context.Context, id int, req model.UpdateJobRequest) (*model.Job, error) {
	job, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "job updated", "job_id", job.ID)
	return job, nil
}

// Remove deletes a job.
func (s *JobService) Remove(ctx context.Context, id int) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "job removed", "job_id", id)
	return nil
}

// GetCompany returns a company by handle.
func (s *JobService) GetCompany(ctx context.Context, handle string) (*model.Company, error) {
	if s.companies == nil {
		return nil, ErrCompaniesNotConfigured
	}
	return s.companies.GetByHandle(ctx, handle)
}
