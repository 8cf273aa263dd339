package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobly/internal/domain/model"
	apperrors "github.com/target/jobly/internal/errors"
)

type fakeJobService struct {
	created  *model.CreateJobRequest
	filters  model.JobFilters
	updateID int
	update   model.UpdateJobRequest
	removed  int
	err      error
}

func (f *fakeJobService) Create(_ context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: 1, Title: req.Title, Salary: req.Salary, Equity: req.Equity, CompanyHandle: req.CompanyHandle}, nil
}

func (f *fakeJobService) FindAll(_ context.Context, filters model.JobFilters) ([]*model.JobListing, error) {
	f.filters = filters
	name := "C1"
	salary := 100
	return []*model.JobListing{
		{Job: model.Job{ID: 1, Title: "Engineer", Salary: &salary, Equity: decimal.NewNullDecimal(decimal.RequireFromString("0.1")), CompanyHandle: "c1"}, CompanyName: &name},
		{Job: model.Job{ID: 2, Title: "Orphan", CompanyHandle: "gone"}},
	}, f.err
}

func (f *fakeJobService) Get(_ context.Context, id int) (*model.JobDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.JobDetail{ID: id, Title: "T", Company: &model.Company{Handle: "c1", Name: "C1"}}, nil
}

func (f *fakeJobService) Update(_ context.Context, id int, req model.UpdateJobRequest) (*model.Job, error) {
	f.updateID, f.update = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: id, Title: "T"}, nil
}

func (f *fakeJobService) Remove(_ context.Context, id int) error {
	f.removed = id
	return f.err
}

func (f *fakeJobService) GetCompany(_ context.Context, handle string) (*model.Company, error) {
	return &model.Company{Handle: handle, Name: "C1"}, f.err
}

func newTestContext(svc *fakeJobService) (*commandContext, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandContext{
		Ctx: context.Background(),
		Out: &out,
		jobs: func() (jobService, func(), error) {
			return svc, nil, nil
		},
	}, &out
}

func TestParseCreateJobFlags(t *testing.T) {
	req, err := parseCreateJobFlags([]string{"-title", "Engineer", "-company", "c1", "-salary", "100000", "-equity", "0.01"})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", req.Title)
	assert.Equal(t, "c1", req.CompanyHandle)
	assert.Equal(t, 100000, *req.Salary)
	assert.True(t, req.Equity.Valid)
	assert.Equal(t, "0.01", req.Equity.Decimal.String())

	req, err = parseCreateJobFlags([]string{"-title", "Engineer", "-company", "c1"})
	require.NoError(t, err)
	assert.Nil(t, req.Salary)
	assert.False(t, req.Equity.Valid)
}

func TestParseCreateJobFlags_Errors(t *testing.T) {
	tests := map[string][]string{
		"missing title":   {"-company", "c1"},
		"missing company": {"-title", "x"},
		"bad salary":      {"-title", "x", "-company", "c1", "-salary", "lots"},
		"bad equity":      {"-title", "x", "-company", "c1", "-equity", "half"},
		"stray argument":  {"-title", "x", "-company", "c1", "extra"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseCreateJobFlags(args)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(err))
		})
	}
}

func TestParseListJobsFlags(t *testing.T) {
	opts, err := parseListJobsFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, opts.Filters.MinSalary)
	assert.Nil(t, opts.Filters.HasEquity)
	assert.Nil(t, opts.Filters.Title)
	assert.Nil(t, opts.Filters.Limit)
	assert.False(t, opts.Table)

	opts, err = parseListJobsFlags([]string{"-min-salary", "50000", "-has-equity", "-title", "eng", "-table"})
	require.NoError(t, err)
	assert.Equal(t, 50000, *opts.Filters.MinSalary)
	assert.True(t, *opts.Filters.HasEquity)
	assert.Equal(t, "eng", *opts.Filters.Title)
	assert.True(t, opts.Table)

	opts, err = parseListJobsFlags([]string{"-has-equity=false"})
	require.NoError(t, err)
	assert.False(t, *opts.Filters.HasEquity)

	opts, err = parseListJobsFlags([]string{"-limit", "5", "-offset", "10"})
	require.NoError(t, err)
	assert.Equal(t, 5, *opts.Filters.Limit)
	assert.Equal(t, 10, *opts.Filters.Offset)

	for _, args := range [][]string{{"-limit", "-1"}, {"-offset", "-2"}} {
		_, err = parseListJobsFlags(args)
		require.Error(t, err)
		assert.Equal(t, 2, exitCode(err))
	}
}

func TestParseUpdateJobFlags(t *testing.T) {
	opts, err := parseUpdateJobFlags([]string{"-id", "4", "-salary", "10", "-equity", "0.5"})
	require.NoError(t, err)
	assert.Equal(t, 4, opts.ID)
	assert.Nil(t, opts.Req.Title)
	assert.Equal(t, 10, *opts.Req.Salary.Value)
	assert.Equal(t, "0.5", opts.Req.Equity.Value.String())

	opts, err = parseUpdateJobFlags([]string{"-id", "4", "-salary", "null", "-equity", "NULL"})
	require.NoError(t, err)
	assert.True(t, opts.Req.Salary.IsNull())
	assert.True(t, opts.Req.Equity.IsNull())
	assert.True(t, opts.Req.HasUpdates())

	_, err = parseUpdateJobFlags([]string{"-id", "4", "-salary", "nil"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	opts, err = parseUpdateJobFlags([]string{"-id", "4"})
	require.NoError(t, err)
	assert.False(t, opts.Req.HasUpdates())

	_, err = parseUpdateJobFlags([]string{"-title", "x"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestParseIDFlags(t *testing.T) {
	id, err := parseIDFlags("jobs-get", []string{"-id", "9"})
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = parseIDFlags("jobs-get", nil)
	require.Error(t, err)

	_, err = parseIDFlags("jobs-get", []string{"-h"})
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestRunJobsCreate_WritesJSON(t *testing.T) {
	svc := &fakeJobService{}
	cmdCtx, out := newTestContext(svc)

	err := runJobsCreate(cmdCtx, []string{"-title", "Engineer", "-company", "c1", "-equity", "0.01"})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", svc.created.Title)
	assert.JSONEq(t,
		`{"id":1,"title":"Engineer","salary":null,"equity":"0.01","companyHandle":"c1"}`,
		out.String())
}

func TestRunJobsList_Table(t *testing.T) {
	svc := &fakeJobService{}
	cmdCtx, out := newTestContext(svc)

	require.NoError(t, runJobsList(cmdCtx, []string{"-table", "-title", "eng"}))
	assert.Equal(t, "eng", *svc.filters.Title)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "TITLE", "SALARY", "EQUITY", "COMPANY"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "Engineer", "100", "0.1", "C1", "(c1)"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "Orphan", "-", "-", "gone"}, strings.Fields(lines[2]))
}

func TestRunJobsGet_NestsCompany(t *testing.T) {
	cmdCtx, out := newTestContext(&fakeJobService{})

	require.NoError(t, runJobsGet(cmdCtx, []string{"-id", "3"}))
	assert.Contains(t, out.String(), `"company": {`)
	assert.NotContains(t, out.String(), "companyHandle")
}

func TestRunJobsUpdate_PassesRequest(t *testing.T) {
	svc := &fakeJobService{}
	cmdCtx, _ := newTestContext(svc)

	require.NoError(t, runJobsUpdate(cmdCtx, []string{"-id", "3", "-title", "New"}))
	assert.Equal(t, 3, svc.updateID)
	assert.Equal(t, "New", *svc.update.Title)
	assert.Nil(t, svc.update.Salary)
}

func TestRunJobsDelete_PropagatesNotFound(t *testing.T) {
	svc := &fakeJobService{err: apperrors.NotFoundf("No job: %d", 3)}
	cmdCtx, out := newTestContext(svc)

	err := runJobsDelete(cmdCtx, []string{"-id", "3"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 3, svc.removed)
	assert.Empty(t, out.String())
	assert.Equal(t, 1, exitCode(err))
}

func TestRunCommand_OpenFailure(t *testing.T) {
	openErr := errors.New("connection refused")
	cmdCtx := &commandContext{
		Ctx: context.Background(),
		Out: &bytes.Buffer{},
		jobs: func() (jobService, func(), error) {
			return nil, nil, openErr
		},
	}
	require.ErrorIs(t, runJobsGet(cmdCtx, []string{"-id", "1"}), openErr)
}

func TestReportError_MapsDriverErrors(t *testing.T) {
	fk := &pgconn.PgError{
		Code:           pgerrcode.ForeignKeyViolation,
		ConstraintName: "jobs_company_handle_fkey",
		Detail:         `Key (company_handle)=(nope) is not present in table "companies".`,
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	reportError(logger, "jobs-create", fmt.Errorf("create: %w", fk))

	out := buf.String()
	assert.Contains(t, out, `"command":"jobs-create"`)
	assert.Contains(t, out, `"code":"foreign_key"`)
	assert.Contains(t, out, "referenced Company does not exist")
}

func TestReportError_KeepsAppErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	reportError(logger, "jobs-get", apperrors.NotFoundf("No job: %d", 8))

	assert.Contains(t, buf.String(), `"code":"not_found"`)
	assert.Contains(t, buf.String(), `"error":"No job: 8"`)
}

func TestPrintUsage_ListsCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
}
