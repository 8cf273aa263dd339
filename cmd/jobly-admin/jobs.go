package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/target/jobly/internal/domain/model"
)

// jobService is the part of service.JobService the CLI drives.
type jobService interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	FindAll(ctx context.Context, filters model.JobFilters) ([]*model.JobListing, error)
	Get(ctx context.Context, id int) (*model.JobDetail, error)
	Update(ctx context.Context, id int, req model.UpdateJobRequest) (*model.Job, error)
	Remove(ctx context.Context, id int) error
	GetCompany(ctx context.Context, handle string) (*model.Company, error)
}

type listJobsOptions struct {
	Filters model.JobFilters
	Table   bool
}

type updateJobOptions struct {
	ID  int
	Req model.UpdateJobRequest
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageErrorf("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usageErrorf("%s: unexpected arguments %v", fs.Name(), fs.Args())
	}
	return nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	return d, nil
}

func intPtrFlag(dst **int) func(string) error {
	return func(s string) error {
		v, err := parseInt(s)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

// optionalFlag sets dst from a flag value; the literal "null" clears the column.
func optionalFlag[T any](dst *model.Optional[T], parse func(string) (T, error)) func(string) error {
	return func(s string) error {
		if strings.EqualFold(strings.TrimSpace(s), "null") {
			*dst = model.Null[T]()
			return nil
		}
		v, err := parse(s)
		if err != nil {
			return err
		}
		*dst = model.Some(v)
		return nil
	}
}

func stringPtrFlag(dst **string) func(string) error {
	return func(s string) error {
		*dst = &s
		return nil
	}
}

func decimalFlag(dst *decimal.Decimal, set *bool) func(string) error {
	return func(s string) error {
		d, err := parseDecimal(s)
		if err != nil {
			return err
		}
		*dst = d
		*set = true
		return nil
	}
}

func requireID(name string, id int) error {
	if id <= 0 {
		return usageErrorf("%s: -id is required", name)
	}
	return nil
}

func parseCreateJobFlags(args []string) (*model.CreateJobRequest, error) {
	fs := newFlagSet("jobs-create")

	var (
		req       model.CreateJobRequest
		equity    decimal.Decimal
		hasEquity bool
	)
	fs.StringVar(&req.Title, "title", "", "Job title (required)")
	fs.StringVar(&req.CompanyHandle, "company", "", "Owning company handle (required)")
	fs.Func("salary", "Salary (optional)", intPtrFlag(&req.Salary))
	fs.Func("equity", "Equity share between 0 and 1, e.g. 0.05 (optional)", decimalFlag(&equity, &hasEquity))

	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, usageErrorf("jobs-create: -title is required")
	}
	if strings.TrimSpace(req.CompanyHandle) == "" {
		return nil, usageErrorf("jobs-create: -company is required")
	}
	if hasEquity {
		req.Equity = decimal.NewNullDecimal(equity)
	}
	return &req, nil
}

func parseListJobsFlags(args []string) (listJobsOptions, error) {
	fs := newFlagSet("jobs-list")

	var opts listJobsOptions
	fs.Func("min-salary", "Only jobs paying at least this much", intPtrFlag(&opts.Filters.MinSalary))
	fs.BoolFunc("has-equity", "Only jobs offering equity", func(s string) error {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", s)
		}
		opts.Filters.HasEquity = &b
		return nil
	})
	fs.Func("title", "Case-insensitive title substring", stringPtrFlag(&opts.Filters.Title))
	fs.Func("limit", "Return at most this many jobs", intPtrFlag(&opts.Filters.Limit))
	fs.Func("offset", "Skip this many jobs of the title ordering", intPtrFlag(&opts.Filters.Offset))
	fs.BoolVar(&opts.Table, "table", false, "Print a table instead of JSON")

	if err := parseFlags(fs, args); err != nil {
		return listJobsOptions{}, err
	}
	if opts.Filters.Limit != nil && *opts.Filters.Limit < 0 {
		return listJobsOptions{}, usageErrorf("jobs-list: -limit must not be negative")
	}
	if opts.Filters.Offset != nil && *opts.Filters.Offset < 0 {
		return listJobsOptions{}, usageErrorf("jobs-list: -offset must not be negative")
	}
	return opts, nil
}

func parseIDFlags(name string, args []string) (int, error) {
	fs := newFlagSet(name)
	id := fs.Int("id", 0, "Job ID (required)")
	if err := parseFlags(fs, args); err != nil {
		return 0, err
	}
	if err := requireID(name, *id); err != nil {
		return 0, err
	}
	return *id, nil
}

func parseUpdateJobFlags(args []string) (updateJobOptions, error) {
	fs := newFlagSet("jobs-update")

	var opts updateJobOptions
	fs.IntVar(&opts.ID, "id", 0, "Job ID (required)")
	fs.Func("title", "New title", stringPtrFlag(&opts.Req.Title))
	fs.Func("salary", `New salary, or "null" to clear it`, optionalFlag(&opts.Req.Salary, parseInt))
	fs.Func("equity", `New equity share, or "null" to clear it`, optionalFlag(&opts.Req.Equity, parseDecimal))

	if err := parseFlags(fs, args); err != nil {
		return updateJobOptions{}, err
	}
	if err := requireID("jobs-update", opts.ID); err != nil {
		return updateJobOptions{}, err
	}
	// An update with no fields is passed through; the repository rejects it with "No data".
	return opts, nil
}

func runJobsCreate(cmdCtx *commandContext, args []string) error {
	req, err := parseCreateJobFlags(args)
	if err != nil {
		return err
	}
	return withJobService(cmdCtx, func(ctx context.Context, svc jobService) error {
		job, err := svc.Create(ctx, req)
		if err != nil {
			return err
		}
		return writeJSON(cmdCtx.Out, job)
	})
}

func runJobsList(cmdCtx *commandContext, args []string) error {
	opts, err := parseListJobsFlags(args)
	if err != nil {
		return err
	}
	return withJobService(cmdCtx, func(ctx context.Context, svc jobService) error {
		jobs, err := svc.FindAll(ctx, opts.Filters)
		if err != nil {
			return err
		}
		if opts.Table {
			return writeJobsTable(cmdCtx.Out, jobs)
		}
		return writeJSON(cmdCtx.Out, jobs)
	})
}

func runJobsGet(cmdCtx *commandContext, args []string) error {
	id, err := parseIDFlags("jobs-get", args)
	if err != nil {
		return err
	}
	return withJobService(cmdCtx, func(ctx context.Context, svc jobService) error {
		job, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(cmdCtx.Out, job)
	})
}

func runJobsUpdate(cmdCtx *commandContext, args []string) error {
	opts, err := parseUpdateJobFlags(args)
	if err != nil {
		return err
	}
	return withJobService(cmdCtx, func(ctx context.Context, svc jobService) error {
		job, err := svc.Update(ctx, opts.ID, opts.Req)
		if err != nil {
			return err
		}
		return writeJSON(cmdCtx.Out, job)
	})
}

func runJobsDelete(cmdCtx *commandContext, args []string) error {
	id, err := parseIDFlags("jobs-delete", args)
	if err != nil {
		return err
	}
	return withJobService(cmdCtx, func(ctx context.Context, svc jobService) error {
		if err := svc.Remove(ctx, id); err != nil {
			return err
		}
		return writeJSON(cmdCtx.Out, map[string]int{"deleted": id})
	})
}

func runCompaniesGet(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("companies-get")
	handle := fs.String("handle", "", "Company handle (required)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*handle) == "" {
		return usageErrorf("companies-get: -handle is required")
	}
	return withJobService(cmdCtx, func(ctx context.Context, svc jobService) error {
		c, err := svc.GetCompany(ctx, *handle)
		if err != nil {
			return err
		}
		return writeJSON(cmdCtx.Out, c)
	})
}

// withJobService opens the service, runs fn under the command timeout and closes it.
func withJobService(cmdCtx *commandContext, fn func(context.Context, jobService) error) error {
	svc, closeFn, err := cmdCtx.jobs()
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()
	return fn(ctx, svc)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func writeJobsTable(w io.Writer, jobs []*model.JobListing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "ID\tTITLE\tSALARY\tEQUITY\tCOMPANY\n"); err != nil {
		return err
	}
	for _, j := range jobs {
		if err := writef(tw, "%d\t%s\t%s\t%s\t%s\n",
			j.ID, j.Title, formatSalary(j.Salary), formatEquity(j.Equity), formatCompany(j),
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatSalary(s *int) string {
	if s == nil {
		return "-"
	}
	return strconv.Itoa(*s)
}

func formatEquity(e decimal.NullDecimal) string {
	if !e.Valid {
		return "-"
	}
	return e.Decimal.String()
}

func formatCompany(j *model.JobListing) string {
	if j.CompanyName == nil {
		return j.CompanyHandle
	}
	return *j.CompanyName + " (" + j.CompanyHandle + ")"
}
