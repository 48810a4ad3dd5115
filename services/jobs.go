package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/listing"
	"github.com/juho05/jobmatch/session"
)

// JobFilter is the job board's search state. Zero fields do not filter.
type JobFilter struct {
	// Search matches company name, title or position, ignoring case.
	Search          string `form:"q"`
	EmploymentType  string `form:"employment_type"`
	ExperienceLevel string `form:"experience_level"`
	// Location matches as a case-insensitive substring.
	Location  string  `form:"location"`
	SalaryMin float64 `form:"salary_min" validate:"gte=0"`
	SalaryMax float64 `form:"salary_max" validate:"gte=0"`
}

func (f JobFilter) Match(job apiclient.Job) bool {
	if q := lower(f.Search); q != "" {
		if !strings.Contains(lower(job.CompanyName), q) &&
			!strings.Contains(lower(job.Title), q) &&
			!strings.Contains(lower(job.Position), q) {
			return false
		}
	}
	if t := lower(f.EmploymentType); t != "" && lower(job.EmploymentType) != t {
		return false
	}
	if l := lower(f.ExperienceLevel); l != "" && lower(job.ExperienceLevel) != l {
		return false
	}
	if loc := lower(f.Location); loc != "" && !strings.Contains(lower(job.Location), loc) {
		return false
	}
	if f.SalaryMin > 0 && job.SalaryMin < f.SalaryMin {
		return false
	}
	if f.SalaryMax > 0 && job.SalaryMax > f.SalaryMax {
		return false
	}
	return true
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func FilterJobs(jobs []apiclient.Job, f JobFilter) []apiclient.Job {
	return listing.Keep(jobs, f.Match)
}

// JobBoard is a filtered job list together with the options of its filter controls.
type JobBoard struct {
	Jobs             []apiclient.Job
	Total            int
	EmploymentTypes  []string
	ExperienceLevels []string
}

// JobStats summarises a company's posted jobs.
type JobStats struct {
	Total        int
	Active       int
	Inactive     int
	Applications int
}

func CountJobs(jobs []apiclient.Job) JobStats {
	stats := JobStats{Total: len(jobs)}
	for _, job := range jobs {
		if job.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		stats.Applications += job.ApplicationCount
	}
	return stats
}

type JobService interface {
	Board(ctx context.Context, filter JobFilter) (JobBoard, error)
	Find(ctx context.Context, id string) (*apiclient.Job, error)
	Create(ctx context.Context, job apiclient.NewJob) (*apiclient.Job, error)
	Apply(ctx context.Context, jobID, coverLetter string) (*apiclient.Application, error)
	CompanyJobs(ctx context.Context) ([]apiclient.Job, error)
	// TopCandidates ranks the applicants of a job. The skill options are the candidates' matched
	// skills, which the skill criteria are compared against.
	TopCandidates(ctx context.Context, jobID string, c listing.Criteria) (ApplicationList, error)
	ExtractSkills(ctx context.Context, description string) ([]string, error)
}

type jobService struct {
	api API
}

func NewJobService(api API) JobService {
	return &jobService{
		api: api,
	}
}

func (j *jobService) Board(ctx context.Context, filter JobFilter) (JobBoard, error) {
	jobs, err := j.api.Jobs(ctx)
	if err != nil {
		return JobBoard{}, apiErr(ctx, "list jobs", err)
	}
	return JobBoard{
		Jobs:             FilterJobs(jobs, filter),
		Total:            len(jobs),
		EmploymentTypes:  listing.Distinct(jobs, func(job apiclient.Job) string { return job.EmploymentType }),
		ExperienceLevels: listing.Distinct(jobs, func(job apiclient.Job) string { return job.ExperienceLevel }),
	}, nil
}

func (j *jobService) Find(ctx context.Context, id string) (*apiclient.Job, error) {
	job, err := j.api.Job(ctx, id)
	if err != nil {
		return nil, apiErr(ctx, "find job", err)
	}
	return job, nil
}

func (j *jobService) Create(ctx context.Context, job apiclient.NewJob) (*apiclient.Job, error) {
	token, err := accessToken(ctx, session.RoleCompany)
	if err != nil {
		return nil, err
	}
	if job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return nil, fmt.Errorf("create job: salary range %g-%g: %w", job.SalaryMin, job.SalaryMax, ErrInvalidSalaryRange)
	}
	created, err := j.api.CreateJob(ctx, token, job)
	if err != nil {
		return nil, apiErr(ctx, "create job", err)
	}
	return created, nil
}

func (j *jobService) Apply(ctx context.Context, jobID, coverLetter string) (*apiclient.Application, error) {
	token, err := accessToken(ctx, session.RoleCandidate)
	if err != nil {
		return nil, err
	}
	app, err := j.api.Apply(ctx, token, jobID, strings.TrimSpace(coverLetter))
	if err != nil {
		return nil, apiErr(ctx, "apply", err)
	}
	return app, nil
}

func (j *jobService) CompanyJobs(ctx context.Context) ([]apiclient.Job, error) {
	token, err := accessToken(ctx, session.RoleCompany)
	if err != nil {
		return nil, err
	}
	jobs, err := j.api.CompanyJobs(ctx, token)
	if err != nil {
		return nil, apiErr(ctx, "list company jobs", err)
	}
	return jobs, nil
}

func (j *jobService) TopCandidates(ctx context.Context, jobID string, c listing.Criteria) (ApplicationList, error) {
	token, err := accessToken(ctx, session.RoleCompany)
	if err != nil {
		return ApplicationList{}, err
	}
	candidates, err := j.api.TopCandidates(ctx, token, jobID)
	if err != nil {
		return ApplicationList{}, apiErr(ctx, "top candidates", err)
	}
	return ApplicationList{
		Applications: listing.Apply(candidates, c, applicantFields),
		Total:        len(candidates),
		Statuses:     listing.Statuses(candidates, applicantFields.Status),
		Skills:       listing.Skills(candidates, applicantFields.Skills),
	}, nil
}

// ExtractSkills returns the skills the API finds in a job description, standardized ones first.
func (j *jobService) ExtractSkills(ctx context.Context, description string) ([]string, error) {
	token, err := accessToken(ctx, session.RoleCompany)
	if err != nil {
		return nil, err
	}
	skills, err := j.api.ExtractJobSkills(ctx, token, description)
	if err != nil {
		return nil, apiErr(ctx, "extract skills", err)
	}
	return skills.All(), nil
}
