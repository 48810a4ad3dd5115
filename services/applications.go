package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/listing"
	"github.com/juho05/jobmatch/session"
)

// ApplicationStatuses are the statuses a company can assign to an application.
var ApplicationStatuses = []string{"pending", "approved", "rejected"}

var candidateFields = listing.Fields[apiclient.Application]{
	Status: func(a apiclient.Application) string { return a.Status },
	Date:   func(a apiclient.Application) time.Time { return a.AppliedAt.Time },
}

var applicantFields = listing.Fields[apiclient.Application]{
	Status: func(a apiclient.Application) string { return a.Status },
	Skills: apiclient.Application.SkillNames,
	Score:  func(a apiclient.Application) float64 { return a.MatchScore },
	Name:   func(a apiclient.Application) string { return a.CandidateName },
}

// ApplicationList is a filtered view together with the options of its filter controls.
type ApplicationList struct {
	Applications []apiclient.Application
	Total        int
	Statuses     []string
	Skills       []string
}

type ApplicationService interface {
	// Mine lists the candidate's applications, filtered by status and day.
	Mine(ctx context.Context, c listing.Criteria) (ApplicationList, error)
	// Company lists the applications to the company's jobs, filtered by skills and sorted.
	Company(ctx context.Context, c listing.Criteria) (ApplicationList, error)
	UpdateStatus(ctx context.Context, applicationID, status string) error
}

type applicationService struct {
	api API
}

func NewApplicationService(api API) ApplicationService {
	return &applicationService{
		api: api,
	}
}

func (s *applicationService) Mine(ctx context.Context, c listing.Criteria) (ApplicationList, error) {
	token, err := accessToken(ctx, session.RoleCandidate)
	if err != nil {
		return ApplicationList{}, err
	}
	apps, err := s.api.MyApplications(ctx, token)
	if err != nil {
		return ApplicationList{}, apiErr(ctx, "list applications", err)
	}
	return ApplicationList{
		Applications: listing.Apply(apps, c, candidateFields),
		Total:        len(apps),
		Statuses:     listing.Statuses(apps, candidateFields.Status),
	}, nil
}

func (s *applicationService) Company(ctx context.Context, c listing.Criteria) (ApplicationList, error) {
	token, err := accessToken(ctx, session.RoleCompany)
	if err != nil {
		return ApplicationList{}, err
	}
	apps, err := s.api.CompanyApplications(ctx, token)
	if err != nil {
		return ApplicationList{}, apiErr(ctx, "list company applications", err)
	}
	if c.Sort == listing.SortNone {
		c.Sort = listing.SortScore
	}
	return ApplicationList{
		Applications: listing.Apply(apps, c, applicantFields),
		Total:        len(apps),
		Statuses:     listing.Statuses(apps, applicantFields.Status),
		Skills:       listing.Skills(apps, applicantFields.Skills),
	}, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, applicationID, status string) error {
	token, err := accessToken(ctx, session.RoleCompany)
	if err != nil {
		return err
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if !slices.Contains(ApplicationStatuses, status) {
		return fmt.Errorf("update application status: %w: %q", ErrInvalidStatus, status)
	}
	if err = s.api.UpdateApplicationStatus(ctx, token, applicationID, status); err != nil {
		return apiErr(ctx, "update application status", err)
	}
	return nil
}
