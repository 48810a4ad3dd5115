package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/listing"
	"github.com/juho05/jobmatch/services"
)

type rankingFilter struct {
	Skills []string
	Sort   listing.SortKey
}

func rankingCriteria(r *http.Request) (rankingFilter, listing.Criteria) {
	query := r.URL.Query()
	var skills []string
	for _, s := range query["skill"] {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	filter := rankingFilter{
		Skills: skills,
		Sort:   listing.ParseSortKey(query.Get("sort")),
	}
	return filter, listing.Criteria{
		Skills: filter.Skills,
		Sort:   filter.Sort,
	}
}

type companyHomeData struct {
	services.ApplicationList
	Filter   rankingFilter
	Statuses []string
}

func (h *Handler) companyHome(w http.ResponseWriter, r *http.Request) {
	filter, criteria := rankingCriteria(r)
	if filter.Sort == listing.SortNone {
		filter.Sort = listing.SortScore
	}
	list, err := h.ApplicationService.Company(r.Context(), criteria)
	data := h.newTemplateDataWithData(r, companyHomeData{ApplicationList: list, Filter: filter, Statuses: services.ApplicationStatuses})
	if err != nil {
		h.failed(w, r, "companyHome", data, err)
		return
	}
	h.Renderer.render(w, http.StatusOK, "companyHome", data)
}

type statusForm struct {
	Status string `form:"status" validate:"required,oneof=pending approved rejected"`
}

func (h *Handler) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w)
		return
	}
	body, err := decodeValues[statusForm](r.PostForm)
	if err != nil || fieldErrors(body) != nil {
		badRequest(w)
		return
	}

	if err = h.ApplicationService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status); err != nil {
		list, listErr := h.ApplicationService.Company(r.Context(), listing.Criteria{})
		if listErr != nil {
			err = listErr
		}
		data := h.newTemplateDataWithData(r, companyHomeData{ApplicationList: list, Filter: rankingFilter{Sort: listing.SortScore}, Statuses: services.ApplicationStatuses})
		h.failed(w, r, "companyHome", data, err)
		return
	}
	h.flash(r, "statusUpdated")
	http.Redirect(w, r, "/company/home", http.StatusSeeOther)
}

type jobForm struct {
	Title           string  `form:"title" validate:"required,notblank,max=200"`
	Position        string  `form:"position" validate:"max=200"`
	Description     string  `form:"description" validate:"required,notblank,max=10000"`
	Requirements    string  `form:"requirements" validate:"max=10000"`
	Location        string  `form:"location" validate:"required,notblank,max=128"`
	EmploymentType  string  `form:"employment_type" validate:"required,notblank,max=64"`
	ExperienceLevel string  `form:"experience_level" validate:"required,notblank,max=64"`
	SalaryMin       float64 `form:"salary_min" validate:"gte=0"`
	SalaryMax       float64 `form:"salary_max" validate:"gte=0"`
	// Skills is a comma separated list.
	Skills string `form:"skills" validate:"max=2000"`
}

func (f jobForm) skills() []string {
	var skills []string
	for _, s := range strings.Split(f.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

type companyJobsPage struct {
	Jobs  []apiclient.Job
	Stats services.JobStats
}

// companyJobsData loads the company's jobs shown next to the job form. A failed load is
// reported together with the form.
func (h *Handler) companyJobsData(r *http.Request) (templateData, error) {
	jobs, err := h.JobService.CompanyJobs(r.Context())
	data := h.newTemplateDataWithData(r, companyJobsPage{Jobs: jobs, Stats: services.CountJobs(jobs)})
	data.Form = jobForm{}
	return data, err
}

func (h *Handler) companyJobs(w http.ResponseWriter, r *http.Request) {
	data, err := h.companyJobsData(r)
	if err != nil {
		h.failed(w, r, "companyJobs", data, err)
		return
	}
	h.Renderer.render(w, http.StatusOK, "companyJobs", data)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	data, _ := h.companyJobsData(r)
	body, ok := decodeAndValidateForm[jobForm](h, w, r, "companyJobs", &data)
	if !ok {
		return
	}
	data.Form = body

	_, err := h.JobService.Create(r.Context(), apiclient.NewJob{
		Title:           body.Title,
		Position:        body.Position,
		Description:     body.Description,
		Requirements:    body.Requirements,
		Location:        body.Location,
		EmploymentType:  body.EmploymentType,
		ExperienceLevel: body.ExperienceLevel,
		SalaryMin:       body.SalaryMin,
		SalaryMax:       body.SalaryMax,
		Skills:          body.skills(),
	})
	if err != nil {
		h.failed(w, r, "companyJobs", data, err)
		return
	}
	h.flash(r, "jobCreated")
	http.Redirect(w, r, "/company/jobs", http.StatusSeeOther)
}

// extractSkills fills the skills of the job form from its description.
func (h *Handler) extractSkills(w http.ResponseWriter, r *http.Request) {
	data, _ := h.companyJobsData(r)
	if err := r.ParseForm(); err != nil {
		badRequest(w)
		return
	}
	body, err := decodeValues[jobForm](r.PostForm)
	if err != nil {
		badRequest(w)
		return
	}
	data.Form = body
	if strings.TrimSpace(body.Description) == "" {
		data.FieldErrors["description"] = services.T(data.Lang, "descriptionRequired")
		h.Renderer.render(w, http.StatusUnprocessableEntity, "companyJobs", data)
		return
	}

	skills, err := h.JobService.ExtractSkills(r.Context(), body.Description)
	if err != nil {
		h.failed(w, r, "companyJobs", data, err)
		return
	}
	existing := body.skills()
	for _, s := range skills {
		if !containsFold(existing, s) {
			existing = append(existing, s)
		}
	}
	body.Skills = strings.Join(existing, ", ")
	data.Form = body
	h.Renderer.render(w, http.StatusOK, "companyJobs", data)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

type topCandidatesData struct {
	services.ApplicationList
	Job    *apiclient.Job
	Filter rankingFilter
}

func (h *Handler) topCandidates(w http.ResponseWriter, r *http.Request) {
	filter, criteria := rankingCriteria(r)
	if filter.Sort == listing.SortNone {
		filter.Sort = listing.SortScore
		criteria.Sort = listing.SortScore
	}
	page := topCandidatesData{Job: &apiclient.Job{}, Filter: filter}

	id := chi.URLParam(r, "id")
	job, err := h.JobService.Find(r.Context(), id)
	if err != nil {
		h.failed(w, r, "topCandidates", h.newTemplateDataWithData(r, page), err)
		return
	}
	page.Job = job
	page.ApplicationList, err = h.JobService.TopCandidates(r.Context(), id, criteria)
	data := h.newTemplateDataWithData(r, page)
	if err != nil {
		h.failed(w, r, "topCandidates", data, err)
		return
	}
	h.Renderer.render(w, http.StatusOK, "topCandidates", data)
}
