package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/listing"
	"github.com/juho05/jobmatch/services"
)

type applicationFilter struct {
	Status string `form:"status"`
	Date   string `form:"date"`
}

type candidateHomeData struct {
	services.ApplicationList
	Filter applicationFilter
}

func (h *Handler) candidateHome(w http.ResponseWriter, r *http.Request) {
	filter := applicationFilter{
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
	}
	day, dateErr := listing.ParseDay(filter.Date, time.UTC)
	if dateErr != nil {
		filter.Date = ""
	}

	list, err := h.ApplicationService.Mine(r.Context(), listing.Criteria{
		Status: filter.Status,
		Day:    day,
	})
	data := h.newTemplateDataWithData(r, candidateHomeData{ApplicationList: list, Filter: filter})
	if dateErr != nil {
		data.FieldErrors["date"] = services.T(data.Lang, "invalidDate")
	}
	if err != nil {
		h.failed(w, r, "candidateHome", data, err)
		return
	}
	h.Renderer.render(w, http.StatusOK, "candidateHome", data)
}

type jobBoardData struct {
	services.JobBoard
	Filter services.JobFilter
}

func (h *Handler) jobBoard(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeValues[services.JobFilter](r.URL.Query())
	if err != nil {
		badRequest(w)
		return
	}
	fields := fieldErrors(filter)
	if fields != nil {
		filter.SalaryMin, filter.SalaryMax = 0, 0
	}

	board, err := h.JobService.Board(r.Context(), filter)
	data := h.newTemplateDataWithData(r, jobBoardData{JobBoard: board, Filter: filter})
	if fields != nil {
		data.FieldErrors = fields
	}
	if err != nil {
		h.failed(w, r, "jobs", data, err)
		return
	}
	h.Renderer.render(w, http.StatusOK, "jobs", data)
}

type applyForm struct {
	CoverLetter string `form:"cover_letter" validate:"max=5000"`
}

func (h *Handler) jobPageData(r *http.Request) (templateData, error) {
	job, err := h.JobService.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return h.newTemplateDataWithData(r, &apiclient.Job{}), err
	}
	return h.newTemplateDataWithData(r, job), nil
}

func (h *Handler) jobPage(w http.ResponseWriter, r *http.Request) {
	data, err := h.jobPageData(r)
	if err != nil {
		h.failed(w, r, "job", data, err)
		return
	}
	data.Form = applyForm{}
	h.Renderer.render(w, http.StatusOK, "job", data)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	data, err := h.jobPageData(r)
	if err != nil {
		h.failed(w, r, "job", data, err)
		return
	}
	body, ok := decodeAndValidateForm[applyForm](h, w, r, "job", &data)
	if !ok {
		return
	}
	data.Form = body

	if _, err = h.JobService.Apply(r.Context(), chi.URLParam(r, "id"), body.CoverLetter); err != nil {
		h.failed(w, r, "job", data, err)
		return
	}
	h.flash(r, "applicationSubmitted")
	http.Redirect(w, r, "/candidate/home", http.StatusSeeOther)
}
