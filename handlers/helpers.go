package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/juho05/log"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/services"
	"github.com/juho05/jobmatch/session"
)

var (
	validate    *validator.Validate
	translator  ut.Translator
	formDecoder *form.Decoder
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("notblank", validators.NotBlank)

	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic("register validation translations: " + err.Error())
	}
	registerTranslation("notblank", "{0} must not be blank")
	registerTranslation("required_if", "{0} is a required field")

	formDecoder = form.NewDecoder()
}

func registerTranslation(tag, text string) {
	validate.RegisterTranslation(tag, translator, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

// fieldErrors validates obj and returns the translated message of every invalid field by form name.
func fieldErrors(obj any) map[string]string {
	err := validate.Struct(obj)
	if e, ok := err.(*validator.InvalidValidationError); ok {
		panic(e)
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return nil
	}
	fields := make(map[string]string, len(vErrs))
	for _, e := range vErrs {
		fields[e.Field()] = e.Translate(translator)
	}
	return fields
}

func decodeValues[T any](values url.Values) (T, error) {
	var obj T
	err := formDecoder.Decode(&obj, values)
	return obj, err
}

// decodeAndValidateForm decodes the posted form into T. On failure it renders page with the
// submitted values and field errors and returns false.
func decodeAndValidateForm[T any](h *Handler, w http.ResponseWriter, r *http.Request, page string, data *templateData) (T, bool) {
	var obj T
	if err := r.ParseForm(); err != nil {
		badRequest(w)
		return obj, false
	}
	obj, err := decodeValues[T](r.PostForm)
	if err != nil {
		log.Tracef("decode %s form: %s", page, err)
		badRequest(w)
		return obj, false
	}
	if fields := fieldErrors(obj); fields != nil {
		if data == nil {
			d := h.newTemplateData(r)
			data = &d
		}
		data.Form = obj
		data.FieldErrors = fields
		data.Errors = append(data.Errors, services.T(data.Lang, "invalidFields"))
		h.Renderer.render(w, http.StatusUnprocessableEntity, page, *data)
		return obj, false
	}
	return obj, true
}

// failed reports err on page. An ended session sends the user back to the login page, errors
// that did not come from the API or the user's input are server errors.
func (h *Handler) failed(w http.ResponseWriter, r *http.Request, page string, data templateData, err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		h.flash(r, "sessionExpired")
		http.Redirect(w, r, h.Paths.Login, http.StatusSeeOther)
		return
	case errors.Is(err, session.ErrNoManager):
		serverError(w, err)
		return
	}
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		serverError(w, err)
		return
	}
	log.Tracef("%s: %s", page, err)
	msg := services.T(data.Lang, services.ErrorKey(err))
	if detail := services.Message(err); detail != "" {
		msg += " " + detail
	}
	data.Errors = append(data.Errors, msg)
	h.Renderer.render(w, status, page, data)
}

func errorStatus(err error) int {
	var statusErr *apiclient.StatusError
	switch {
	case errors.Is(err, services.ErrWrongRole):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidFileType), errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrInvalidSalaryRange), errors.Is(err, services.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrTransport):
		return http.StatusBadGateway
	case errors.As(err, &statusErr):
		if statusErr.Status >= 500 {
			return http.StatusBadGateway
		}
		return statusErr.Status
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) flash(r *http.Request, key string) {
	h.SessionManager.Put(r.Context(), "flash", key)
}

func badRequest(w http.ResponseWriter) {
	clientError(w, http.StatusBadRequest)
}

func clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func serverError(w http.ResponseWriter, err error) {
	log.Errorf("%s\n%s", err.Error(), debug.Stack())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	type response struct {
		Error bool `json:"error"`
		Body  any  `json:"body,omitempty"`
	}
	res := response{
		Error: false,
		Body:  data,
	}
	json.NewEncoder(w).Encode(res)
}
