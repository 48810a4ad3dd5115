package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/juho05/log"

	"github.com/juho05/jobmatch/access"
	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/session"
)

type loginForm struct {
	Role     string `form:"role" validate:"required,oneof=candidate company"`
	Email    string `form:"email" validate:"required,notblank,email"`
	Password string `form:"password" validate:"required"`
}

func roleParam(r *http.Request) string {
	if role, err := session.ParseRole(r.URL.Query().Get("role")); err == nil {
		return role.String()
	}
	return session.RoleCandidate.String()
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	data := h.newTemplateData(r)
	data.Form = loginForm{
		Role:  roleParam(r),
		Email: h.SessionManager.PopString(r.Context(), "email"),
	}
	h.Renderer.render(w, http.StatusOK, "login", data)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeAndValidateForm[loginForm](h, w, r, "login", nil)
	if !ok {
		return
	}
	role, _ := session.ParseRole(body.Role)

	err := h.AuthService.Login(r.Context(), role, body.Email, body.Password)
	if err != nil {
		data := h.newTemplateData(r)
		body.Password = ""
		data.Form = body
		h.failed(w, r, "login", data, err)
		return
	}
	h.signedIn(w, r, role)
}

// signedIn renews the session token and sends the user to the page that requested the login
// or to the role's home.
func (h *Handler) signedIn(w http.ResponseWriter, r *http.Request, role session.Role) {
	if err := h.SessionManager.RenewToken(r.Context()); err != nil {
		serverError(w, err)
		return
	}
	target := h.Paths.Home(role)
	if redirect := h.SessionManager.PopString(r.Context(), "loginRedirect"); redirect != "" {
		if ns, ok := access.Namespace(redirect); ok && ns == role && strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
			target = redirect
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type signupForm struct {
	Role           string `form:"role" validate:"required,oneof=candidate company"`
	Email          string `form:"email" validate:"required,notblank,email,max=254"`
	Password       string `form:"password" validate:"required,min=6,max=72"`
	RepeatPassword string `form:"repeat_password" validate:"required,eqfield=Password"`
	Location       string `form:"location" validate:"max=128"`

	FirstName       string `form:"first_name" validate:"required_if=Role candidate,max=64"`
	LastName        string `form:"last_name" validate:"required_if=Role candidate,max=64"`
	Phone           string `form:"phone" validate:"max=32"`
	CurrentTitle    string `form:"current_title" validate:"max=128"`
	YearsExperience int    `form:"years_experience" validate:"gte=0,lte=80"`

	Name        string `form:"name" validate:"required_if=Role company,max=128"`
	Description string `form:"description" validate:"max=4000"`
	Website     string `form:"website" validate:"omitempty,http_url"`
	Industry    string `form:"industry" validate:"max=128"`
}

func (h *Handler) signupPage(w http.ResponseWriter, r *http.Request) {
	data := h.newTemplateData(r)
	data.Form = signupForm{
		Role: roleParam(r),
	}
	h.Renderer.render(w, http.StatusOK, "signup", data)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeAndValidateForm[signupForm](h, w, r, "signup", nil)
	if !ok {
		return
	}
	role, _ := session.ParseRole(body.Role)

	reg := apiclient.Registration{
		Email:    strings.TrimSpace(body.Email),
		Password: body.Password,
		Location: body.Location,
	}
	if role == session.RoleCandidate {
		reg.FirstName = body.FirstName
		reg.LastName = body.LastName
		reg.Phone = body.Phone
		reg.CurrentTitle = body.CurrentTitle
		reg.YearsExperience = body.YearsExperience
	} else {
		reg.Name = body.Name
		reg.Description = body.Description
		reg.Website = body.Website
		reg.Industry = body.Industry
	}

	loggedIn, err := h.AuthService.Register(r.Context(), role, reg)
	if err != nil {
		data := h.newTemplateData(r)
		body.Password = ""
		body.RepeatPassword = ""
		data.Form = body
		h.failed(w, r, "signup", data, err)
		return
	}
	if loggedIn {
		h.signedIn(w, r, role)
		return
	}
	h.flash(r, "registrationSuccess")
	h.SessionManager.Put(r.Context(), "email", reg.Email)
	http.Redirect(w, r, h.Paths.Login+"?role="+role.String(), http.StatusSeeOther)
}

// googleAuth receives the credential posted by the Google Identity Services button.
func (h *Handler) googleAuth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w)
		return
	}
	cookie, err := r.Cookie("g_csrf_token")
	if err != nil || cookie.Value == "" || cookie.Value != r.PostForm.Get("g_csrf_token") {
		log.Tracef("google sign-in: CSRF double-submit check failed")
		badRequest(w)
		return
	}
	credential := r.PostForm.Get("credential")
	if credential == "" {
		badRequest(w)
		return
	}
	role, err := session.ParseRole(roleParam(r))
	if err != nil {
		badRequest(w)
		return
	}

	if err = h.AuthService.GoogleLogin(r.Context(), credential, role); err != nil {
		data := h.newTemplateData(r)
		data.Form = loginForm{Role: role.String()}
		h.failed(w, r, "login", data, err)
		return
	}
	h.signedIn(w, r, role)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context()); err != nil {
		serverError(w, err)
		return
	}
	if err := h.SessionManager.RenewToken(r.Context()); err != nil {
		serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type candidateProfileForm struct {
	FirstName       string `form:"first_name" validate:"required,notblank,max=64"`
	LastName        string `form:"last_name" validate:"required,notblank,max=64"`
	Phone           string `form:"phone" validate:"max=32"`
	Location        string `form:"location" validate:"max=128"`
	CurrentTitle    string `form:"current_title" validate:"max=128"`
	YearsExperience int    `form:"years_experience" validate:"gte=0,lte=80"`
}

type companyProfileForm struct {
	Name        string `form:"name" validate:"required,notblank,max=128"`
	Description string `form:"description" validate:"max=4000"`
	Website     string `form:"website" validate:"omitempty,http_url"`
	Location    string `form:"location" validate:"max=128"`
	Industry    string `form:"industry" validate:"max=128"`
}

func profileForm(role session.Role, p *apiclient.Profile) any {
	if role == session.RoleCompany {
		return companyProfileForm{
			Name:        p.DisplayName(),
			Description: p.Description,
			Website:     p.Website,
			Location:    p.Location,
			Industry:    p.Industry,
		}
	}
	return candidateProfileForm{
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Phone:           p.Phone,
		Location:        p.Location,
		CurrentTitle:    p.CurrentTitle,
		YearsExperience: p.YearsExperience,
	}
}

func profilePageName(role session.Role) string {
	if role == session.RoleCompany {
		return "companyProfile"
	}
	return "candidateProfile"
}

// profileData loads the profile shown next to a submitted form. A failed load is logged
// and shows an empty profile.
func (h *Handler) profileData(r *http.Request) templateData {
	profile, err := h.ProfileService.Find(r.Context())
	if err != nil {
		log.Tracef("load profile: %s", err)
		profile = &apiclient.Profile{}
	}
	return h.newTemplateDataWithData(r, profile)
}

func (h *Handler) profilePage(w http.ResponseWriter, r *http.Request) {
	role := session.FromContext(r.Context()).Role()
	profile, err := h.ProfileService.Find(r.Context())
	if err != nil {
		h.failed(w, r, profilePageName(role), h.newTemplateDataWithData(r, &apiclient.Profile{}), err)
		return
	}
	data := h.newTemplateDataWithData(r, profile)
	data.Form = profileForm(role, profile)
	h.Renderer.render(w, http.StatusOK, profilePageName(role), data)
}

func (h *Handler) updateCandidateProfile(w http.ResponseWriter, r *http.Request) {
	data := h.profileData(r)
	body, ok := decodeAndValidateForm[candidateProfileForm](h, w, r, "candidateProfile", &data)
	if !ok {
		return
	}
	h.updateProfile(w, r, "candidateProfile", body, apiclient.ProfileUpdate{
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Phone:           body.Phone,
		Location:        body.Location,
		CurrentTitle:    body.CurrentTitle,
		YearsExperience: body.YearsExperience,
	})
}

func (h *Handler) updateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	data := h.profileData(r)
	body, ok := decodeAndValidateForm[companyProfileForm](h, w, r, "companyProfile", &data)
	if !ok {
		return
	}
	h.updateProfile(w, r, "companyProfile", body, apiclient.ProfileUpdate{
		Name:        body.Name,
		Description: body.Description,
		Website:     body.Website,
		Location:    body.Location,
		Industry:    body.Industry,
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request, page string, form any, update apiclient.ProfileUpdate) {
	if _, err := h.ProfileService.Update(r.Context(), update); err != nil {
		data := h.profileData(r)
		data.Form = form
		h.failed(w, r, page, data, err)
		return
	}
	h.flash(r, "profileSaved")
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

// readUpload reads the multipart file field of at most limit bytes. Larger files are read up to
// limit+1 bytes so that the size check rejects them.
func readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			clientError(w, http.StatusRequestEntityTooLarge)
			return "", nil, false
		}
		badRequest(w)
		return "", nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		badRequest(w)
		return "", nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		badRequest(w)
		return "", nil, false
	}
	return header.Filename, data, true
}

func (h *Handler) uploadCV(w http.ResponseWriter, r *http.Request) {
	filename, file, ok := readUpload(w, r, "cv", h.ProfileService.Limits().MaxCVSize)
	if !ok {
		return
	}
	if _, err := h.ProfileService.UploadCV(r.Context(), filename, file); err != nil {
		h.failed(w, r, "candidateProfile", h.profilePageData(r), err)
		return
	}
	h.flash(r, "cvUploaded")
	http.Redirect(w, r, "/candidate/profile", http.StatusSeeOther)
}

func (h *Handler) uploadPicture(w http.ResponseWriter, r *http.Request) {
	filename, file, ok := readUpload(w, r, "profile_picture", h.ProfileService.Limits().MaxPictureSize)
	if !ok {
		return
	}
	if _, err := h.ProfileService.UploadPicture(r.Context(), filename, file); err != nil {
		h.failed(w, r, "candidateProfile", h.profilePageData(r), err)
		return
	}
	h.flash(r, "pictureUploaded")
	http.Redirect(w, r, "/candidate/profile", http.StatusSeeOther)
}

func (h *Handler) profilePageData(r *http.Request) templateData {
	data := h.profileData(r)
	if p, ok := data.Data.(*apiclient.Profile); ok {
		data.Form = profileForm(session.FromContext(r.Context()).Role(), p)
	}
	return data
}
