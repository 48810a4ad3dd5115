package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/juho05/jobmatch/session"
)

// ID accepts both JSON numbers and strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode ID: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp decodes the API's ISO dates. Values without a zone are UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			t.Time = time.Time{}
			return nil
		}
		return fmt.Errorf("decode timestamp: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("decode timestamp: unsupported format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Auth is the result of a login, registration or federated exchange.
type Auth struct {
	Identity    session.Identity
	AccessToken string
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	UserID      ID     `json:"user_id"`
	UserType    string `json:"user_type"`
	Role        string `json:"role"`
}

func (a authResponse) auth() (Auth, error) {
	roleName := a.UserType
	if roleName == "" {
		roleName = a.Role
	}
	role, err := session.ParseRole(roleName)
	if err != nil {
		return Auth{}, fmt.Errorf("auth response: %w", err)
	}
	auth := Auth{
		Identity: session.Identity{
			Role:       role,
			IdentityID: a.UserID.String(),
		},
		AccessToken: a.AccessToken,
	}
	if auth.AccessToken == "" || auth.Identity.IdentityID == "" {
		return Auth{}, fmt.Errorf("auth response: %w", session.ErrIncompleteRecord)
	}
	return auth, nil
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries the sign-up form of either role; unused fields are omitted.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location,omitempty"`

	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	CurrentTitle    string `json:"current_title,omitempty"`
	YearsExperience int    `json:"years_experience,omitempty"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

type Profile struct {
	ID                 ID        `json:"id"`
	Email              string    `json:"email"`
	Location           string    `json:"location"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Phone              string    `json:"phone"`
	CurrentTitle       string    `json:"current_title"`
	YearsExperience    int       `json:"years_experience"`
	CVFilePath         string    `json:"cv_file_path"`
	ProfilePicturePath string    `json:"profile_picture_path"`
	ExtractedSkills    []string  `json:"extracted_skills"`
	Name               string    `json:"name"`
	CompanyName        string    `json:"company_name"`
	Description        string    `json:"description"`
	Website            string    `json:"website"`
	Industry           string    `json:"industry"`
	CreatedAt          Timestamp `json:"created_at"`
}

// DisplayName is the company name or the candidate's full name.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.CompanyName != "" {
		return p.CompanyName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Profile) Initials() string {
	initials := firstRune(p.FirstName) + firstRune(p.LastName)
	if initials == "" {
		initials = firstRune(p.DisplayName())
	}
	if initials == "" {
		return "U"
	}
	return strings.ToUpper(initials)
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// PictureURL turns a gs:// storage path into its public HTTPS URL.
func (p Profile) PictureURL() string {
	return PublicStorageURL(p.ProfilePicturePath)
}

func PublicStorageURL(path string) string {
	switch {
	case strings.HasPrefix(path, "gs://"):
		return "https://storage.googleapis.com/" + strings.TrimPrefix(path, "gs://")
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	default:
		return ""
	}
}

// ProfileUpdate holds the editable profile fields of either role.
type ProfileUpdate struct {
	Location string `json:"location,omitempty"`

	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	CurrentTitle    string `json:"current_title,omitempty"`
	YearsExperience int    `json:"years_experience,omitempty"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

type Job struct {
	ID               ID        `json:"id"`
	Title            string    `json:"title"`
	CompanyName      string    `json:"company_name"`
	Position         string    `json:"position"`
	Description      string    `json:"description"`
	Requirements     string    `json:"requirements"`
	Location         string    `json:"location"`
	EmploymentType   string    `json:"employment_type"`
	ExperienceLevel  string    `json:"experience_level"`
	SalaryMin        float64   `json:"salary_min"`
	SalaryMax        float64   `json:"salary_max"`
	Skills           []string  `json:"skills"`
	IsActive         bool      `json:"is_active"`
	ApplicationCount int       `json:"application_count"`
	CreatedAt        Timestamp `json:"created_at"`
}

type NewJob struct {
	Title           string   `json:"title"`
	Position        string   `json:"position,omitempty"`
	Description     string   `json:"description"`
	Requirements    string   `json:"requirements,omitempty"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employment_type"`
	ExperienceLevel string   `json:"experience_level"`
	SalaryMin       float64  `json:"salary_min"`
	SalaryMax       float64  `json:"salary_max"`
	Skills          []string `json:"skills"`
}

type MatchedSkill struct {
	CVSkill    string  `json:"cv_skill"`
	JobSkill   string  `json:"job_skill"`
	Similarity float64 `json:"similarity"`
}

// Application is an application as seen by the candidate, by the company and in the
// top candidate ranking of a job.
type Application struct {
	ID             ID             `json:"id"`
	JobID          ID             `json:"job_id"`
	JobTitle       string         `json:"job_title"`
	CompanyName    string         `json:"company_name"`
	CandidateName  string         `json:"candidate_name"`
	CandidateEmail string         `json:"candidate_email"`
	Status         string         `json:"status"`
	AppliedAt      Timestamp      `json:"applied_at"`
	MatchScore     float64        `json:"match_score"`
	CoverLetter    string         `json:"cover_letter"`
	MatchedSkills  []MatchedSkill `json:"matched_skills"`
	MissingSkills  []string       `json:"missing_skills"`
	ExtraSkills    []string       `json:"extra_skills"`
}

// SkillNames returns the candidate-side names of the matched skills.
func (a Application) SkillNames() []string {
	names := make([]string, 0, len(a.MatchedSkills))
	for _, ms := range a.MatchedSkills {
		names = append(names, ms.CVSkill)
	}
	return names
}

type ExtractedSkills struct {
	Standardized []string `json:"standardized"`
	Raw          []string `json:"raw"`
}

// All returns the standardized skills followed by the raw ones, without duplicates.
func (e ExtractedSkills) All() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range [][]string{e.Standardized, e.Raw} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if _, ok := seen[s]; ok || s == "" {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// Upload is a file already validated by the caller.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}
