package services

import (
	"fmt"
	"strconv"
	"strings"
)

var translations = map[string]map[string]string{
	"en": {
		"appName":              "JobMatch",
		"login":                "Login",
		"signup":               "Sign up",
		"logout":               "Logout",
		"email":                "Email",
		"password":             "Password",
		"candidate":            "Candidate",
		"company":              "Company",
		"accountType":          "Account type",
		"firstName":            "First name",
		"lastName":             "Last name",
		"phone":                "Phone",
		"location":             "Location",
		"currentTitle":         "Current title",
		"yearsExperience":      "Years of experience",
		"companyName":          "Company name",
		"description":          "Description",
		"website":              "Website",
		"industry":             "Industry",
		"createAccount":        "Create account",
		"signInInstead":        "Sign in instead",
		"signUpInstead":        "Create an account",
		"signInWithGoogle":     "Sign in with Google",
		"jobs":                 "Jobs",
		"profile":              "Profile",
		"myApplications":       "My applications",
		"applicants":           "Applicants",
		"postedJobs":           "Posted jobs",
		"postJob":              "Post a job",
		"title":                "Title",
		"position":             "Position",
		"requirements":         "Requirements",
		"employmentType":       "Employment type",
		"experienceLevel":      "Experience level",
		"salary":               "Salary",
		"salaryMin":            "Minimum salary",
		"salaryMax":            "Maximum salary",
		"skills":               "Skills",
		"extractSkills":        "Extract skills",
		"search":               "Search",
		"filter":               "Filter",
		"reset":                "Reset",
		"status":               "Status",
		"date":                 "Date",
		"all":                  "All",
		"sortBy":               "Sort by",
		"sortScore":            "Match score",
		"sortName":             "Name",
		"matchScore":           "Match score",
		"matchedSkills":        "Matched skills",
		"missingSkills":        "Missing skills",
		"totalJobs":            "Total jobs",
		"activeJobs":           "Active jobs",
		"inactiveJobs":         "Inactive jobs",
		"totalApplications":    "Total applications",
		"active":               "Active",
		"inactive":             "Inactive",
		"extraSkills":          "Additional skills",
		"apply":                "Apply",
		"coverLetter":          "Cover letter",
		"appliedAt":            "Applied on",
		"applications":         "Applications",
		"save":                 "Save",
		"upload":               "Upload",
		"cv":                   "CV (PDF)",
		"profilePicture":       "Profile picture",
		"updateStatus":         "Update status",
		"topCandidates":        "Top candidates",
		"noResults":            "Nothing matches your filters.",
		"shown":                "shown",
		"of":                   "of",
		"pending":              "Pending",
		"approved":             "Approved",
		"rejected":             "Rejected",
		"invalidFields":        "Please check the highlighted fields.",
		"invalidDate":          "Please enter a date in the format YYYY-MM-DD.",
		"descriptionRequired":  "Please enter a description first.",
		"invalidCredentials":   "Invalid credentials.",
		"sessionExpired":       "Your session has expired. Please sign in again.",
		"wrongRole":            "This action is not available for your account type.",
		"invalidFileType":      "The file type is not supported.",
		"fileTooLarge":         "The file is too large.",
		"invalidSalaryRange":   "The minimum salary must not exceed the maximum salary.",
		"invalidStatus":        "Unknown application status.",
		"apiUnavailable":       "The service is currently unavailable. Please try again.",
		"notFound":             "Not found.",
		"requestRejected":      "The request was rejected.",
		"apiError":             "Something went wrong. Please try again.",
		"registrationSuccess":  "Registration successful. Please sign in.",
		"applicationSubmitted": "Application submitted successfully!",
		"profileSaved":         "Profile saved.",
		"cvUploaded":           "CV uploaded successfully!",
		"pictureUploaded":      "Profile picture updated.",
		"statusUpdated":        "Status updated!",
		"jobCreated":           "Job posted.",
		"repeatPassword":       "Repeat password",
		"currentCV":            "Current CV",
	},
	"de": {
		"appName":              "JobMatch",
		"login":                "Anmelden",
		"signup":               "Registrieren",
		"logout":               "Abmelden",
		"email":                "Email",
		"password":             "Passwort",
		"candidate":            "Bewerber",
		"company":              "Unternehmen",
		"accountType":          "Kontotyp",
		"firstName":            "Vorname",
		"lastName":             "Nachname",
		"phone":                "Telefon",
		"location":             "Ort",
		"currentTitle":         "Aktuelle Position",
		"yearsExperience":      "Jahre Berufserfahrung",
		"companyName":          "Firmenname",
		"description":          "Beschreibung",
		"website":              "Webseite",
		"industry":             "Branche",
		"createAccount":        "Account erstellen",
		"signInInstead":        "Stattdessen anmelden",
		"signUpInstead":        "Account erstellen",
		"signInWithGoogle":     "Mit Google anmelden",
		"jobs":                 "Stellen",
		"profile":              "Profil",
		"myApplications":       "Meine Bewerbungen",
		"applicants":           "Bewerber",
		"postedJobs":           "Ausgeschriebene Stellen",
		"postJob":              "Stelle ausschreiben",
		"title":                "Titel",
		"position":             "Position",
		"requirements":         "Anforderungen",
		"employmentType":       "Anstellungsart",
		"experienceLevel":      "Erfahrungsstufe",
		"salary":               "Gehalt",
		"salaryMin":            "Mindestgehalt",
		"salaryMax":            "Höchstgehalt",
		"skills":               "Fähigkeiten",
		"extractSkills":        "Fähigkeiten erkennen",
		"search":               "Suchen",
		"filter":               "Filtern",
		"reset":                "Zurücksetzen",
		"status":               "Status",
		"date":                 "Datum",
		"all":                  "Alle",
		"sortBy":               "Sortieren nach",
		"sortScore":            "Übereinstimmung",
		"sortName":             "Name",
		"matchScore":           "Übereinstimmung",
		"matchedSkills":        "Passende Fähigkeiten",
		"missingSkills":        "Fehlende Fähigkeiten",
		"totalJobs":            "Stellen gesamt",
		"activeJobs":           "Aktive Stellen",
		"inactiveJobs":         "Inaktive Stellen",
		"totalApplications":    "Bewerbungen gesamt",
		"active":               "Aktiv",
		"inactive":             "Inaktiv",
		"extraSkills":          "Weitere Fähigkeiten",
		"apply":                "Bewerben",
		"coverLetter":          "Anschreiben",
		"appliedAt":            "Beworben am",
		"applications":         "Bewerbungen",
		"save":                 "Speichern",
		"upload":               "Hochladen",
		"cv":                   "Lebenslauf (PDF)",
		"profilePicture":       "Profilbild",
		"updateStatus":         "Status ändern",
		"topCandidates":        "Beste Kandidaten",
		"noResults":            "Keine Treffer für deine Filter.",
		"shown":                "angezeigt",
		"of":                   "von",
		"pending":              "Ausstehend",
		"approved":             "Angenommen",
		"rejected":             "Abgelehnt",
		"invalidFields":        "Bitte überprüfe die markierten Felder.",
		"invalidDate":          "Bitte gib ein Datum im Format JJJJ-MM-TT ein.",
		"descriptionRequired":  "Bitte gib zuerst eine Beschreibung ein.",
		"invalidCredentials":   "Ungültige Zugangsdaten.",
		"sessionExpired":       "Deine Sitzung ist abgelaufen. Bitte melde dich erneut an.",
		"wrongRole":            "Diese Aktion ist für deinen Kontotyp nicht verfügbar.",
		"invalidFileType":      "Der Dateityp wird nicht unterstützt.",
		"fileTooLarge":         "Die Datei ist zu groß.",
		"invalidSalaryRange":   "Das Mindestgehalt darf das Höchstgehalt nicht übersteigen.",
		"invalidStatus":        "Unbekannter Bewerbungsstatus.",
		"apiUnavailable":       "Der Dienst ist derzeit nicht erreichbar. Bitte versuche es erneut.",
		"notFound":             "Nicht gefunden.",
		"requestRejected":      "Die Anfrage wurde abgelehnt.",
		"apiError":             "Etwas ist schiefgelaufen. Bitte versuche es erneut.",
		"registrationSuccess":  "Registrierung erfolgreich. Bitte melde dich an.",
		"applicationSubmitted": "Bewerbung erfolgreich abgeschickt!",
		"profileSaved":         "Profil gespeichert.",
		"cvUploaded":           "Lebenslauf erfolgreich hochgeladen!",
		"pictureUploaded":      "Profilbild aktualisiert.",
		"statusUpdated":        "Status aktualisiert!",
		"jobCreated":           "Stelle ausgeschrieben.",
		"repeatPassword":       "Passwort wiederholen",
		"currentCV":            "Aktueller Lebenslauf",
	},
}

func Translate(lang, key string) (string, error) {
	t, ok := translations[lang]
	if !ok {
		t = translations["en"]
	}
	v, ok := t[key]
	if !ok {
		v, ok = translations["en"][key]
		if !ok {
			return "", fmt.Errorf("unknown key: %s", key)
		}
	}
	return v, nil
}

// T is Translate for call sites that print the key of an unknown translation.
func T(lang, key string) string {
	v, err := Translate(lang, key)
	if err != nil {
		return key
	}
	return v
}

func GetLanguageFromAcceptLanguageHeader(headerValue string) string {
	lang := "en"
	quality := float64(0)

	for _, s := range strings.Split(headerValue, ",") {
		parts := strings.Split(s, ";")
		q := float64(1)
		if len(parts) > 1 {
			qStr := strings.TrimSpace(parts[1])
			qStr = strings.TrimPrefix(qStr, "q=")
			if v, err := strconv.ParseFloat(qStr, 64); err == nil {
				q = v
			}
		}

		if q > quality {
			l := strings.ToLower(strings.TrimSpace(strings.Split(parts[0], "-")[0]))
			if _, ok := translations[l]; ok {
				lang = l
				quality = q
			}
		}
	}

	return lang
}
