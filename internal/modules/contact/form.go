package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mx-space/portfolio/internal/models"
)

const (
	maxName    = 100
	maxPhone   = 20
	maxMessage = 1000
	maxSubject = 200
	maxCompany = 100
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is the public contact form payload.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Subject string `json:"subject"`
	Company string `json:"company"`
}

func length(s string) int { return utf8.RuneCountInString(strings.TrimSpace(s)) }

// Validate returns every rule the form breaks, in a fixed order.
func (f Form) Validate() []string {
	var errs []string

	switch n := length(f.Name); {
	case n == 0:
		errs = append(errs, "Name is required")
	case n > maxName:
		errs = append(errs, "Name must not exceed 100 characters")
	}

	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		errs = append(errs, "Email is required")
	case !emailPattern.MatchString(email):
		errs = append(errs, "Please provide a valid email address")
	}

	switch n := length(f.Phone); {
	case n == 0:
		errs = append(errs, "Phone number is required")
	case n > maxPhone:
		errs = append(errs, "Phone number must not exceed 20 characters")
	}

	switch n := length(f.Message); {
	case n == 0:
		errs = append(errs, "Message is required")
	case n > maxMessage:
		errs = append(errs, "Message must not exceed 1000 characters")
	}

	if length(f.Subject) > maxSubject {
		errs = append(errs, "Subject must not exceed 200 characters")
	}
	if length(f.Company) > maxCompany {
		errs = append(errs, "Company name must not exceed 100 characters")
	}
	return errs
}

// Submission builds the stored record from a valid form.
func (f Form) Submission(ip, userAgent string) *models.ContactModel {
	if ip == "" {
		ip = "unknown"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	return &models.ContactModel{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:     strings.TrimSpace(f.Phone),
		Message:   strings.TrimSpace(f.Message),
		Subject:   strings.TrimSpace(f.Subject),
		Company:   strings.TrimSpace(f.Company),
		Status:    models.ContactStatusNew,
		IPAddress: ip,
		UserAgent: userAgent,
	}
}
