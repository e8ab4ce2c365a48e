// Package contact validates, sanitizes and submits the guest contact form.
package contact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gilby125/pelicans-place/config"
)

// Field names a contact form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// FieldOrder is the order inputs are rendered and validated in.
var FieldOrder = []Field{FieldName, FieldEmail, FieldPhone, FieldSubject, FieldMessage}

// DefaultMaxMessageLength applies when the configured limit is unset.
const DefaultMaxMessageLength = 1000

// FormData is the raw contact form as typed by the guest.
type FormData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Get returns the value of field.
func (d FormData) Get(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldSubject:
		return d.Subject
	case FieldMessage:
		return d.Message
	}
	return ""
}

// Set stores value into field. Unknown fields are ignored.
func (d *FormData) Set(field Field, value string) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldSubject:
		d.Subject = value
	case FieldMessage:
		d.Message = value
	}
}

// Errors maps a field to its error message. Only failing fields are present.
type Errors map[Field]string

// HasErrors reports whether any field failed validation.
func (e Errors) HasErrors() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[-\d\s()+.]+$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// IsValidEmail applies a simple local@domain.tld check.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone accepts an empty value, otherwise digits and common separators
// with at least ten digits.
func IsValidPhone(phone string) bool {
	if strings.TrimSpace(phone) == "" {
		return true
	}
	return phonePattern.MatchString(phone) && len(nonDigit.ReplaceAllString(phone, "")) >= 10
}

// Validator holds the configurable limits of the contact form.
type Validator struct {
	maxMessageLength int
	recipient        string
	required         map[Field]bool
}

// NewValidator builds a Validator from the contact configuration.
func NewValidator(cfg config.ContactConfig) *Validator {
	maxLen := cfg.MaxMessageLength
	if maxLen <= 0 {
		maxLen = DefaultMaxMessageLength
	}
	required := make(map[Field]bool, len(cfg.RequiredFields))
	for _, f := range cfg.RequiredFields {
		required[Field(f)] = true
	}
	return &Validator{
		maxMessageLength: maxLen,
		recipient:        cfg.RecipientEmail,
		required:         required,
	}
}

// MaxMessageLength returns the message length limit in characters.
func (v *Validator) MaxMessageLength() int {
	return v.maxMessageLength
}

// IsRequired reports whether the form marks field as required.
func (v *Validator) IsRequired(field Field) bool {
	return v.required[field]
}

// ValidateField checks one trimmed value. An empty string means valid.
// Lengths are counted in characters, not bytes.
func (v *Validator) ValidateField(field Field, value string) string {
	trimmed := strings.TrimSpace(value)
	length := utf8.RuneCountInString(trimmed)

	switch field {
	case FieldName:
		if length < 2 {
			return "Name must be at least 2 characters"
		}
		if length > 50 {
			return "Name must be less than 50 characters"
		}
	case FieldEmail:
		if trimmed == "" {
			return "Email is required"
		}
		if !IsValidEmail(trimmed) {
			return "Please enter a valid email address"
		}
	case FieldPhone:
		if trimmed != "" && !IsValidPhone(trimmed) {
			return "Please enter a valid phone number"
		}
	case FieldSubject:
		if length < 3 {
			return "Subject must be at least 3 characters"
		}
		if length > 100 {
			return "Subject must be less than 100 characters"
		}
	case FieldMessage:
		if length < 10 {
			return "Message must be at least 10 characters"
		}
		if length > v.maxMessageLength {
			return fmt.Sprintf("Message must be less than %d characters", v.maxMessageLength)
		}
	}
	return ""
}

// ValidateForm runs every field rule and returns the failures.
func (v *Validator) ValidateForm(data FormData) Errors {
	errs := Errors{}
	for _, field := range FieldOrder {
		if msg := v.ValidateField(field, data.Get(field)); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// ParseField maps an input name onto a known Field.
func ParseField(name string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range FieldOrder {
		if f == known {
			return f, true
		}
	}
	return "", false
}
