package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var inputEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeInput HTML-escapes < > " ' and /.
func SanitizeInput(input string) string {
	return inputEscaper.Replace(input)
}

// Submission is the sanitized payload handed to a Submitter. It is the
// wire format for the contact endpoint.
type Submission struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Recipient string `json:"recipient"`
}

// FormatForSubmission trims and escapes every field, lower-cases the email
// and stamps the payload with now.
func (v *Validator) FormatForSubmission(data FormData, now time.Time) Submission {
	phone := ""
	if data.Phone != "" {
		phone = SanitizeInput(strings.TrimSpace(data.Phone))
	}
	return Submission{
		ID:        uuid.NewString(),
		Name:      SanitizeInput(strings.TrimSpace(data.Name)),
		Email:     SanitizeInput(strings.ToLower(strings.TrimSpace(data.Email))),
		Phone:     phone,
		Subject:   SanitizeInput(strings.TrimSpace(data.Subject)),
		Message:   SanitizeInput(strings.TrimSpace(data.Message)),
		Timestamp: now.UTC().Format(timestampLayout),
		Recipient: v.recipient,
	}
}
