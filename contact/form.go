package contact

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while a previous
	// submission is still running.
	ErrSubmissionInFlight = errors.New("contact submission already in progress")
	// ErrInvalidForm is returned when Submit finds field errors.
	ErrInvalidForm = errors.New("contact form has invalid fields")
)

// InvalidFormError carries the field errors that blocked a submit.
type InvalidFormError struct {
	Errors Errors
}

func (e *InvalidFormError) Error() string {
	return ErrInvalidForm.Error()
}

// Is makes errors.Is(err, ErrInvalidForm) hold.
func (e *InvalidFormError) Is(target error) bool {
	return target == ErrInvalidForm
}

// Status is the submission lifecycle of a Form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Form holds one guest's contact form between keystrokes. It is safe for
// concurrent use.
type Form struct {
	mu        sync.Mutex
	validator *Validator
	data      FormData
	errors    Errors
	touched   map[Field]bool
	status    Status
	now       func() time.Time
}

// NewForm returns an empty idle form.
func NewForm(v *Validator) *Form {
	return &Form{
		validator: v,
		errors:    Errors{},
		touched:   map[Field]bool{},
		status:    StatusIdle,
		now:       time.Now,
	}
}

// Change records a keystroke. Touched fields are re-validated. A settled
// success or error status goes back to idle. Inputs are locked while submitting.
func (f *Form) Change(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status == StatusSubmitting {
		return
	}
	f.data.Set(field, value)
	if f.touched[field] {
		f.setError(field, f.validator.ValidateField(field, value))
	}
	if f.status == StatusSuccess || f.status == StatusError {
		f.status = StatusIdle
	}
}

// Blur marks field as touched and validates it.
func (f *Form) Blur(field Field) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.touched[field] = true
	f.setError(field, f.validator.ValidateField(field, f.data.Get(field)))
}

func (f *Form) setError(field Field, msg string) {
	if msg == "" {
		delete(f.errors, field)
		return
	}
	f.errors[field] = msg
}

// Submit touches every field, validates, and hands the sanitized payload to s.
// On success the form is cleared. On failure the data is kept for a retry.
func (f *Form) Submit(ctx context.Context, s Submitter) (Submission, error) {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return Submission{}, ErrSubmissionInFlight
	}
	for _, field := range FieldOrder {
		f.touched[field] = true
	}
	f.errors = f.validator.ValidateForm(f.data)
	if f.errors.HasErrors() {
		errs := make(Errors, len(f.errors))
		for k, v := range f.errors {
			errs[k] = v
		}
		f.mu.Unlock()
		return Submission{}, &InvalidFormError{Errors: errs}
	}
	payload := f.validator.FormatForSubmission(f.data, f.now())
	f.status = StatusSubmitting
	f.mu.Unlock()

	err := Dispatch(ctx, s, payload).Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusError
		return payload, err
	}
	f.status = StatusSuccess
	f.data = FormData{}
	f.errors = Errors{}
	f.touched = map[Field]bool{}
	return payload, nil
}

// Status returns the current lifecycle state.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Data returns a copy of the current input.
func (f *Form) Data() FormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Touched reports whether field has been blurred or submitted.
func (f *Form) Touched(field Field) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// VisibleErrors returns errors for touched fields only.
func (f *Form) VisibleErrors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()

	visible := Errors{}
	for field, msg := range f.errors {
		if f.touched[field] {
			visible[field] = msg
		}
	}
	return visible
}

// MessageLength returns the current message length and the configured limit
// for the character counter.
func (f *Form) MessageLength() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len([]rune(f.data.Message)), f.validator.MaxMessageLength()
}
