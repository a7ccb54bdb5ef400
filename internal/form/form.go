// Package form validates the contact form field by field and runs its
// simulated submission.
package form

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/joeyaochen/portfolio/internal/clock"
)

// SubmitDelay is how long the simulated submission takes.
const SubmitDelay = 2 * time.Second

// SuccessMessage is the notification shown after a submission completes.
const SuccessMessage = "Message sent successfully!"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrInvalid    = errors.New("form has invalid fields")
	ErrSubmitting = errors.New("submission already in progress")
	ErrUnknown    = errors.New("unknown field")
)

type Kind string

const (
	KindRequired      Kind = "required"
	KindInvalidFormat Kind = "invalid-format"
)

// FieldError is the inline error attached to a field.
type FieldError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

type FieldType int

const (
	TypeText FieldType = iota
	TypeEmail
)

type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Multi    bool
}

// ContactFields is the contact form layout.
var ContactFields = []Field{
	{Name: "name", Label: "Name", Required: true},
	{Name: "email", Label: "Email", Type: TypeEmail, Required: true},
	{Name: "subject", Label: "Subject"},
	{Name: "message", Label: "Message", Required: true, Multi: true},
}

// Validate checks one value against its field rules. It returns nil when
// the value is acceptable.
func Validate(f Field, value string) *FieldError {
	v := strings.TrimSpace(value)
	if f.Required && v == "" {
		return &FieldError{Kind: KindRequired, Message: "This field is required"}
	}
	if f.Type == TypeEmail && v != "" && !emailPattern.MatchString(v) {
		return &FieldError{Kind: KindInvalidFormat, Message: "Please enter a valid email address"}
	}
	return nil
}

// Submission is a validated set of values.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Form struct {
	clock  clock.Clock
	fields []Field
	onSent func(Submission)

	mu           sync.Mutex
	values       map[string]string
	errs         map[string]*FieldError
	submitting   bool
	notification string
	pending      clock.Timer
}

type Option func(*Form)

// OnSent registers a callback run after each completed submission.
func OnSent(fn func(Submission)) Option {
	return func(f *Form) { f.onSent = fn }
}

func New(c clock.Clock, opts ...Option) *Form {
	f := &Form{
		clock:  c,
		fields: ContactFields,
		values: map[string]string{},
		errs:   map[string]*FieldError{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Blur stores value and validates the field.
func (f *Form) Blur(name, value string) (*FieldError, error) {
	fd, ok := f.field(name)
	if !ok {
		return nil, ErrUnknown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	return f.checkLocked(fd), nil
}

// Input stores value. The field is re-validated only if it is already
// marked invalid.
func (f *Form) Input(name, value string) (*FieldError, error) {
	fd, ok := f.field(name)
	if !ok {
		return nil, ErrUnknown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	if f.errs[name] == nil {
		return nil, nil
	}
	return f.checkLocked(fd), nil
}

func (f *Form) checkLocked(fd Field) *FieldError {
	fe := Validate(fd, f.values[fd.Name])
	if fe == nil {
		delete(f.errs, fd.Name)
	} else {
		f.errs[fd.Name] = fe
	}
	return fe
}

// Submit validates every field with values and, when all pass, starts the
// simulated submission. The form is cleared and the success notification
// set once SubmitDelay has passed.
func (f *Form) Submit(values map[string]string) (map[string]FieldError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return nil, ErrSubmitting
	}

	for k, v := range values {
		if _, ok := f.field(k); ok {
			f.values[k] = v
		}
	}
	var bad map[string]FieldError
	for _, fd := range f.fields {
		if fe := f.checkLocked(fd); fe != nil {
			if bad == nil {
				bad = map[string]FieldError{}
			}
			bad[fd.Name] = *fe
		}
	}
	if bad != nil {
		return bad, ErrInvalid
	}

	sub := Submission{
		Name:    strings.TrimSpace(f.values["name"]),
		Email:   strings.TrimSpace(f.values["email"]),
		Subject: strings.TrimSpace(f.values["subject"]),
		Message: strings.TrimSpace(f.values["message"]),
	}
	f.submitting = true
	f.notification = ""
	var t clock.Timer
	t = f.clock.AfterFunc(SubmitDelay, func() {
		f.mu.Lock()
		if f.pending != t {
			f.mu.Unlock()
			return
		}
		f.completeLocked(sub)
	})
	f.pending = t
	return nil, nil
}

// completeLocked finishes a submission and releases f.mu.
func (f *Form) completeLocked(sub Submission) {
	f.pending = nil
	f.submitting = false
	f.notification = SuccessMessage
	f.values = map[string]string{}
	f.errs = map[string]*FieldError{}
	onSent := f.onSent
	f.mu.Unlock()

	if onSent != nil {
		onSent(sub)
	}
}

// DismissNotification clears the success notification.
func (f *Form) DismissNotification() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notification = ""
}

// Close abandons an in-flight submission.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	f.submitting = false
}

type FieldView struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Email    bool        `json:"email"`
	Required bool        `json:"required"`
	Multi    bool        `json:"multi"`
	Value    string      `json:"value"`
	Error    *FieldError `json:"error,omitempty"`
}

type View struct {
	Fields         []FieldView `json:"fields"`
	SubmitDisabled bool        `json:"submit_disabled"`
	Loading        bool        `json:"loading"`
	Notification   string      `json:"notification,omitempty"`
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		Fields:         make([]FieldView, len(f.fields)),
		SubmitDisabled: f.submitting,
		Loading:        f.submitting,
		Notification:   f.notification,
	}
	for i, fd := range f.fields {
		fv := FieldView{
			Name:     fd.Name,
			Label:    fd.Label,
			Email:    fd.Type == TypeEmail,
			Required: fd.Required,
			Multi:    fd.Multi,
			Value:    f.values[fd.Name],
		}
		if fe := f.errs[fd.Name]; fe != nil {
			e := *fe
			fv.Error = &e
		}
		v.Fields[i] = fv
	}
	return v
}
