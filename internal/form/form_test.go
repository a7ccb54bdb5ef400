package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joeyaochen/portfolio/internal/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	nameField  = ContactFields[0]
	emailField = ContactFields[1]
	subjField  = ContactFields[2]
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  Kind
	}{
		{"required empty", nameField, "", KindRequired},
		{"required whitespace", nameField, "   \t", KindRequired},
		{"required filled", nameField, "Ada", ""},
		{"optional empty", subjField, "", ""},
		{"email empty", emailField, "", KindRequired},
		{"email no at", emailField, "ada.example.com", KindInvalidFormat},
		{"email no dot", emailField, "ada@example", KindInvalidFormat},
		{"email with space", emailField, "ada lovelace@example.com", KindInvalidFormat},
		{"email two ats", emailField, "a@b@example.com", KindInvalidFormat},
		{"email ok", emailField, "ada@example.com", ""},
		{"email padded ok", emailField, "  ada@example.com ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Validate(tt.field, tt.value)
			if tt.want == "" {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, tt.want, fe.Kind)
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	assert.Equal(t, "This field is required", Validate(nameField, "").Message)
	assert.Equal(t, "Please enter a valid email address", Validate(emailField, "nope").Message)
}

func TestInput_LazyRecheck(t *testing.T) {
	f := New(clock.NewFake())

	fe, err := f.Input("email", "a")
	require.NoError(t, err)
	assert.Nil(t, fe, "untouched field is not validated while typing")

	fe, err = f.Blur("email", "a")
	require.NoError(t, err)
	require.NotNil(t, fe)
	assert.Equal(t, KindInvalidFormat, fe.Kind)

	fe, err = f.Input("email", "a@b")
	require.NoError(t, err)
	require.NotNil(t, fe, "invalid field is re-checked on input")

	fe, err = f.Input("email", "a@b.co")
	require.NoError(t, err)
	assert.Nil(t, fe)
	assert.Nil(t, f.View().Fields[1].Error)
}

func TestUnknownField(t *testing.T) {
	f := New(clock.NewFake())
	_, err := f.Blur("phone", "1")
	assert.ErrorIs(t, err, ErrUnknown)
	_, err = f.Input("phone", "1")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestSubmit_Invalid(t *testing.T) {
	fc := clock.NewFake()
	f := New(fc)

	bad, err := f.Submit(map[string]string{"name": "Ada", "email": "bad"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, map[string]FieldError{
		"email":   {Kind: KindInvalidFormat, Message: "Please enter a valid email address"},
		"message": {Kind: KindRequired, Message: "This field is required"},
	}, bad)

	v := f.View()
	assert.False(t, v.SubmitDisabled)
	assert.Equal(t, "Ada", v.Fields[0].Value, "values are kept for correction")
	assert.Equal(t, 0, fc.Pending())
}

func TestSubmit_SuccessAfterDelay(t *testing.T) {
	fc := clock.NewFake()
	var sent []Submission
	f := New(fc, OnSent(func(s Submission) { sent = append(sent, s) }))

	_, err := f.Submit(map[string]string{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"message": " Hello there ",
	})
	require.NoError(t, err)

	v := f.View()
	assert.True(t, v.SubmitDisabled)
	assert.True(t, v.Loading)
	assert.Empty(t, v.Notification)

	_, err = f.Submit(nil)
	assert.ErrorIs(t, err, ErrSubmitting)

	fc.Advance(SubmitDelay - time.Millisecond)
	assert.True(t, f.View().Loading)
	assert.Empty(t, sent)

	fc.Advance(time.Millisecond)
	v = f.View()
	assert.Equal(t, SuccessMessage, v.Notification)
	assert.False(t, v.SubmitDisabled)
	assert.False(t, v.Loading)
	for _, fv := range v.Fields {
		assert.Empty(t, fv.Value, fv.Name)
		assert.Nil(t, fv.Error, fv.Name)
	}
	require.Len(t, sent, 1)
	assert.Equal(t, Submission{Name: "Ada Lovelace", Email: "ada@example.com", Message: "Hello there"}, sent[0])

	f.DismissNotification()
	assert.Empty(t, f.View().Notification)
}

func TestClose_AbandonsSubmission(t *testing.T) {
	fc := clock.NewFake()
	called := false
	f := New(fc, OnSent(func(Submission) { called = true }))

	_, err := f.Submit(map[string]string{"name": "A", "email": "a@b.co", "message": "m"})
	require.NoError(t, err)
	f.Close()
	fc.Advance(time.Minute)

	assert.False(t, called)
	assert.False(t, f.View().Loading)
}
