package enquiry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		form           Form
		expectedFields []string
	}{
		{
			name:           "valid form",
			form:           Form{Name: "Ada Lovelace", Email: "ada@example.com", Message: "Tell me more"},
			expectedFields: nil,
		},
		{
			name:           "valid form with phone",
			form:           Form{Name: "Ada", Email: "ada@example.com", Phone: "5551234567", Message: "hi"},
			expectedFields: nil,
		},
		{
			name:           "missing name",
			form:           Form{Name: "", Email: "a@b.com", Message: "hi"},
			expectedFields: []string{FieldName},
		},
		{
			name:           "whitespace-only name",
			form:           Form{Name: "   ", Email: "a@b.com", Message: "hi"},
			expectedFields: []string{FieldName},
		},
		{
			name:           "missing email",
			form:           Form{Name: "A", Email: "", Message: "hi"},
			expectedFields: []string{FieldEmail},
		},
		{
			name:           "malformed email",
			form:           Form{Name: "A", Email: "bad", Message: "hi"},
			expectedFields: []string{FieldEmail},
		},
		{
			name:           "email without dot",
			form:           Form{Name: "A", Email: "a@b", Message: "hi"},
			expectedFields: []string{FieldEmail},
		},
		{
			name:           "missing message",
			form:           Form{Name: "A", Email: "a@b.com", Message: ""},
			expectedFields: []string{FieldMessage},
		},
		{
			name:           "everything missing",
			form:           Form{},
			expectedFields: []string{FieldName, FieldEmail, FieldMessage},
		},
		{
			name:           "phone is never validated",
			form:           Form{Name: "A", Email: "a@b.com", Phone: "not-a-phone", Message: "hi"},
			expectedFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := Validate(tt.form)

			assert.Len(t, errors, len(tt.expectedFields))
			for _, field := range tt.expectedFields {
				assert.Contains(t, errors, field)
				assert.NotEmpty(t, errors[field])
			}
		})
	}
}

func TestValidate_EmailMessages(t *testing.T) {
	// Empty and malformed emails produce different messages
	emptyErrs := Validate(Form{Name: "A", Email: "", Message: "hi"})
	badErrs := Validate(Form{Name: "A", Email: "nope", Message: "hi"})

	assert.Equal(t, "Email is required", emptyErrs[FieldEmail])
	assert.Equal(t, "Email is invalid", badErrs[FieldEmail])
}
