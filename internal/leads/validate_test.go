package leads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() LeadInput {
	return LeadInput{Name: "John Doe", Email: "john@example.com", Industry: "technology"}
}

func fieldsOf(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidate_ValidInput(t *testing.T) {
	errs := Validate(validInput())
	require.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidate_AllFieldsInvalidInOrder(t *testing.T) {
	errs := Validate(LeadInput{Name: "J", Email: "bad", Industry: ""})
	require.Len(t, errs, 3)
	assert.Equal(t, []ValidationError{
		{Field: "name", Message: "Name must be between 2 and 50 characters"},
		{Field: "email", Message: "Please enter a valid email address"},
		{Field: "industry", Message: "Please select an industry"},
	}, errs)
}

func TestValidate_NameLengthBoundaries(t *testing.T) {
	for n := 0; n <= 60; n++ {
		in := validInput()
		in.Name = strings.Repeat("a", n)
		errs := Validate(in)
		hasNameErr := len(errs) > 0 && errs[0].Field == "name"
		switch {
		case n == 0:
			require.True(t, hasNameErr, "length %d", n)
			assert.Equal(t, "Name is required", errs[0].Message)
		case n < 2 || n > 50:
			require.True(t, hasNameErr, "length %d", n)
			assert.Equal(t, "Name must be between 2 and 50 characters", errs[0].Message)
		default:
			assert.False(t, hasNameErr, "length %d should be accepted", n)
		}
	}
}

func TestValidate_NameIsTrimmed(t *testing.T) {
	in := validInput()
	in.Name = "   a   "
	errs := Validate(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)

	in.Name = "   "
	errs = Validate(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "Name is required", errs[0].Message)
}

func TestValidate_NameCountsRunes(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("é", 50)
	assert.Empty(t, Validate(in))
}

func TestValidate_Email(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"john@example.com", true},
		{"  john@example.com  ", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"", false},
		{"bad", false},
		{"no-at.example.com", false},
		{"john@localhost", false},
		{"john@@example.com", false},
		{"john doe@example.com", false},
		{"@example.com", false},
		{"john@.", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			in := validInput()
			in.Email = tt.email
			errs := Validate(in)
			if tt.valid {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, ValidationError{Field: "email", Message: "Please enter a valid email address"}, errs[0])
		})
	}
}

func TestValidate_Industry(t *testing.T) {
	for _, industry := range Industries {
		in := validInput()
		in.Industry = string(industry)
		assert.Empty(t, Validate(in), "industry %s", industry)
	}

	for _, bad := range []string{"", "Technology", "tech", "agriculture", "other "} {
		in := validInput()
		in.Industry = bad
		errs := Validate(in)
		if bad == "other " {
			assert.Empty(t, errs, "trailing space is trimmed")
			continue
		}
		require.Len(t, errs, 1, "industry %q", bad)
		assert.Equal(t, "Please select an industry", errs[0].Message)
	}
}

func TestValidate_IsPureAndDeterministic(t *testing.T) {
	in := LeadInput{Name: " J ", Email: "bad", Industry: "space"}
	before := in

	first := Validate(in)
	second := Validate(in)

	assert.Equal(t, before, in, "input must not be mutated")
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"name", "email", "industry"}, fieldsOf(first))
}

func TestValidationErrorsMatchesErrInvalidLead(t *testing.T) {
	err := error(ValidationErrors(Validate(LeadInput{})))
	assert.ErrorIs(t, err, ErrInvalidLead)
	assert.Contains(t, err.Error(), "name: Name is required")
}

func TestIndustryLabel(t *testing.T) {
	assert.Equal(t, "Healthcare", IndustryHealthcare.Label())
	assert.Equal(t, "Manufacturing", IndustryManufacturing.Label())
	assert.True(t, IndustryOther.IsValid())
	assert.False(t, Industry("space").IsValid())
}
