package leads

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	fieldName     = "name"
	fieldEmail    = "email"
	fieldIndustry = "industry"

	msgNameRequired = "Name is required"
	msgNameLength   = "Name must be between 2 and 50 characters"
	msgEmail        = "Please enter a valid email address"
	msgIndustry     = "Please select an industry"
)

var fieldOrder = map[string]int{fieldName: 0, fieldEmail: 1, fieldIndustry: 2}

// local@domain with at least one dot in the domain part.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// leadForm carries the validation rules; min/max count runes.
type leadForm struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,lead_email"`
	Industry string `validate:"required,lead_industry"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "lead_email", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	mustRegister(v, "lead_industry", func(fl validator.FieldLevel) bool {
		return Industry(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("leads: register validation " + tag + ": " + err.Error())
	}
}

// Validate checks a submission and returns at most one error per field, in
// name, email, industry order. It trims a copy of in and never mutates it.
func Validate(in LeadInput) []ValidationError {
	in = in.Normalized()
	err := formValidator.Struct(leadForm{
		Name:     in.Name,
		Email:    in.Email,
		Industry: in.Industry,
	})
	if err == nil {
		return []ValidationError{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error in leadForm.
		panic("leads: unexpected validator error: " + err.Error())
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		if seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, ValidationError{Field: field, Message: messageFor(field, fe.Tag())})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return fieldOrder[out[i].Field] < fieldOrder[out[j].Field]
	})
	return out
}

func messageFor(field, tag string) string {
	switch field {
	case fieldName:
		if tag == "required" {
			return msgNameRequired
		}
		return msgNameLength
	case fieldEmail:
		return msgEmail
	default:
		return msgIndustry
	}
}
