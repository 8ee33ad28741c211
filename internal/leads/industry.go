package leads

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Industry identifies the visitor's sector. Only the values below are accepted.
type Industry string

const (
	IndustryTechnology    Industry = "technology"
	IndustryHealthcare    Industry = "healthcare"
	IndustryFinance       Industry = "finance"
	IndustryEducation     Industry = "education"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryConsulting    Industry = "consulting"
	IndustryOther         Industry = "other"
)

// Industries lists the accepted identifiers in form display order.
var Industries = []Industry{
	IndustryTechnology,
	IndustryHealthcare,
	IndustryFinance,
	IndustryEducation,
	IndustryRetail,
	IndustryManufacturing,
	IndustryConsulting,
	IndustryOther,
}

// IsValid reports whether i is one of the accepted identifiers.
func (i Industry) IsValid() bool {
	for _, known := range Industries {
		if i == known {
			return true
		}
	}
	return false
}

// Label returns the human form, e.g. "Healthcare".
func (i Industry) Label() string {
	// cases.Caser is stateful, so one per call.
	return cases.Title(language.English).String(string(i))
}
