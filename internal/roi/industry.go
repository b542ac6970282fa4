package roi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Industry is a closed set; ParseIndustry is the only way to build one from
// user input.
type Industry string

const (
	Manufacturing        Industry = "manufacturing"
	Healthcare           Industry = "healthcare"
	Finance              Industry = "finance"
	Retail               Industry = "retail"
	Technology           Industry = "technology"
	ProfessionalServices Industry = "professional-services"
	Other                Industry = "other"
)

type industryInfo struct {
	label      string
	multiplier float64
}

var industries = map[Industry]industryInfo{
	Manufacturing:        {"Manufacturing", 1.2},
	Healthcare:           {"Healthcare", 1.15},
	Finance:              {"Finance & Banking", 1.25},
	Retail:               {"Retail & E-commerce", 1.1},
	Technology:           {"Technology", 1.3},
	ProfessionalServices: {"Professional Services", 1.15},
	Other:                {"Other", 1.0},
}

// Industries in display order.
var Industries = []Industry{Manufacturing, Healthcare, Finance, Retail, Technology, ProfessionalServices, Other}

func ParseIndustry(s string) (Industry, error) {
	ind := Industry(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := industries[ind]; !ok {
		return "", fmt.Errorf("unknown industry %q", s)
	}
	return ind, nil
}

func (i Industry) Valid() bool {
	_, ok := industries[i]
	return ok
}

func (i Industry) Multiplier() float64 {
	return industries[i].multiplier
}

func (i Industry) Label() string {
	if info, ok := industries[i]; ok {
		return info.label
	}
	return string(i)
}

// UnmarshalJSON normalizes case and whitespace. Unknown values are kept so
// validation can report them against the field.
func (i *Industry) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := ParseIndustry(s); err == nil {
		*i = parsed
		return nil
	}
	*i = Industry(s)
	return nil
}
