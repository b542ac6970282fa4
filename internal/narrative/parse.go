package narrative

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerationError is returned for any failure between calling the model and
// holding a valid Report. There is no partial result.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("narrative %s failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

var validate = validator.New()

func ParseNarrative(raw string) (Report, error) {
	clean := stripCodeFences(raw)
	if clean == "" {
		return Report{}, &GenerationError{Stage: "parse", Err: errors.New("empty response")}
	}
	var rep Report
	if err := json.Unmarshal([]byte(clean), &rep); err != nil {
		return Report{}, &GenerationError{Stage: "parse", Err: err}
	}
	if err := validate.Struct(rep); err != nil {
		return Report{}, &GenerationError{Stage: "validate", Err: err}
	}
	return rep, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
