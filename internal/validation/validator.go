package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/smart-form-builder-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Date layouts accepted for date fields; the first is what browsers send
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator checks answers against one form before they are submitted.
// The server stores whatever it receives; these checks run client side.
type Validator struct {
	form    *models.Form
	options map[string]map[string]bool
}

// NewValidator creates a validator for form
func NewValidator(form *models.Form) *Validator {
	v := &Validator{
		form:    form,
		options: make(map[string]map[string]bool),
	}
	for _, f := range form.Fields {
		if !f.Type.HasOptions() || len(f.Options) == 0 {
			continue
		}
		allowed := make(map[string]bool, len(f.Options))
		for _, o := range f.Options {
			allowed[o.Value] = true
		}
		v.options[f.Label] = allowed
	}
	return v
}

// ValidateSubmission validates the respondent email and every field of the form
func (v *Validator) ValidateSubmission(data models.SubmissionData) []ValidationError {
	var errors []ValidationError

	// Validate respondent email
	email := data.Email()
	if email == "" {
		errors = append(errors, ValidationError{Field: models.EmailKey, Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errors = append(errors, ValidationError{Field: models.EmailKey, Message: "invalid email format", Value: email})
	}

	for _, f := range v.form.Fields {
		value, _ := data.Get(f.Label)
		if err := v.validateField(f, value); err != nil {
			errors = append(errors, *err)
		}
	}

	return errors
}

func (v *Validator) validateField(f models.Field, value interface{}) *ValidationError {
	if err := ValidateValue(f, value); err != nil {
		return err
	}
	allowed, ok := v.options[f.Label]
	if !ok || isEmpty(value) {
		return nil
	}

	var picked []string
	switch val := value.(type) {
	case string:
		picked = []string{val}
	case []string:
		picked = val
	case []interface{}:
		for _, item := range val {
			s, _ := item.(string)
			picked = append(picked, s)
		}
	}
	for _, p := range picked {
		if !allowed[p] {
			return &ValidationError{Field: f.Label, Message: "not one of the allowed options", Value: p}
		}
	}
	return nil
}

// ValidateValue checks a single answer against the field's required flag and type
func ValidateValue(f models.Field, value interface{}) *ValidationError {
	if isEmpty(value) {
		if f.Required {
			return &ValidationError{Field: f.Label, Message: fmt.Sprintf("%s is required", f.Label)}
		}
		return nil
	}

	invalid := func(msg string) *ValidationError {
		return &ValidationError{Field: f.Label, Message: msg, Value: value}
	}
	if isList(value) && !f.Type.MultiValued() {
		return invalid("only one value is allowed")
	}

	switch f.Type {
	case models.FieldText, models.FieldPassword, models.FieldTextarea, models.FieldFile,
		models.FieldSelect, models.FieldRadio:
		if _, ok := value.(string); !ok {
			return invalid("must be a string")
		}
	case models.FieldEmail:
		s, ok := value.(string)
		if !ok || !emailRegex.MatchString(s) {
			return invalid("invalid email format")
		}
	case models.FieldNumber:
		if !isNumber(value) {
			return invalid("must be a number")
		}
	case models.FieldDate:
		s, ok := value.(string)
		if !ok || !isDate(s) {
			return invalid("invalid date, expected YYYY-MM-DD")
		}
	case models.FieldCheckbox:
		switch value.(type) {
		case bool, string, []string, []interface{}:
		default:
			return invalid("must be a boolean or a list of options")
		}
	default:
		return invalid(fmt.Sprintf("unknown field type %q", f.Type))
	}
	return nil
}

func isEmpty(value interface{}) bool {
	switch val := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	case bool:
		// An unticked single checkbox is no answer
		return !val
	default:
		return false
	}
}

func isList(value interface{}) bool {
	switch value.(type) {
	case []string, []interface{}:
		return true
	default:
		return false
	}
}

func isNumber(value interface{}) bool {
	switch val := value.(type) {
	case float64, float32, int, int32, int64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return err == nil
	default:
		return false
	}
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
