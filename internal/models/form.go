package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FieldType is the closed set of input kinds a form field can take
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldDate     FieldType = "date"
	FieldPassword FieldType = "password"
	FieldTextarea FieldType = "textarea"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldFile     FieldType = "file"
)

var fieldTypes = map[FieldType]bool{
	FieldText:     true,
	FieldNumber:   true,
	FieldEmail:    true,
	FieldDate:     true,
	FieldPassword: true,
	FieldTextarea: true,
	FieldCheckbox: true,
	FieldSelect:   true,
	FieldRadio:    true,
	FieldFile:     true,
}

// Valid reports whether t is one of the known field types
func (t FieldType) Valid() bool {
	return fieldTypes[t]
}

// UnmarshalJSON rejects field types outside the known set
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field type must be a string: %w", err)
	}
	ft := FieldType(s)
	if !ft.Valid() {
		return fmt.Errorf("unknown field type %q", s)
	}
	*t = ft
	return nil
}

// HasOptions reports whether the field type draws its values from Options
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldCheckbox, FieldSelect, FieldRadio:
		return true
	default:
		return false
	}
}

// MultiValued reports whether a submitted value is a list
func (t FieldType) MultiValued() bool {
	return t == FieldCheckbox
}

// Option is one choice of a select, radio or checkbox field
type Option struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// Field is one input definition within a form
type Field struct {
	Label       string    `json:"label" bson:"label"`
	Type        FieldType `json:"type" bson:"type"`
	Required    bool      `json:"required" bson:"required"`
	Placeholder string    `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty" bson:"options,omitempty"`
}

// Form is a named, ordered collection of field definitions
type Form struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Fields      []Field   `json:"fields"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FormDraft is the body of POST /forms
type FormDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}
