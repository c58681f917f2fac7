package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailKey is the data key the client uses for the respondent's email
const EmailKey = "email"

var errSubmissionNotObject = errors.New("submission data must be a JSON object")

// Submission is one respondent's answers to a form
type Submission struct {
	ID          string         `json:"id"`
	FormID      string         `json:"formId"`
	Data        SubmissionData `json:"data"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// SubmissionData maps field labels to submitted values and remembers the
// order in which keys were first sent.
type SubmissionData struct {
	keys   []string
	values map[string]interface{}
}

// Set stores a value; an existing key keeps its original position
func (d *SubmissionData) Set(key string, value interface{}) {
	if d.values == nil {
		d.values = make(map[string]interface{})
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key
func (d SubmissionData) Get(key string) (interface{}, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (d SubmissionData) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of keys
func (d SubmissionData) Len() int {
	return len(d.keys)
}

// Email returns the respondent email if one was sent as a string
func (d SubmissionData) Email() string {
	v, _ := d.values[EmailKey].(string)
	return v
}

// MarshalJSON writes the object with keys in insertion order
func (d SubmissionData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value of %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys
func (d *SubmissionData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errSubmissionNotObject
	}

	var out SubmissionData
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode value of %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// MarshalBSON stores the data as an ordered document
func (d SubmissionData) MarshalBSON() ([]byte, error) {
	doc := make(bson.D, 0, len(d.keys))
	for _, k := range d.keys {
		doc = append(doc, bson.E{Key: k, Value: d.values[k]})
	}
	return bson.Marshal(doc)
}

// UnmarshalBSON restores the data from an ordered document
func (d *SubmissionData) UnmarshalBSON(data []byte) error {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	var out SubmissionData
	for _, e := range doc {
		out.Set(e.Key, normalizeBSON(e.Value))
	}
	*d = out
	return nil
}

// normalizeBSON converts driver container types into their JSON-friendly equivalents
func normalizeBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = normalizeBSON(e)
		}
		return m
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalizeBSON(e)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}

// SubmissionFilter narrows a submission listing
type SubmissionFilter struct {
	Email string
}

// ExportFormat is an output encoding for submission exports
type ExportFormat string

const (
	ExportCSV    ExportFormat = "csv"
	ExportNDJSON ExportFormat = "ndjson"
	ExportJSON   ExportFormat = "json"
)

// ValidExportFormats defines supported export encodings
var ValidExportFormats = map[ExportFormat]bool{
	ExportCSV:    true,
	ExportNDJSON: true,
	ExportJSON:   true,
}
