package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSubmissionData_JSONKeepsKeyOrder(t *testing.T) {
	input := `{"zeta":1,"alpha":"x","mid":[1,2],"email":"a@b.co"}`

	var data SubmissionData
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := []string{"zeta", "alpha", "mid", "email"}
	if !reflect.DeepEqual(data.Keys(), want) {
		t.Errorf("Expected keys %v, got %v", want, data.Keys())
	}
	if data.Email() != "a@b.co" {
		t.Errorf("Expected email a@b.co, got %q", data.Email())
	}

	out, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != input {
		t.Errorf("Expected %s, got %s", input, out)
	}
}

func TestSubmissionData_Set(t *testing.T) {
	var data SubmissionData
	data.Set("a", 1)
	data.Set("b", 2)
	data.Set("a", 3)

	if !reflect.DeepEqual(data.Keys(), []string{"a", "b"}) {
		t.Errorf("Expected overwritten key to keep its position, got %v", data.Keys())
	}
	if v, _ := data.Get("a"); v != 3 {
		t.Errorf("Expected latest value 3, got %v", v)
	}
	if data.Len() != 2 {
		t.Errorf("Expected 2 keys, got %d", data.Len())
	}
}

func TestSubmissionData_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{"empty object", `{}`, 0, false},
		{"null", `null`, 0, true},
		{"nested object", `{"a":{"b":1}}`, 1, false},
		{"array", `[1,2]`, 0, true},
		{"string", `"text"`, 0, true},
		{"truncated", `{"a":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data SubmissionData
			err := json.Unmarshal([]byte(tt.input), &data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && data.Len() != tt.wantLen {
				t.Errorf("Expected %d keys, got %d", tt.wantLen, data.Len())
			}
		})
	}
}

func TestSubmissionData_EmptyMarshalsAsObject(t *testing.T) {
	out, err := json.Marshal(SubmissionData{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("Expected {}, got %s", out)
	}
}

func TestSubmissionData_BSONKeepsKeyOrder(t *testing.T) {
	type doc struct {
		Data SubmissionData `bson:"data"`
	}

	var data SubmissionData
	data.Set("Name", "Ada")
	data.Set("Tags", []interface{}{"a", "b"})
	data.Set("Address", map[string]interface{}{"city": "Paris"})
	data.Set("email", "ada@example.com")

	raw, err := bson.Marshal(doc{Data: data})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded doc
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := []string{"Name", "Tags", "Address", "email"}
	if !reflect.DeepEqual(decoded.Data.Keys(), want) {
		t.Errorf("Expected keys %v, got %v", want, decoded.Data.Keys())
	}

	tags, _ := decoded.Data.Get("Tags")
	if !reflect.DeepEqual(tags, []interface{}{"a", "b"}) {
		t.Errorf("Expected tags as plain slice, got %#v", tags)
	}
	addr, _ := decoded.Data.Get("Address")
	if !reflect.DeepEqual(addr, map[string]interface{}{"city": "Paris"}) {
		t.Errorf("Expected address as plain map, got %#v", addr)
	}
}

func TestFieldType_UnmarshalJSON(t *testing.T) {
	var f Field
	if err := json.Unmarshal([]byte(`{"label":"Age","type":"number","required":true}`), &f); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if f.Type != FieldNumber || !f.Required {
		t.Errorf("Unexpected field %+v", f)
	}

	if err := json.Unmarshal([]byte(`{"label":"Color","type":"color"}`), &f); err == nil {
		t.Error("Expected error for unknown field type")
	}
	if err := json.Unmarshal([]byte(`{"label":"Color","type":3}`), &f); err == nil {
		t.Error("Expected error for non-string field type")
	}
}

func TestFieldType_Traits(t *testing.T) {
	for _, ft := range []FieldType{FieldCheckbox, FieldSelect, FieldRadio} {
		if !ft.HasOptions() {
			t.Errorf("Expected %s to have options", ft)
		}
	}
	if FieldText.HasOptions() {
		t.Error("Expected text to have no options")
	}
	if !FieldCheckbox.MultiValued() || FieldRadio.MultiValued() {
		t.Error("Only checkbox fields should be multi-valued")
	}
}
