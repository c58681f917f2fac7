package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smart-form-builder-api/internal/mocks"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

func TestSubmissionService_SubmitAndList(t *testing.T) {
	services, _ := setupServices()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	sub, err := services.Submission.Submit(ctx, "contact", data("Name", "Alice", "email", "a@x.com"))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if sub.SubmittedAt.Before(before) {
		t.Errorf("Expected server-set submittedAt, got %v", sub.SubmittedAt)
	}
	if _, err := services.Submission.Submit(ctx, "other", data("x", 1.0)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	subs, err := services.Submission.ListByForm(ctx, "contact", models.SubmissionFilter{})
	if err != nil {
		t.Fatalf("ListByForm failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("Expected 1 submission, got %d", len(subs))
	}
	if name, _ := subs[0].Data.Get("Name"); name != "Alice" {
		t.Errorf("Expected Name Alice, got %v", name)
	}
	if subs[0].Data.Email() != "a@x.com" {
		t.Errorf("Expected email a@x.com, got %q", subs[0].Data.Email())
	}
}

func TestSubmissionService_ListByForm_EmailFilter(t *testing.T) {
	services, _ := setupServices()
	ctx := context.Background()

	services.Submission.Submit(ctx, "f", data("email", "a@x.com", "n", 1.0))
	services.Submission.Submit(ctx, "f", data("email", "b@x.com", "n", 2.0))
	services.Submission.Submit(ctx, "f", data("email", "a@x.com", "n", 3.0))

	subs, err := services.Submission.ListByForm(ctx, "f", models.SubmissionFilter{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("ListByForm failed: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("Expected 2 submissions for a@x.com, got %d", len(subs))
	}

	empty, err := services.Submission.ListByForm(ctx, "none", models.SubmissionFilter{})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil list, got %v, %v", empty, err)
	}
}

func TestSubmissionService_SubmitStoreError(t *testing.T) {
	services, repos := setupServices()
	repos.Submission.(*mocks.MockSubmissionRepository).InsertError = errors.New("disk full")

	if _, err := services.Submission.Submit(context.Background(), "f", data("a", "b")); err == nil {
		t.Error("Expected store error")
	}
}

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV %q: %v", s, err)
	}
	return records
}

func TestSubmissionService_ExportCSV_FirstSubmissionColumns(t *testing.T) {
	services, _ := setupServices()
	ctx := context.Background()

	services.Submission.Submit(ctx, "f", data("Name", "Alice", "email", "a@x.com", "Age", 30.0))
	services.Submission.Submit(ctx, "f", data("email", "b@x.com", "Extra", "dropped", "Name", "Bob"))
	services.Submission.Submit(ctx, "f", data("Name", "Carol, Jr.", "Age", 41.5, "email", nil))

	var buf bytes.Buffer
	if err := services.Submission.ExportCSV(ctx, &buf, "f"); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	want := [][]string{
		{"Name", "email", "Age"},
		{"Alice", "a@x.com", "30"},
		{"Bob", "b@x.com", ""},
		{"Carol, Jr.", "", "41.5"},
	}
	got := readCSV(t, buf.String())
	if len(got) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if strings.Join(got[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("Row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubmissionService_ExportCSV_NoSubmissions(t *testing.T) {
	services, _ := setupServices()

	var buf bytes.Buffer
	err := services.Submission.ExportCSV(context.Background(), &buf, "empty")
	if !errors.Is(err, service.ErrNoSubmissions) {
		t.Errorf("Expected ErrNoSubmissions, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %q", buf.String())
	}
}

func TestSubmissionService_Export(t *testing.T) {
	services, _ := setupServices()
	ctx := context.Background()
	services.Submission.Submit(ctx, "f", data("a", "1"))
	services.Submission.Submit(ctx, "f", data("a", "2"))

	t.Run("csv", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := services.Submission.Export(ctx, w, "f", models.ExportCSV); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Expected text/csv, got %s", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "submissions.csv") {
			t.Errorf("Expected attachment submissions.csv, got %s", cd)
		}
		if rows := readCSV(t, w.Body.String()); len(rows) != 3 {
			t.Errorf("Expected header and 2 rows, got %v", rows)
		}
	})

	t.Run("csv empty sets no headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := services.Submission.Export(ctx, w, "none", models.ExportCSV)
		if !errors.Is(err, service.ErrNoSubmissions) {
			t.Errorf("Expected ErrNoSubmissions, got %v", err)
		}
		if w.Header().Get("Content-Disposition") != "" {
			t.Error("Expected no attachment header")
		}
	})

	t.Run("ndjson", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := services.Submission.Export(ctx, w, "f", models.ExportNDJSON); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 lines, got %d", len(lines))
		}
		var sub models.Submission
		if err := json.Unmarshal([]byte(lines[1]), &sub); err != nil {
			t.Fatalf("Invalid NDJSON line: %v", err)
		}
		if v, _ := sub.Data.Get("a"); v != "2" {
			t.Errorf("Expected a=2, got %v", v)
		}
	})

	t.Run("json", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := services.Submission.Export(ctx, w, "none", models.ExportJSON); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if w.Body.String() != "[]" {
			t.Errorf("Expected empty array, got %s", w.Body.String())
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		err := services.Submission.Export(ctx, httptest.NewRecorder(), "f", "xml")
		if !errors.Is(err, service.ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{true, "true"},
		{false, "false"},
		{42.0, "42"},
		{0.25, "0.25"},
		{int32(7), "7"},
		{int64(-3), "-3"},
		{[]interface{}{"a", "b"}, `["a","b"]`},
		{map[string]interface{}{"k": 1.0}, `{"k":1}`},
		{time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), "2024-05-01T12:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.in), func(t *testing.T) {
			if got := service.FormatCell(tt.in); got != tt.want {
				t.Errorf("FormatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkExportCSV(b *testing.B) {
	services, _ := setupServices()
	ctx := context.Background()
	for i := 0; i < 10000; i++ {
		services.Submission.Submit(ctx, "bench", data(
			"Name", fmt.Sprintf("User %d", i),
			"email", fmt.Sprintf("user%d@example.com", i),
			"Age", float64(20+i%50),
			"Tags", []interface{}{"a", "b"},
		))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := services.Submission.ExportCSV(ctx, &buf, "bench"); err != nil {
			b.Fatal(err)
		}
	}
}
