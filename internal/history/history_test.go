package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	return NewAggregator(time.UTC, zap.NewNop())
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

const sampleCSV = `Task Name,Task ID,Task Type,Date,Value
Clean,a1,habit,2024-01-01T10:00:00Z,1
Cook,a2,daily,2024-01-01T22:00:00Z,1
Run,a3,habit,2024-01-02T08:00:00Z,1
`

// ============================================================
// DayKey
// ============================================================

func TestDayKeyFormat(t *testing.T) {
	got := DayKey(time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC), time.UTC)
	if got != "20240307" {
		t.Fatalf("DayKey = %q, want 20240307", got)
	}
}

func TestDayKeyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	night := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	if DayKey(morning, time.UTC) != DayKey(night, time.UTC) {
		t.Fatal("same day should produce same key")
	}
}

func TestDayKeyPadsYear(t *testing.T) {
	got := DayKey(time.Date(987, 2, 3, 0, 0, 0, 0, time.UTC), time.UTC)
	if got != "09870203" {
		t.Fatalf("DayKey = %q, want 09870203", got)
	}
}

func TestDayKeyMixesUTCMonthWithLocalDay(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*3600)
	// Midnight UTC on Jan 2 is still Jan 1 five hours west.
	got := DayKey(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), west)
	if got != "20240101" {
		t.Fatalf("DayKey = %q, want 20240101", got)
	}
	// On the first of the month the day wraps but the month does not.
	got = DayKey(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), west)
	if got != "20240231" {
		t.Fatalf("DayKey = %q, want 20240231", got)
	}
}

func TestDayKeyNilLocation(t *testing.T) {
	d := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	if DayKey(d, nil) != DayKey(d, time.Local) {
		t.Fatal("nil location should behave as time.Local")
	}
}

// ============================================================
// ParseDate
// ============================================================

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-01T10:00:00Z", "2024-01-01", true},
		{"2024-01-01 22:00:00", "2024-01-01", true},
		{"2024-12-31", "2024-12-31", true},
		{"2024-1-1", "", false},
		{"", "", false},
		{"not-a-date-at-all", "", false},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if !tt.ok {
			if !errors.Is(err, ErrMalformedRow) {
				t.Errorf("ParseDate(%q) err = %v, want ErrMalformedRow", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.in, err)
			continue
		}
		if got.Format(dateLayout) != tt.want || got.Location() != time.UTC || got.Hour() != 0 {
			t.Errorf("ParseDate(%q) = %v, want %s midnight UTC", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Aggregate
// ============================================================

func TestAggregateGroupsByDay(t *testing.T) {
	a := newTestAggregator(t)
	days := a.Aggregate([]Row{
		{Task: "Clean", Timestamp: "2024-01-01T10:00:00Z"},
		{Task: "Cook", Timestamp: "2024-01-01T22:00:00Z"},
		{Task: "Run", Timestamp: "2024-01-02T08:00:00Z"},
	})

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Date.Equal(day(t, "2024-01-02")) || !slices.Equal(days[0].Tasks, []string{"Run"}) {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if !days[1].Date.Equal(day(t, "2024-01-01")) || !slices.Equal(days[1].Tasks, []string{"Clean", "Cook"}) {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
	if days[0].Key != "20240102" || days[1].Key != "20240101" {
		t.Fatalf("unexpected keys %q %q", days[0].Key, days[1].Key)
	}
}

func TestAggregateWeekday(t *testing.T) {
	a := newTestAggregator(t)
	days := a.Aggregate([]Row{{Task: "x", Timestamp: "2024-01-06"}}) // Saturday
	if days[0].Weekday != time.Saturday {
		t.Fatalf("weekday = %v, want Saturday", days[0].Weekday)
	}
}

func TestAggregateKeepsArrivalOrder(t *testing.T) {
	a := newTestAggregator(t)
	days := a.Aggregate([]Row{
		{Task: "b", Timestamp: "2024-05-05"},
		{Task: "a", Timestamp: "2024-05-05"},
		{Task: "c", Timestamp: "2024-05-05"},
	})
	if !slices.Equal(days[0].Tasks, []string{"b", "a", "c"}) {
		t.Fatalf("tasks reordered: %v", days[0].Tasks)
	}
}

func TestAggregateSkipsMalformedRows(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAggregator(time.UTC, zap.New(core))

	days := a.Aggregate([]Row{
		{Task: "ok", Timestamp: "2024-01-01T00:00:00Z"},
		{Task: "", Timestamp: "2024-01-01T00:00:00Z"},
		{Task: "bad", Timestamp: "yesterday"},
		{Task: "short", Timestamp: "2024"},
		{Task: "ok2", Timestamp: "2024-01-03T00:00:00Z"},
	})
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days.TotalTasks() != 2 {
		t.Fatalf("expected 2 tasks, got %d", days.TotalTasks())
	}
	if n := logs.FilterMessage("skipping history row").Len(); n != 3 {
		t.Fatalf("expected 3 skip logs, got %d", n)
	}
}

func TestAggregateEmpty(t *testing.T) {
	a := newTestAggregator(t)
	if days := a.Aggregate(nil); len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	a := newTestAggregator(t)
	rows := []Row{
		{Task: "a", Timestamp: "2024-01-01"},
		{Task: "b", Timestamp: "2024-01-03"},
		{Task: "c", Timestamp: "2024-01-02"},
	}
	before := slices.Clone(rows)
	a.Aggregate(rows)
	if !slices.Equal(rows, before) {
		t.Fatal("input rows were modified")
	}
}

func TestAggregateWesternZoneMergesMonthBoundary(t *testing.T) {
	// With the mixed UTC/local key, March 1st and March 30th 2024 share a key
	// five hours west of UTC. The first row seen wins the date.
	a := NewAggregator(time.FixedZone("UTC-5", -5*3600), nil)
	days := a.Aggregate([]Row{
		{Task: "a", Timestamp: "2024-03-30"},
		{Task: "b", Timestamp: "2024-03-01"},
	})
	if len(days) != 1 {
		t.Fatalf("expected keys to collide into 1 day, got %d", len(days))
	}
	if !days[0].Date.Equal(day(t, "2024-03-30")) || len(days[0].Tasks) != 2 {
		t.Fatalf("unexpected merged day %+v", days[0])
	}
}

func TestValidTask(t *testing.T) {
	tests := []struct {
		task string
		want bool
	}{
		{"Run", true},
		{"  Run ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}
	for _, tt := range tests {
		if got := ValidTask(tt.task); got != tt.want {
			t.Errorf("ValidTask(%q) = %v, want %v", tt.task, got, tt.want)
		}
	}
}

func TestNewAggregatorDefaults(t *testing.T) {
	a := NewAggregator(nil, nil)
	if a.Location() != time.Local {
		t.Fatal("nil location should default to time.Local")
	}
	a.Aggregate([]Row{{Task: "", Timestamp: ""}}) // nil logger must not panic
}

// ============================================================
// Aggregate properties
// ============================================================

func genRows(rt *rapid.T) []Row {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	n := rapid.IntRange(0, 80).Draw(rt, "n")
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		offset := rapid.IntRange(0, 400).Draw(rt, fmt.Sprintf("day_%d", i))
		hour := rapid.IntRange(0, 23).Draw(rt, fmt.Sprintf("hour_%d", i))
		task := rapid.SampledFrom([]string{"Run", "Read", "Cook", "Clean"}).Draw(rt, fmt.Sprintf("task_%d", i))
		ts := base.AddDate(0, 0, offset).Add(time.Duration(hour) * time.Hour).Format(time.RFC3339)
		rows = append(rows, Row{Task: task, Timestamp: ts})
	}
	return rows
}

func TestPropertyAggregateCoversEveryRow(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rows := genRows(rt)
		days := NewAggregator(time.UTC, nil).Aggregate(rows)

		want := make(map[string]int)
		for _, r := range rows {
			want[r.Timestamp[:10]+"|"+r.Task]++
		}
		got := make(map[string]int)
		for _, d := range days {
			for _, task := range d.Tasks {
				got[d.Date.Format(dateLayout)+"|"+task]++
			}
		}
		if len(got) != len(want) {
			rt.Fatalf("got %d distinct (day, task) pairs, want %d", len(got), len(want))
		}
		for k, n := range want {
			if got[k] != n {
				rt.Fatalf("pair %s: got %d, want %d", k, got[k], n)
			}
		}
	})
}

func TestPropertyAggregateStrictlyDescending(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		days := NewAggregator(time.UTC, nil).Aggregate(genRows(rt))
		for i := 1; i < len(days); i++ {
			if !days[i-1].Date.After(days[i].Date) {
				rt.Fatalf("days[%d]=%v not after days[%d]=%v", i-1, days[i-1].Date, i, days[i].Date)
			}
		}
	})
}

// ============================================================
// Sources
// ============================================================

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleCSV), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{
		{Task: "Clean", Timestamp: "2024-01-01T10:00:00Z"},
		{Task: "Cook", Timestamp: "2024-01-01T22:00:00Z"},
		{Task: "Run", Timestamp: "2024-01-02T08:00:00Z"},
	}
	if !slices.Equal(rows, want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
}

func TestReadCSVQuotedTaskName(t *testing.T) {
	in := "Task Name,Task ID,Task Type,Date\n\"Wash, dry, fold\",id,todo,2024-02-02T09:00:00Z\n"
	rows, err := ReadCSV(strings.NewReader(in), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Task != "Wash, dry, fold" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestReadCSVSkipsShortLines(t *testing.T) {
	in := "header\nonly,two\nTask,id,type,2024-01-01\n\n"
	rows, err := ReadCSV(strings.NewReader(in), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestReadCSVFirstRecordIsAlwaysHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"stray quotes", `Task "Name,Task ID`},
		{"single field", "garbage"},
		{"looks like data", "Stretch,id,habit,2024-01-01"},
		{"blank fields", ",,,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.header + "\nRun,id,habit,2024-01-02 08:00:00\nCook,id,habit,2024-01-03 09:00:00\n"
			rows, err := ReadCSV(strings.NewReader(in), nil)
			if err != nil {
				t.Fatal(err)
			}
			want := []Row{
				{Task: "Run", Timestamp: "2024-01-02 08:00:00"},
				{Task: "Cook", Timestamp: "2024-01-03 09:00:00"},
			}
			if !slices.Equal(rows, want) {
				t.Fatalf("rows = %+v, want %+v", rows, want)
			}
		})
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Task Name,Task ID,Task Type,Date\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	src := FileSource{Path: path}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if src.String() != path {
		t.Fatalf("String() = %q", src.String())
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := FileSource{Path: "/nonexistent/history.csv"}.Rows(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FileSource{Path: "whatever.csv"}.Rows(ctx)
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	rows, err := HTTPSource{URL: srv.URL, Client: srv.Client()}.Rows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := HTTPSource{URL: srv.URL}.Rows(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := HTTPSource{URL: url}.Rows(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
