package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"goldwatch/internal/quote"
)

func TestAppendLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, "zs")
	defer j.Close()

	day := time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local)
	prices := []float64{885.5, 885.52, 884.999}
	for i, p := range prices {
		q := quote.Quote{Source: "zs", Price: p, Timestamp: day.Add(time.Duration(i) * time.Second)}
		if err := j.Append(q); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := LoadDay(dir, "zs", day)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(prices) {
		t.Fatalf("loaded %d quotes, want %d", len(got), len(prices))
	}
	for i, q := range got {
		if q.Price != prices[i] {
			t.Errorf("quote %d: price = %v, want %v", i, q.Price, prices[i])
		}
		want := day.Add(time.Duration(i) * time.Second)
		if !q.Timestamp.Equal(want) {
			t.Errorf("quote %d: timestamp = %v, want %v", i, q.Timestamp, want)
		}
	}
}

func TestAppendRollsOverOnDateChange(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, "ms")
	defer j.Close()

	d1 := time.Date(2026, 8, 27, 23, 59, 50, 0, time.Local)
	d2 := time.Date(2026, 8, 28, 0, 0, 5, 0, time.Local)

	if err := j.Append(quote.Quote{Source: "ms", Price: 1, Timestamp: d1}); err != nil {
		t.Fatalf("append day 1: %v", err)
	}
	if err := j.Append(quote.Quote{Source: "ms", Price: 2, Timestamp: d2}); err != nil {
		t.Fatalf("append day 2: %v", err)
	}

	for _, day := range []string{"2026-08-27", "2026-08-28"} {
		if _, err := os.Stat(Path(dir, "ms", day)); err != nil {
			t.Errorf("journal file for %s missing: %v", day, err)
		}
	}

	got, err := LoadDay(dir, "ms", d2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Price != 2 {
		t.Fatalf("day 2 journal = %+v, want single quote with price 2", got)
	}
}

func TestLoadDaySkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)

	path := Path(dir, "zs", "2026-08-27")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := strings.Join([]string{
		`"2026-08-27 10:00:00","885.5"`,
		`garbage line`,
		`"not a time","886"`,
		`"2026-08-27 10:00:15","not a price"`,
		`"2026-08-27 10:00:30","886.25"`,
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadDay(dir, "zs", day)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d quotes, want 2 (malformed lines skipped)", len(got))
	}
	if got[0].Price != 885.5 || got[1].Price != 886.25 {
		t.Fatalf("prices = %v, %v", got[0].Price, got[1].Price)
	}
}

func TestLoadDayMissingFile(t *testing.T) {
	got, err := LoadDay(t.TempDir(), "zs", time.Now())
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no quotes, got %d", len(got))
	}
}
