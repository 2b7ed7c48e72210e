package worklog

import (
	"testing"
	"time"
)

func TestWeek_EndAndContains(t *testing.T) {
	t.Parallel()

	week := NewWeek(time.Date(2025, 3, 24, 10, 30, 0, 0, time.UTC))

	if got := week.Start.Day(); got != 24 {
		t.Fatalf("expected start day 24, got %d", got)
	}
	if got := week.End(); got.Day() != 30 || got.Month() != time.March {
		t.Fatalf("unexpected end: %v", got)
	}

	inside := time.Date(2025, 3, 27, 23, 0, 0, 0, time.UTC)
	if !week.Contains(inside) {
		t.Fatalf("expected %v inside %v", inside, week)
	}
	before := time.Date(2025, 3, 23, 12, 0, 0, 0, time.UTC)
	if week.Contains(before) {
		t.Fatalf("expected %v outside %v", before, week)
	}
	after := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	if week.Contains(after) {
		t.Fatalf("expected %v outside %v", after, week)
	}
}

func TestWeek_ContainsAcrossZones(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Week anchored at a local midnight, days parsed as UTC midnights.
	week := NewWeek(time.Date(2025, 3, 24, 0, 0, 0, 0, loc))
	for _, day := range []time.Time{
		time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC),
	} {
		if !week.Contains(day) {
			t.Fatalf("expected %v inside %v", day, week)
		}
	}
	if week.Contains(time.Date(2025, 3, 23, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected day before start to be outside %v", week)
	}
}

func TestWeek_DaysUntil(t *testing.T) {
	t.Parallel()

	source := NewWeek(time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC))
	dest := NewWeek(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))

	if got := source.DaysUntil(dest); got != 7 {
		t.Fatalf("expected offset 7, got %d", got)
	}
	if got := dest.DaysUntil(source); got != -7 {
		t.Fatalf("expected offset -7, got %d", got)
	}
	if got := source.DaysUntil(source); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestWeek_DaysUntil_AcrossDSTChange(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// The 2025-03-30 CET to CEST switch sits between the two starts.
	source := NewWeek(time.Date(2025, 3, 24, 0, 0, 0, 0, loc))
	dest := NewWeek(time.Date(2025, 3, 31, 0, 0, 0, 0, loc))

	if got := source.DaysUntil(dest); got != 7 {
		t.Fatalf("expected offset 7 across DST change, got %d", got)
	}
}

func TestWeek_Days(t *testing.T) {
	t.Parallel()

	week := NewWeek(time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC))
	days := week.Days()

	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0].Day() != 24 || days[6].Day() != 30 {
		t.Fatalf("unexpected span: %v .. %v", days[0], days[6])
	}
}

func TestParseWeek(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)

	week, err := ParseWeek("2025-03-24", ref)
	if err != nil {
		t.Fatalf("parse week: %v", err)
	}
	if week.String() != "2025-03-24..2025-03-30" {
		t.Fatalf("unexpected week: %s", week)
	}

	if _, err := ParseWeek("not-a-date-at-all", ref); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParseWeek_RejectsWordInput(t *testing.T) {
	t.Parallel()

	// A bare word must not silently become the week containing ref.
	ref := time.Date(2025, 3, 26, 15, 0, 0, 0, time.UTC)
	for _, input := range []string{"asdf", "hello world"} {
		week, err := ParseWeek(input, ref)
		if err == nil {
			t.Fatalf("ParseWeek(%q) = %s, expected error", input, week)
		}
	}
}
