package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestParseDay_ExactDate(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)
	got, err := ParseDay("2025-03-24", ref)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 24 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestParseDay_NaturalLanguage(t *testing.T) {
	t.Parallel()

	// Thursday 2025-04-10.
	ref := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		input string
		want  string
	}{
		{"yesterday", "2025-04-09"},
		{"today", "2025-04-10"},
		{"last monday", "2025-04-07"},
		{"2 weeks ago", "2025-03-27"},
	}
	for _, tc := range cases {
		got, err := ParseDay(tc.input, ref)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", tc.input, err)
		}
		if FormatDay(got) != tc.want {
			t.Fatalf("ParseDay(%q) = %v, want %s", tc.input, got, tc.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
			t.Fatalf("ParseDay(%q): expected start of day, got %v", tc.input, got)
		}
	}
}

func TestParseDay_Invalid(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)

	// The grammar consumes plain words without resolving any date, so these
	// must be rejected rather than silently becoming the reference day.
	inputs := []string{
		"not-a-date-at-all",
		"asdf",
		"qwerty",
		"hello world",
		"garbage",
		"now",
		"03/24/2025",
		"2025-3-24",
	}
	for _, input := range inputs {
		if _, err := ParseDay(input, ref); err == nil {
			t.Fatalf("ParseDay(%q): expected error, got nil", input)
		}
	}
}

func TestFormatDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2025, 3, 24, 9, 30, 0, 0, time.UTC)
	if got := FormatDay(input); got != "2025-03-24" {
		t.Fatalf("expected 2025-03-24, got %q", got)
	}
}
