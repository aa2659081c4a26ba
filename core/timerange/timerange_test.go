package timerange

import (
	"testing"
	"time"
)

func mustRange(t *testing.T, date, startClock, endClock string) Range {
	t.Helper()
	start, err := ParseClock(date, startClock)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	end, err := ParseClock(date, endClock)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	r, err := New(start, end)
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	return r
}

func TestNewRejectsInvertedWindow(t *testing.T) {
	start, _ := ParseClock("2025-06-02", "12:00")
	end, _ := ParseClock("2025-06-02", "09:00")

	if _, err := New(start, end); err == nil {
		t.Fatal("expected error for end before start")
	}
	if _, err := New(start, start); err == nil {
		t.Fatal("expected error for zero-length range")
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("2025-06-02", "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := ParseClock("2025-06-02", "25:00"); err == nil {
		t.Fatal("expected error for invalid clock")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Range
		b    Range
		want bool
	}{
		{
			name: "partial overlap",
			a:    mustRange(t, "2025-06-02", "09:00", "12:00"),
			b:    mustRange(t, "2025-06-02", "11:00", "13:00"),
			want: true,
		},
		{
			name: "contained",
			a:    mustRange(t, "2025-06-02", "09:00", "18:00"),
			b:    mustRange(t, "2025-06-02", "10:00", "11:00"),
			want: true,
		},
		{
			name: "back to back",
			a:    mustRange(t, "2025-06-02", "09:00", "12:00"),
			b:    mustRange(t, "2025-06-02", "12:00", "14:00"),
			want: false,
		},
		{
			name: "disjoint",
			a:    mustRange(t, "2025-06-02", "09:00", "10:00"),
			b:    mustRange(t, "2025-06-02", "14:00", "15:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	r := mustRange(t, "2025-06-02", "09:00", "12:00")
	if !r.Overlaps(r) {
		t.Fatal("a non-degenerate range must overlap itself")
	}
}

func TestContainsDate(t *testing.T) {
	window := Range{
		Start: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2025-06-01", true},
		{"2025-06-02", true},
		{"2025-06-03", true}, // inclusive of the last day
		{"2025-05-31", false},
		{"2025-06-04", false},
	}

	for _, tt := range tests {
		day, err := ParseDate(tt.date)
		if err != nil {
			t.Fatalf("parse date: %v", err)
		}
		if got := window.ContainsDate(day); got != tt.want {
			t.Errorf("ContainsDate(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
