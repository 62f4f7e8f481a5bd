package dayclock

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"18:00", 1080, false},
		{"23:59", 1439, false},
		{" 12:30 ", 750, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"12", 0, true},
		{"12:00:00", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{1439, "23:59"},
		{61, "01:01"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	day, _ := NewRange("09:00", "18:00")
	tests := []struct {
		minute int
		want   bool
	}{
		{539, false},
		{540, true},  // start inclusive
		{720, true},  // noon
		{1079, true},
		{1080, false}, // end exclusive
		{1200, false},
	}
	for _, tt := range tests {
		if got := day.Contains(tt.minute); got != tt.want {
			t.Errorf("[09:00,18:00).Contains(%d) = %v; want %v", tt.minute, got, tt.want)
		}
	}
}

func TestRangeContains_MidnightWrap(t *testing.T) {
	night, _ := NewRange("22:00", "02:00")
	tests := []struct {
		clock string
		want  bool
	}{
		{"23:30", true},
		{"01:00", true},
		{"10:00", false},
		{"22:00", true},
		{"02:00", false},
		{"21:59", false},
	}
	for _, tt := range tests {
		m, err := ParseClock(tt.clock)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.clock, err)
		}
		if got := night.Contains(m); got != tt.want {
			t.Errorf("[22:00,02:00).Contains(%s) = %v; want %v", tt.clock, got, tt.want)
		}
	}
}

func TestRangeWidth(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"09:00", "18:00", 540},
		{"22:00", "02:00", 240},
		{"00:00", "00:00", MinutesPerDay}, // equal endpoints cover the full day
		{"23:00", "23:00", MinutesPerDay},
	}
	for _, tt := range tests {
		r, err := NewRange(tt.start, tt.end)
		if err != nil {
			t.Fatalf("NewRange(%q,%q): %v", tt.start, tt.end, err)
		}
		if got := r.Width(); got != tt.want {
			t.Errorf("[%s,%s).Width() = %d; want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestRangeValidate(t *testing.T) {
	if err := (Range{Start: -1, End: 100}).Validate(); err == nil {
		t.Error("expected error for negative start")
	}
	if err := (Range{Start: 0, End: MinutesPerDay}).Validate(); err == nil {
		t.Error("expected error for end == 1440")
	}
	if err := (Range{Start: 540, End: 1080}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMinuteOf(t *testing.T) {
	at := time.Date(2025, 8, 6, 12, 34, 56, 0, time.UTC)
	if got := MinuteOf(at); got != 754 {
		t.Errorf("MinuteOf(12:34) = %d; want 754", got)
	}
}

func TestDateKey(t *testing.T) {
	at := time.Date(2025, 8, 6, 23, 59, 0, 0, time.UTC)
	if got := DateKey(at); got != "2025-08-06" {
		t.Errorf("DateKey = %q; want 2025-08-06", got)
	}
}
