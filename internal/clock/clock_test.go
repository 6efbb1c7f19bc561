package clock

import (
	"testing"
	"time"
)

func TestManual(t *testing.T) {
	start := time.Date(2024, time.May, 1, 23, 30, 0, 0, time.Local)
	c := &Manual{T: start}

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	c.Advance(time.Hour)
	if got := c.Now(); !got.Equal(start.Add(time.Hour)) {
		t.Errorf("Now() after Advance = %v", got)
	}

	later := start.AddDate(0, 0, 3)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}

func TestSystem(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	if got.Before(before) || got.After(time.Now()) {
		t.Errorf("System.Now() = %v, want a time between calls to time.Now", got)
	}
}

func TestStartOfDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{
			in:   time.Date(2024, time.May, 1, 23, 59, 59, 0, time.Local),
			want: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local),
		},
		{
			in:   time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local),
			want: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local),
		},
		{
			in:   time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		if got := StartOfDay(tt.in); !got.Equal(tt.want) {
			t.Errorf("StartOfDay(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
