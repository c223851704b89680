package models

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want TimeOfDay
	}{
		{"09:00", TimeOfDay{Hour: 9}},
		{"17:30", TimeOfDay{Hour: 17, Minute: 30}},
		{"00:00", TimeOfDay{}},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "25:00", "9am", "09:61"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q): expected error", bad)
		}
	}
}

func TestTimeOfDayMinutes(t *testing.T) {
	tod := TimeOfDay{Hour: 17, Minute: 30}
	if got := tod.Minutes(); got != 1050 {
		t.Errorf("expected 1050 minutes, got %d", got)
	}
	if got := tod.String(); got != "17:30" {
		t.Errorf("expected \"17:30\", got %q", got)
	}
}

func TestNewGanttChartStampsGeneratedAt(t *testing.T) {
	req := &ScheduleRequest{
		SprintStart: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		SprintEnd:   time.Date(2026, 1, 16, 17, 30, 0, 0, time.UTC),
	}

	before := time.Now().UTC()
	chart := NewGanttChart(req, nil, true, ScheduleConfig{})
	after := time.Now().UTC()

	if chart.GeneratedAt.Before(before) || chart.GeneratedAt.After(after) {
		t.Errorf("expected GeneratedAt stamped at construction, got %v (window %v to %v)", chart.GeneratedAt, before, after)
	}

	second := NewGanttChart(req, nil, true, ScheduleConfig{})
	if second.GeneratedAt.Before(chart.GeneratedAt) {
		t.Errorf("expected monotonic construction stamps, got %v then %v", chart.GeneratedAt, second.GeneratedAt)
	}
}
