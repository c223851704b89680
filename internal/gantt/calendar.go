package gantt

import (
	"time"

	"github.com/pmtech-io/jira-gantt/internal/models"
)

// minTaskHours is the duration floor applied to every task so that even
// zero-point issues occupy visible time on the chart.
const minTaskHours = 0.5

// lunchStartMinutes is the fixed midday slot where the lunch break begins.
const lunchStartMinutes = 12 * 60

// workCalendar maps instants and work-hour durations onto a configured work
// schedule. Weekends are always excluded; the IncludeWeekends flag on the
// config is deliberately ignored (business rule overrides configuration).
type workCalendar struct {
	startMinutes int // minutes from midnight where the work day begins
	endMinutes   int // minutes from midnight where the work day ends
	lunchMinutes int
	start        models.TimeOfDay
}

func newWorkCalendar(cfg models.ScheduleConfig) workCalendar {
	return workCalendar{
		startMinutes: cfg.StartWorkHour.Minutes(),
		endMinutes:   cfg.EndWorkHour.Minutes(),
		lunchMinutes: cfg.LunchBreakMinutes,
		start:        cfg.StartWorkHour,
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// minutesOfDay returns the clock time of t in minutes from midnight.
func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// atStartOfWork returns t's date pinned to the start of the work day.
func (c workCalendar) atStartOfWork(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.start.Hour, c.start.Minute, 0, 0, t.Location())
}

// nextWorkDay returns the start of the next work day after t, skipping weekends.
func (c workCalendar) nextWorkDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for isWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return c.atStartOfWork(next)
}

// nextWorkInstant snaps t forward to the nearest instant inside work hours.
// Weekends roll to Monday, pre-work instants snap to the start of the day and
// post-work instants roll to the next work day.
func (c workCalendar) nextWorkInstant(t time.Time) time.Time {
	if isWeekend(t) {
		day := t
		for isWeekend(day) {
			day = day.AddDate(0, 0, 1)
		}
		return c.atStartOfWork(day)
	}

	clock := minutesOfDay(t)
	if clock < c.startMinutes {
		return c.atStartOfWork(t)
	}
	if clock >= c.endMinutes {
		return c.nextWorkDay(t)
	}
	return t
}

// addWorkHours consumes hours of work time starting at start, advancing
// day by day. Each day contributes the work window minus the lunch break when
// the break still lies ahead of the current position. The returned instant is
// strictly after start whenever hours > 0.
func (c workCalendar) addWorkHours(start time.Time, hours float64) time.Time {
	remaining := hours
	current := start

	for remaining > 0 {
		if isWeekend(current) {
			current = c.nextWorkDay(current)
			continue
		}

		clock := minutesOfDay(current)
		if clock < c.startMinutes {
			current = c.atStartOfWork(current)
			clock = c.startMinutes
		}

		hoursLeftToday := float64(c.endMinutes-clock) / 60

		// The lunch break consumes capacity only when it still lies within
		// the remaining work window of this day.
		lunchEnd := lunchStartMinutes + c.lunchMinutes
		if clock <= lunchStartMinutes && c.endMinutes > lunchEnd {
			hoursLeftToday -= float64(c.lunchMinutes) / 60
		}

		if hoursLeftToday <= 0 {
			current = c.nextWorkDay(current)
			continue
		}

		hoursToAdd := remaining
		if hoursLeftToday < hoursToAdd {
			hoursToAdd = hoursLeftToday
		}
		remaining -= hoursToAdd
		current = current.Add(time.Duration(hoursToAdd * float64(time.Hour)))

		// Crossing the lunch slot pushes the clock past the break.
		if clock < lunchStartMinutes && minutesOfDay(current) >= lunchStartMinutes && remaining > 0 {
			current = current.Add(time.Duration(c.lunchMinutes) * time.Minute)
		}

		if minutesOfDay(current) >= c.endMinutes {
			current = c.nextWorkDay(current)
		}
	}

	return current
}
