package models

import (
	"fmt"
	"strings"
)

// DefaultPeriodLabels is the university period table. The position of a label is
// its slot index, so label i covers the half-open slot range [i, i+1).
//
//	index  label
//	0      07:30-08:10
//	1      08:15-08:55
//	2      09:15-09:55
//	3      10:00-10:40
//	4      10:45-11:25
//	5      11:30-12:10
//	6      12:15-12:55
//	7      13:00-13:40
//	8      13:45-14:25
//	9      14:30-15:10
//	10     15:15-15:55
//	11     16:00-16:40
var DefaultPeriodLabels = []string{
	"07:30-08:10",
	"08:15-08:55",
	"09:15-09:55",
	"10:00-10:40",
	"10:45-11:25",
	"11:30-12:10",
	"12:15-12:55",
	"13:00-13:40",
	"13:45-14:25",
	"14:30-15:10",
	"15:15-15:55",
	"16:00-16:40",
}

// PeriodTable translates between period labels and slot indexes.
type PeriodTable struct {
	labels []string
	index  map[string]int
}

// NewPeriodTable builds a table from an ordered label list. Labels must be unique.
func NewPeriodTable(labels []string) (*PeriodTable, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("period table requires at least one label")
	}
	table := &PeriodTable{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for _, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			return nil, fmt.Errorf("period table contains an empty label")
		}
		if _, dup := table.index[label]; dup {
			return nil, fmt.Errorf("period label %q is duplicated", label)
		}
		table.index[label] = len(table.labels)
		table.labels = append(table.labels, label)
	}
	return table, nil
}

// DefaultPeriodTable returns the table built from DefaultPeriodLabels.
func DefaultPeriodTable() *PeriodTable {
	table, _ := NewPeriodTable(DefaultPeriodLabels)
	return table
}

// Len reports the number of periods.
func (p *PeriodTable) Len() int {
	return len(p.labels)
}

// Labels returns a copy of the ordered labels.
func (p *PeriodTable) Labels() []string {
	out := make([]string, len(p.labels))
	copy(out, p.labels)
	return out
}

// Range resolves a label to its slot range.
func (p *PeriodTable) Range(label string) (SlotRange, bool) {
	idx, ok := p.index[strings.TrimSpace(label)]
	if !ok {
		return SlotRange{}, false
	}
	return SlotRange{Start: idx, End: idx + 1}, true
}

// Label returns the period label for a single-period range, or "" when the range
// spans several periods or falls outside the table.
func (p *PeriodTable) Label(r SlotRange) string {
	if r.End-r.Start != 1 || r.Start < 0 || r.Start >= len(p.labels) {
		return ""
	}
	return p.labels[r.Start]
}

// Contains reports whether the range lies inside the table.
func (p *PeriodTable) Contains(r SlotRange) bool {
	return r.Valid() && r.End <= len(p.labels)
}

// SlotRange is a half-open interval [Start, End) over slot indexes.
type SlotRange struct {
	Start int `json:"startSlot"`
	End   int `json:"endSlot"`
}

// Valid reports whether the range is non-empty and non-negative.
func (r SlotRange) Valid() bool {
	return r.Start >= 0 && r.Start < r.End
}

// Len is the number of slots covered.
func (r SlotRange) Len() int {
	return r.End - r.Start
}

// Intersects reports half-open overlap. Touching endpoints do not intersect.
func (r SlotRange) Intersects(other SlotRange) bool {
	return !(r.End <= other.Start || other.End <= r.Start)
}

// String renders the range as "start-end".
func (r SlotRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var dayIndex = map[string]int{
	"MONDAY":    0,
	"TUESDAY":   1,
	"WEDNESDAY": 2,
	"THURSDAY":  3,
	"FRIDAY":    4,
	"SATURDAY":  5,
	"SUNDAY":    6,
}

// ParseDay maps a weekday label to its 0-based index (Monday = 0).
func ParseDay(label string) (int, bool) {
	idx, ok := dayIndex[strings.ToUpper(strings.TrimSpace(label))]
	return idx, ok
}

// DayName returns the weekday label for a 0-based index.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

// WeekdaySet is the number of valid weekdays of a subsystem, counted from Monday.
// Department timetables run Monday to Friday (5); a seven day set admits weekends.
type WeekdaySet int

const (
	FiveDayWeek  WeekdaySet = 5
	SevenDayWeek WeekdaySet = 7
)

// Normalize clamps unknown values to the five day week.
func (w WeekdaySet) Normalize() WeekdaySet {
	if w == SevenDayWeek {
		return SevenDayWeek
	}
	return FiveDayWeek
}

// Contains reports whether day is valid in the set.
func (w WeekdaySet) Contains(day int) bool {
	return day >= 0 && day < int(w.Normalize())
}

// Next returns the following weekday, wrapping around the set.
func (w WeekdaySet) Next(day int) int {
	n := int(w.Normalize())
	return ((day+1)%n + n) % n
}
