package main

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns month containing the date.
func MonthOf(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// FirstDay returns the 1st day of the month.
func (m Month) FirstDay() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month, Day: 1}
}

// LastDay returns the last day of the month.
func (m Month) LastDay() civil.Date {
	return m.Next().FirstDay().AddDays(-1)
}

// Next returns the following month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start civil.Date
	End   civil.Date
}

// NewDateRange validates both dates and their order.
func NewDateRange(start, end civil.Date) (DateRange, error) {
	if !start.IsValid() {
		return DateRange{}, fmt.Errorf("invalid start date %v", start)
	}
	if !end.IsValid() {
		return DateRange{}, fmt.Errorf("invalid end date %v", end)
	}
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses dates in "2006-01-02" format.
func ParseDateRange(start, end string) (DateRange, error) {
	startDate, err := civil.ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("can't parse start date '%s': %w", start, err)
	}
	endDate, err := civil.ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("can't parse end date '%s': %w", end, err)
	}
	return NewDateRange(startDate, endDate)
}

// Contains reports whether the date is inside the range including both ends.
func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// ContainsTime reports whether the wall-clock time is inside the range.
// End date is treated as the end of the day, i.e. 23:59:59.
func (r DateRange) ContainsTime(t time.Time) bool {
	return r.Contains(civil.DateOf(t))
}

// Months returns every calendar month fully or partially inside the range.
func (r DateRange) Months() []Month {
	last := MonthOf(r.End)
	var result []Month
	for m := MonthOf(r.Start); !last.Before(m); m = m.Next() {
		result = append(result, m)
	}
	return result
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
