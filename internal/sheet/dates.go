package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	exactWeekRe = regexp.MustCompile(`(?i)^week$`)
	anyWeekRe   = regexp.MustCompile(`(?i)week`)
	dateRe      = regexp.MustCompile(`(?i)\bdate\b|game date|game_date`)
	usDateRe    = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
	digitsRe    = regexp.MustCompile(`[^0-9]`)
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"2 Jan 2006",
}

// ParseDate reads a date cell. Returns the date at midnight UTC.
// Accepts ISO and common long forms plus M/D/YY and M/D/YYYY; two-digit years are 20xx.
func ParseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}
	m := usDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekNumber reads the digits of a week cell, e.g. "Week 3" -> 3
func WeekNumber(cell string) (int, bool) {
	digits := digitsRe.ReplaceAllString(cell, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// WeekHeader returns the week column: an exact "Week" header first, then any header containing "week"
func WeekHeader(t *Table) (string, bool) {
	if h, ok := t.FindHeader(exactWeekRe); ok {
		return h, true
	}
	return t.FindHeader(anyWeekRe)
}

// DateHeader returns the first date-like header
func DateHeader(t *Table) (string, bool) {
	return t.FindHeader(dateRe)
}

// FindWeekRow locates the row for a week and returns it with its index into t.Rows.
// Falls back to row week-1 when no week column matches.
func FindWeekRow(t *Table, week int) (Row, int, error) {
	if t.Empty() {
		return nil, -1, ErrEmptySheet
	}
	if h, ok := WeekHeader(t); ok {
		for i, row := range t.Rows {
			if n, ok := WeekNumber(row[h]); ok && n == week {
				return row, i, nil
			}
		}
	}
	if week >= 1 && week <= len(t.Rows) {
		return t.Rows[week-1], week - 1, nil
	}
	return nil, -1, fmt.Errorf("week %d: %w", week, ErrWeekNotFound)
}

// RowWeek returns the week number of the row at index i, defaulting to i+1
func RowWeek(t *Table, i int) int {
	if h, ok := WeekHeader(t); ok {
		if n, ok := WeekNumber(t.Rows[i][h]); ok {
			return n
		}
	}
	return i + 1
}

// WeekDate returns the date of a week's row
func WeekDate(t *Table, week int) (time.Time, bool) {
	row, _, err := FindWeekRow(t, week)
	if err != nil {
		return time.Time{}, false
	}
	h, ok := DateHeader(t)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(row[h])
}

// WeekCount counts rows dated on or before now.
// Without a date column, or when no row qualifies, every row counts.
func WeekCount(t *Table, now time.Time) int {
	if t.Empty() {
		return 0
	}
	h, ok := DateHeader(t)
	if !ok {
		return len(t.Rows)
	}
	today := midnight(now)
	count := 0
	for _, row := range t.Rows {
		d, ok := ParseDate(row[h])
		if ok && !d.After(today) {
			count++
		}
	}
	if count == 0 {
		return len(t.Rows)
	}
	return count
}
