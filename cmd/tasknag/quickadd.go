package main

import (
	"fmt"
	"strings"
	"time"
)

// parseQuickAdd splits "Buy milk due:tomorrow" into a task name and an
// optional due date
func parseQuickAdd(text string) (string, *time.Time) {
	var titleParts []string
	var dueDate *time.Time

	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(strings.ToLower(word), "due:") {
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != nil {
				dueDate = parsed
				continue
			}
		}
		titleParts = append(titleParts, word)
	}

	return strings.Join(titleParts, " "), dueDate
}

// parseWhen parses a reminder time: an explicit "2006-01-02 15:04"
// timestamp, or a natural date which fires at 09:00 that day
func parseWhen(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, time.Local); err == nil {
			return t, nil
		}
	}

	if d := parseNaturalDate(s); d != nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.Local), nil
	}

	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

func parseNaturalDate(s string) *time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(time.Monday)
	case "tuesday", "tue":
		return nextWeekday(time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(time.Thursday)
	case "friday", "fri":
		return nextWeekday(time.Friday)
	case "saturday", "sat":
		return nextWeekday(time.Saturday)
	case "sunday", "sun":
		return nextWeekday(time.Sunday)
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			// If no year, use current year
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			}
			return &t
		}
	}

	return nil
}

func nextWeekday(day time.Weekday) *time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daysUntil := int(day - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	t := today.AddDate(0, 0, daysUntil)
	return &t
}
