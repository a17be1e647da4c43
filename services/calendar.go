package services

import (
	"fmt"
	"os"
	"time"

	"resto-api/models"
)

const dateKeyLayout = "2006-01-02"

// Calendar pins "current business day" to one timezone so every dateKey
// default comes from a single place instead of per-call-site time math.
type Calendar struct {
	loc *time.Location
}

func NewCalendar() *Calendar {
	tz := os.Getenv("BUSINESS_TZ")
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

func (cal *Calendar) Today() string {
	return time.Now().In(cal.loc).Format(dateKeyLayout)
}

func (cal *Calendar) WeekKey() string {
	year, week := time.Now().In(cal.loc).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Normalize returns the given dateKey if valid, today's key when empty.
func (cal *Calendar) Normalize(dateKey string) (string, error) {
	if dateKey == "" {
		return cal.Today(), nil
	}
	if _, err := time.Parse(dateKeyLayout, dateKey); err != nil {
		return "", models.Validationf("invalid date_key %q, want YYYY-MM-DD", dateKey)
	}
	return dateKey, nil
}
