package service

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
)

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD calendar date at midnight in loc. An empty
// value means today.
func parseDate(raw string, loc *time.Location, now func() time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := now().In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}
	return date, nil
}
