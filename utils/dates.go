package utils

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseReportDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp and returns
// the UTC midnight of that calendar day. A bare date carries no zone and is
// read as a UTC date.
func ParseReportDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, BadRequest("Ngày không được để trống.")
	}

	if t, err := time.Parse(DateLayout, input); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return StartOfUTCDay(t), nil
	}
	return time.Time{}, BadRequest("Ngày không hợp lệ, định dạng đúng là YYYY-MM-DD.")
}

// StartOfUTCDay drops the time of day after converting to UTC.
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// UTCDayRange is the half-open range [start, end) covering day's UTC date.
func UTCDayRange(day time.Time) (start, end time.Time) {
	start = StartOfUTCDay(day)
	return start, start.AddDate(0, 0, 1)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
