package voucher

import (
	"strconv"
	"strings"
	"time"
)

// Option is one entry of an enumerated shorthand select.
type Option struct {
	Value string
	Label string
}

var DurationOptions = []Option{
	{Value: "30m", Label: "30 Minutes"},
	{Value: "1h", Label: "1 Hour"},
	{Value: "6h", Label: "6 Hours"},
	{Value: "24h", Label: "24 Hours"},
	{Value: "7d", Label: "7 Days"},
	{Value: "30d", Label: "30 Days"},
}

var DataLimitOptions = []Option{
	{Value: "100mb", Label: "100 MB"},
	{Value: "500mb", Label: "500 MB"},
	{Value: "1gb", Label: "1 GB"},
	{Value: "5gb", Label: "5 GB"},
	{Value: "10gb", Label: "10 GB"},
	{Value: "unlimited", Label: "Unlimited"},
}

const (
	DefaultDuration  = "1h"
	DefaultDataLimit = "1gb"
)

func IsDurationOption(v string) bool {
	return hasOption(DurationOptions, v)
}

func IsDataLimitOption(v string) bool {
	return hasOption(DataLimitOptions, v)
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// leadingInt reads the integer prefix of s ("30m" -> 30).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExpiryFrom resolves a duration shorthand against now. Minutes and hours advance the instant,
// days advance the calendar in now's location. Any other suffix, or a missing amount, leaves
// the result at now.
func ExpiryFrom(now time.Time, shorthand string) time.Time {
	shorthand = strings.TrimSpace(shorthand)
	if shorthand == "" {
		return now
	}
	n, ok := leadingInt(shorthand)
	if !ok {
		return now
	}
	switch shorthand[len(shorthand)-1] {
	case 'm':
		return now.Add(time.Duration(n) * time.Minute)
	case 'h':
		return now.Add(time.Duration(n) * time.Hour)
	case 'd':
		return now.AddDate(0, 0, n)
	}
	return now
}

// WithPickedDate keeps the time-of-day of now and substitutes the calendar date picked in a
// YYYY-MM-DD input. Out-of-range days normalize the way time.Date does (Feb 30 -> Mar 2).
func WithPickedDate(now time.Time, picked string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(picked), "-")
	if len(parts) != 3 {
		return now, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return now, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return now, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return now, false
	}
	return time.Date(year, time.Month(month), day,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location()), true
}

const isoMillisLayout = "2006-01-02T15:04:05.000Z"

// FormatISO renders t in UTC with millisecond precision, the wire format for expires_at.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillisLayout)
}

// DateField is the YYYY-MM-DD value mirrored into the expiration date input (UTC date).
func DateField(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
