package voucher

import (
	"strings"
	"time"
)

// Voucher is the console's projection of a backend-owned voucher. It is never built locally;
// every value comes from a backend response.
type Voucher struct {
	ID        string
	Code      string
	Status    Status
	Duration  string
	DataLimit string
	CreatedAt *time.Time
	UsedAt    *time.Time
	ExpiresAt *time.Time
}

// MatchesCode is a case-insensitive substring match on the code. An empty query matches.
func (v Voucher) MatchesCode(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.Code), strings.ToLower(query))
}

const (
	DisplayDateLayout = "2006-01-02 15:04:05"
	placeholder       = "-"
	NotStartedLabel   = "Not started"
)

// FormatDate renders a timestamp for display, "-" when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return t.Local().Format(DisplayDateLayout)
}

type ExpiryMode string

const (
	ExpiryCountdown  ExpiryMode = "countdown"
	ExpiryAbsolute   ExpiryMode = "absolute"
	ExpiryNotStarted ExpiryMode = "not_started"
)

type ExpiryDisplay struct {
	Mode ExpiryMode
	Text string
}

// DescribeExpiry picks what a card shows next to the duration: a live countdown for a used voucher
// whose access window has started, the absolute expiry otherwise, or "Not started".
func DescribeExpiry(v Voucher, status Status, now time.Time) ExpiryDisplay {
	if status == StatusUsed && v.UsedAt != nil && v.ExpiresAt != nil {
		return ExpiryDisplay{Mode: ExpiryCountdown, Text: Remaining(now, *v.ExpiresAt)}
	}
	if v.ExpiresAt != nil {
		return ExpiryDisplay{Mode: ExpiryAbsolute, Text: FormatDate(v.ExpiresAt)}
	}
	return ExpiryDisplay{Mode: ExpiryNotStarted, Text: NotStartedLabel}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 shapes the backend emits. Malformed input yields nil.
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
