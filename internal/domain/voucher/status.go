package voucher

import (
	"errors"
	"strings"
)

var ErrToggleNotAllowed = errors.New("voucher status cannot be toggled")

// Status is server-authoritative. Unknown values are kept as-is so they can still be rendered.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusUsed     Status = "used"
	StatusExpired  Status = "expired"
	StatusDisabled Status = "disabled"
)

// FilterStatuses lists the statuses offered by the list filter, in display order.
var FilterStatuses = []Status{StatusActive, StatusUsed, StatusExpired, StatusDisabled}

func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusActive, StatusUsed, StatusExpired, StatusDisabled:
		return true
	}
	return false
}

// Label is the badge text.
func (s Status) Label() string {
	return strings.ToUpper(string(s))
}

// CanToggle reports whether the enable/disable switch is interactive.
// used and expired are terminal; pending has not been activated by the backend yet.
func CanToggle(s Status) bool {
	return s == StatusActive || s == StatusDisabled
}

func Toggled(s Status) (Status, error) {
	switch s {
	case StatusActive:
		return StatusDisabled, nil
	case StatusDisabled:
		return StatusActive, nil
	}
	return s, ErrToggleNotAllowed
}

type Palette struct {
	Background string
	Text       string
	Border     string
}

func (p Palette) Class() string {
	return p.Background + " " + p.Text + " " + p.Border
}

var defaultPalette = Palette{Background: "bg-gray-100", Text: "text-gray-800", Border: "border-gray-200"}

var palettes = map[Status]Palette{
	StatusActive:   {Background: "bg-green-100", Text: "text-green-800", Border: "border-green-200"},
	StatusUsed:     {Background: "bg-blue-100", Text: "text-blue-800", Border: "border-blue-200"},
	StatusExpired:  {Background: "bg-red-100", Text: "text-red-800", Border: "border-red-200"},
	StatusDisabled: defaultPalette,
}

func PaletteFor(s Status) Palette {
	if p, ok := palettes[s]; ok {
		return p
	}
	return defaultPalette
}
