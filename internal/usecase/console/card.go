package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/commands"
)

var (
	ErrRequestInFlight    = errs.New("a request for this voucher is already in flight")
	ErrDeleteNotConfirmed = errs.New("delete has not been confirmed")
)

// Card is the state of one rendered voucher. The server value and the local override are kept
// apart: the override only lives until the next authoritative fetch replaces the card.
type Card struct {
	cmds commands.VoucherCommands

	mu          sync.Mutex
	server      voucher.Voucher
	override    *voucher.Status
	inFlight    bool
	confirmOpen bool
}

func NewCard(v voucher.Voucher, cmds commands.VoucherCommands) *Card {
	return &Card{server: v, cmds: cmds}
}

func (c *Card) ID() string {
	return c.server.ID
}

func (c *Card) Code() string {
	return c.server.Code
}

// Status is the effective status: the override when set, else the server value.
func (c *Card) Status() voucher.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Card) statusLocked() voucher.Status {
	if c.override != nil {
		return *c.override
	}
	return c.server.Status
}

func (c *Card) ServerStatus() voucher.Status {
	return c.server.Status
}

func (c *Card) ExpiresAt() *time.Time {
	return c.server.ExpiresAt
}

func (c *Card) ToggleEnabled(ctx context.Context) (Notification, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Notification{}, ErrRequestInFlight
	}
	target, err := voucher.Toggled(c.statusLocked())
	if err != nil {
		c.mu.Unlock()
		return Notification{}, err
	}
	c.inFlight = true
	c.mu.Unlock()

	err = c.cmds.SetStatus(ctx, c.server.ID, target)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return Failure(err), err
	}
	c.override = &target

	verb := "disabled"
	if target == voucher.StatusActive {
		verb = "enabled"
	}
	return success("Voucher "+verb, fmt.Sprintf("Voucher code %s is now %s.", c.server.Code, target)), nil
}

func (c *Card) RequestDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmOpen = true
}

func (c *Card) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmOpen = false
}

// ConfirmDelete deletes the voucher once the dialog is open. The dialog closes either way; the
// owner reloads the collection on success.
func (c *Card) ConfirmDelete(ctx context.Context) (Notification, error) {
	c.mu.Lock()
	if !c.confirmOpen {
		c.mu.Unlock()
		return Notification{}, ErrDeleteNotConfirmed
	}
	if c.inFlight {
		c.mu.Unlock()
		return Notification{}, ErrRequestInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	err := c.cmds.Delete(ctx, c.server.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.confirmOpen = false
	if err != nil {
		return Failure(err), err
	}
	return success("Voucher deleted", fmt.Sprintf("Voucher code %s has been deleted.", c.server.Code)), nil
}

// CopyCode returns the code for the page to place on the clipboard.
func (c *Card) CopyCode() (string, Notification) {
	code := c.server.Code
	return code, success("Copied to clipboard", fmt.Sprintf("Voucher code %s copied successfully", code))
}

type CardView struct {
	ID           string
	Code         string
	Status       string
	StatusLabel  string
	PaletteClass string
	ServerStatus string
	Overridden   bool
	Duration     string
	DataLimit    string
	CreatedAt    string
	UsedAt       string
	ExpiryMode   string
	ExpiryText   string
	CanToggle    bool
	Enabled      bool
	InFlight     bool
	ConfirmOpen  bool
}

func (c *Card) View(now time.Time) CardView {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := c.statusLocked()
	expiry := voucher.DescribeExpiry(c.server, status, now)
	return CardView{
		ID:           c.server.ID,
		Code:         c.server.Code,
		Status:       status.String(),
		StatusLabel:  status.Label(),
		PaletteClass: voucher.PaletteFor(status).Class(),
		ServerStatus: c.server.Status.String(),
		Overridden:   c.override != nil,
		Duration:     c.server.Duration,
		DataLimit:    c.server.DataLimit,
		CreatedAt:    voucher.FormatDate(c.server.CreatedAt),
		UsedAt:       voucher.FormatDate(c.server.UsedAt),
		ExpiryMode:   string(expiry.Mode),
		ExpiryText:   expiry.Text,
		CanToggle:    voucher.CanToggle(status) && !c.inFlight,
		Enabled:      status == voucher.StatusActive,
		InFlight:     c.inFlight,
		ConfirmOpen:  c.confirmOpen,
	}
}
