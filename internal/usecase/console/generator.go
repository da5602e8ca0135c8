package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/clock"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/shared"
)

var (
	ErrInvalidExpirationDate = errs.New("expiration date must be YYYY-MM-DD")
	ErrNothingToExport       = errs.New("no generated vouchers to export")
)

const generatedStatusBadge = "Active"

// FormPatch carries the fields changed by one form interaction. Nil fields are untouched.
type FormPatch struct {
	Quantity       *string
	Duration       *string
	DataLimit      *string
	ExpirationDate *string
}

// Badges are the tags shown next to every generated code, captured when the batch was submitted.
type Badges struct {
	Status    string
	Duration  string
	DataLimit string
}

// Generator is the batch-creation form of one session.
type Generator struct {
	cmds  commands.VoucherCommands
	clock clock.Clock

	mu           sync.Mutex
	quantity     string
	duration     string
	dataLimit    string
	expiresAt    time.Time
	manualExpiry bool
	submitting   bool
	codes        []string
	badges       Badges
	lastErr      string
}

func NewGenerator(cmds commands.VoucherCommands, clk clock.Clock) *Generator {
	return &Generator{
		cmds:      cmds,
		clock:     clk,
		quantity:  "1",
		duration:  voucher.DefaultDuration,
		dataLimit: voucher.DefaultDataLimit,
		expiresAt: voucher.ExpiryFrom(clk.Now(), voucher.DefaultDuration),
	}
}

// Update applies a form change. A duration change recomputes the expiry unless the date was edited
// by hand; the first manual date edit makes the override sticky for the session. Every field is
// validated before any is applied.
func (g *Generator) Update(p FormPatch) error {
	if p.Duration != nil && !voucher.IsDurationOption(*p.Duration) {
		return errs.Mark(voucher.ErrInvalidDuration, errs.ErrValidation)
	}
	if p.DataLimit != nil && !voucher.IsDataLimitOption(*p.DataLimit) {
		return errs.Mark(voucher.ErrInvalidDataLimit, errs.ErrValidation)
	}

	now := g.clock.Now()
	var picked time.Time
	if p.ExpirationDate != nil {
		var ok bool
		picked, ok = voucher.WithPickedDate(now, *p.ExpirationDate)
		if !ok {
			return errs.Mark(ErrInvalidExpirationDate, errs.ErrValidation)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if p.Quantity != nil {
		g.quantity = strings.TrimSpace(*p.Quantity)
	}
	if p.DataLimit != nil {
		g.dataLimit = *p.DataLimit
	}
	if p.Duration != nil {
		g.duration = *p.Duration
		if !g.manualExpiry {
			g.expiresAt = voucher.ExpiryFrom(now, g.duration)
		}
	}
	if p.ExpirationDate != nil {
		g.expiresAt = picked
		g.manualExpiry = true
	}
	return nil
}

// Submit sends the batch. On success the codes replace the previous results. On a partial
// creation the created codes are shown and the error is returned. Any other failure keeps the
// previous results.
func (g *Generator) Submit(ctx context.Context) (Notification, error) {
	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return Notification{}, ErrRequestInFlight
	}
	req := shared.GenerateRequest{
		Quantity:  g.quantity,
		Duration:  g.duration,
		DataLimit: g.dataLimit,
		ExpiresAt: g.expiresAt,
	}
	g.submitting = true
	g.mu.Unlock()

	res, err := g.cmds.Generate(ctx, req)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitting = false

	if err != nil && !errs.Is(err, errs.ErrPartialCreation) {
		g.lastErr = err.Error()
		return Failure(err), err
	}

	g.codes = res.Codes
	g.badges = Badges{Status: generatedStatusBadge, Duration: req.Duration, DataLimit: req.DataLimit}
	if err != nil {
		g.lastErr = err.Error()
		return Failure(err), err
	}
	g.lastErr = ""

	n, _ := voucher.ParseQuantity(req.Quantity)
	plural := ""
	if n > 1 {
		plural = "s"
	}
	return success("Vouchers Generated Successfully", fmt.Sprintf("Generated %d new voucher%s", n, plural)), nil
}

// ExportCSV renders the session's generated codes, one per line.
func (g *Generator) ExportCSV() ([]byte, Notification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return nil, Notification{}, errs.Mark(ErrNothingToExport, errs.ErrValidation)
	}
	body := []byte(strings.Join(g.codes, "\n"))
	return body, Exported(), nil
}

type GeneratorView struct {
	Quantity         string
	Duration         string
	DataLimit        string
	ExpirationDate   string
	ExpiresAt        string
	ManualExpiry     bool
	Submitting       bool
	Error            string
	Codes            []string
	Badges           Badges
	DurationOptions  []voucher.Option
	DataLimitOptions []voucher.Option
}

func (g *Generator) View() GeneratorView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GeneratorView{
		Quantity:         g.quantity,
		Duration:         g.duration,
		DataLimit:        g.dataLimit,
		ExpirationDate:   voucher.DateField(g.expiresAt),
		ExpiresAt:        voucher.FormatISO(g.expiresAt),
		ManualExpiry:     g.manualExpiry,
		Submitting:       g.submitting,
		Error:            g.lastErr,
		Codes:            append([]string(nil), g.codes...),
		Badges:           g.badges,
		DurationOptions:  voucher.DurationOptions,
		DataLimitOptions: voucher.DataLimitOptions,
	}
}
