package queries

import (
	"context"

	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

type BadgeVariant string

const (
	BadgeDefault     BadgeVariant = "default"
	BadgeSecondary   BadgeVariant = "secondary"
	BadgeDestructive BadgeVariant = "destructive"
)

// ActivityBadge maps an activity status to its badge style.
func ActivityBadge(status string) BadgeVariant {
	switch status {
	case "used":
		return BadgeDefault
	case "generated":
		return BadgeSecondary
	default:
		return BadgeDestructive
	}
}

type ActivityView struct {
	Code    string       `json:"code"`
	Status  string       `json:"status"`
	Time    string       `json:"time"`
	Variant BadgeVariant `json:"variant"`
}

type DashboardView struct {
	Stats    shared.Stats
	Activity []ActivityView
}

type DashboardQueries interface {
	Load(ctx context.Context) (*DashboardView, error)
}

type dashboardQueriesImpl struct {
	gateway shared.VoucherGateway
}

func NewDashboardQueries(gateway shared.VoucherGateway) DashboardQueries {
	return &dashboardQueriesImpl{gateway: gateway}
}

// Load fetches stats and activity concurrently. Either both succeed or the first error is returned.
func (q *dashboardQueriesImpl) Load(ctx context.Context) (*DashboardView, error) {
	var (
		stats    shared.Stats
		activity []shared.ActivityItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = q.gateway.Stats(gctx)
		return errs.Wrap(err, "load stats")
	})
	g.Go(func() error {
		var err error
		activity, err = q.gateway.Activity(gctx)
		return errs.Wrap(err, "load activity")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &DashboardView{Stats: stats, Activity: make([]ActivityView, 0, len(activity))}
	for _, a := range activity {
		view.Activity = append(view.Activity, ActivityView{
			Code:    a.Code,
			Status:  a.Status,
			Time:    a.Time,
			Variant: ActivityBadge(a.Status),
		})
	}
	return view, nil
}
