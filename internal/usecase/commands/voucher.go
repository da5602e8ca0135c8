package commands

import (
	"context"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/infra/metrics"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

// BulkResult is the per-id outcome of a bulk delete. Succeeded keeps the input order.
type BulkResult struct {
	Succeeded []string
	Failed    map[string]error
}

func (r BulkResult) HasFailures() bool {
	return len(r.Failed) > 0
}

type VoucherCommands interface {
	SetStatus(ctx context.Context, id string, status voucher.Status) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) BulkResult
	Generate(ctx context.Context, req shared.GenerateRequest) (shared.GenerateResult, error)
}

type voucherCommandsImpl struct {
	gateway         shared.VoucherGateway
	bulkConcurrency int
}

func NewVoucherCommands(gateway shared.VoucherGateway, cfg config.Config) VoucherCommands {
	return &voucherCommandsImpl{gateway: gateway, bulkConcurrency: cfg.Bulk.DeleteConcurrency}
}

func (c *voucherCommandsImpl) SetStatus(ctx context.Context, id string, status voucher.Status) error {
	return errs.Wrapf(c.gateway.UpdateStatus(ctx, id, status), "set voucher %s to %s", id, status)
}

func (c *voucherCommandsImpl) Delete(ctx context.Context, id string) error {
	return errs.Wrapf(c.gateway.Delete(ctx, id), "delete voucher %s", id)
}

// BulkDelete issues one delete per distinct id, at most bulkConcurrency at a time. A failed
// delete does not cancel the others.
func (c *voucherCommandsImpl) BulkDelete(ctx context.Context, ids []string) BulkResult {
	ids = distinct(ids)
	outcomes := make([]error, len(ids))

	var g errgroup.Group
	if c.bulkConcurrency > 0 {
		g.SetLimit(c.bulkConcurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = c.Delete(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	result := BulkResult{Succeeded: make([]string, 0, len(ids)), Failed: make(map[string]error)}
	for i, id := range ids {
		if outcomes[i] != nil {
			result.Failed[id] = outcomes[i]
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	metrics.AddBulkDelete(len(result.Succeeded), len(result.Failed))
	return result
}

func (c *voucherCommandsImpl) Generate(ctx context.Context, req shared.GenerateRequest) (shared.GenerateResult, error) {
	if err := voucher.ValidateBatch(req.Quantity, req.Duration, req.DataLimit); err != nil {
		return shared.GenerateResult{}, errs.Mark(err, errs.ErrValidation)
	}
	res, err := c.gateway.Generate(ctx, req)
	metrics.AddGeneratedCodes(len(res.Codes))
	if err != nil {
		return res, errs.Wrap(err, "generate vouchers")
	}
	return res, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
