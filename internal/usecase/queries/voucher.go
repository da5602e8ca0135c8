package queries

import (
	"context"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/shared"
)

type VoucherQueries interface {
	List(ctx context.Context) ([]voucher.Voucher, error)
	Export(ctx context.Context) (*shared.ExportFile, error)
}

type voucherQueriesImpl struct {
	gateway shared.VoucherGateway
}

func NewVoucherQueries(gateway shared.VoucherGateway) VoucherQueries {
	return &voucherQueriesImpl{gateway: gateway}
}

func (q *voucherQueriesImpl) List(ctx context.Context) ([]voucher.Voucher, error) {
	vs, err := q.gateway.ListVouchers(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list vouchers")
	}
	return vs, nil
}

func (q *voucherQueriesImpl) Export(ctx context.Context) (*shared.ExportFile, error) {
	f, err := q.gateway.Export(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "export vouchers")
	}
	return f, nil
}
