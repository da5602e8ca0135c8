package shared

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/shared/mock_ports.go -package=sharedmock

import (
	"context"

	"voucher-console/internal/domain/voucher"
)

// VoucherGateway is the external voucher backend. Every voucher it returns is already normalized.
type VoucherGateway interface {
	ListVouchers(ctx context.Context) ([]voucher.Voucher, error)
	Stats(ctx context.Context) (Stats, error)
	Activity(ctx context.Context) ([]ActivityItem, error)
	// Generate returns the created codes. On a partial creation it returns the codes that were
	// created together with an error marked errs.ErrPartialCreation.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	UpdateStatus(ctx context.Context, id string, status voucher.Status) error
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) (*ExportFile, error)
}

// PreferenceStore persists small console preferences and notifies on change, including changes
// made by other console processes sharing the same store.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Subscribe delivers the new value of key after every change. The returned func unsubscribes
	// and closes the channel.
	Subscribe(key string) (<-chan string, func())
}
