//go:build unit || integration || e2e

package builder

import (
	"fmt"
	"time"

	"voucher-console/internal/domain/voucher"
	reqdto "voucher-console/internal/handler/dto/request"
)

type VoucherBuilder struct {
	ID        string
	Code      string
	Status    voucher.Status
	Duration  string
	DataLimit string
	CreatedAt *time.Time
	UsedAt    *time.Time
	ExpiresAt *time.Time
}

func NewVoucherBuilder() *VoucherBuilder {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return &VoucherBuilder{
		ID:        "v-1",
		Code:      "ABC123",
		Status:    voucher.StatusActive,
		Duration:  "1h",
		DataLimit: "1gb",
		CreatedAt: &created,
	}
}

func (b *VoucherBuilder) With(mutate func(*VoucherBuilder)) *VoucherBuilder {
	mutate(b)
	return b
}

func (b *VoucherBuilder) WithID(id, code string) *VoucherBuilder {
	b.ID = id
	b.Code = code
	return b
}

func (b *VoucherBuilder) WithStatus(s voucher.Status) *VoucherBuilder {
	b.Status = s
	return b
}

// WithUsage marks the voucher used at usedAt with the given expiry.
func (b *VoucherBuilder) WithUsage(usedAt, expiresAt time.Time) *VoucherBuilder {
	b.Status = voucher.StatusUsed
	b.UsedAt = &usedAt
	b.ExpiresAt = &expiresAt
	return b
}

func (b *VoucherBuilder) BuildDomain() voucher.Voucher {
	return voucher.Voucher{
		ID:        b.ID,
		Code:      b.Code,
		Status:    b.Status,
		Duration:  b.Duration,
		DataLimit: b.DataLimit,
		CreatedAt: b.CreatedAt,
		UsedAt:    b.UsedAt,
		ExpiresAt: b.ExpiresAt,
	}
}

// BuildWire renders the voucher the way the backend sends it, in snake_case.
func (b *VoucherBuilder) BuildWire() map[string]any {
	m := map[string]any{
		"id":         b.ID,
		"code":       b.Code,
		"status":     b.Status.String(),
		"duration":   b.Duration,
		"data_limit": b.DataLimit,
	}
	if b.CreatedAt != nil {
		m["created_at"] = b.CreatedAt.Format(time.RFC3339)
	}
	if b.UsedAt != nil {
		m["used_at"] = b.UsedAt.Format(time.RFC3339)
	}
	if b.ExpiresAt != nil {
		m["expires_at"] = b.ExpiresAt.Format(time.RFC3339)
	}
	return m
}

// BuildList builds n active vouchers with ids v-1..v-n and codes CODE01..
func BuildList(n int) []voucher.Voucher {
	out := make([]voucher.Voucher, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewVoucherBuilder().WithID(idOf(i), codeOf(i)).BuildDomain())
	}
	return out
}

func idOf(i int) string   { return fmt.Sprintf("v-%d", i) }
func codeOf(i int) string { return fmt.Sprintf("CODE%02d", i) }

func NewGeneratorPatch() reqdto.GeneratorPatchRequest {
	quantity, duration, dataLimit := "5", "7d", "5gb"
	return reqdto.GeneratorPatchRequest{
		Quantity:  &quantity,
		Duration:  &duration,
		DataLimit: &dataLimit,
	}
}
