package backend

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/pkg/patch"
)

// flexString accepts a JSON string, number or boolean and keeps its text. null decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return errs.Newf("unexpected JSON value %s", string(b))
	}
	*f = flexString(b)
	return nil
}

// voucherDTO carries both key spellings the backend has used. Only toDomain reads them.
type voucherDTO struct {
	ID       flexString `json:"id"`
	Code     string     `json:"code"`
	Status   string     `json:"status"`
	Duration string     `json:"duration"`

	DataLimit      *string `json:"data_limit"`
	DataLimitCamel *string `json:"dataLimit"`
	CreatedAt      *string `json:"created_at"`
	CreatedAtCamel *string `json:"createdAt"`
	UsedAt         *string `json:"used_at"`
	UsedAtCamel    *string `json:"usedAt"`
	ExpiresAt      *string `json:"expires_at"`
	ExpiresAtCamel *string `json:"expiresAt"`
}

// toDomain collapses the two spellings; the snake_case key wins when both are present.
func (d voucherDTO) toDomain() voucher.Voucher {
	return voucher.Voucher{
		ID:        string(d.ID),
		Code:      d.Code,
		Status:    voucher.ParseStatus(d.Status),
		Duration:  d.Duration,
		DataLimit: patch.Coalesce(patch.First(d.DataLimit, d.DataLimitCamel), ""),
		CreatedAt: parseTime(patch.First(d.CreatedAt, d.CreatedAtCamel)),
		UsedAt:    parseTime(patch.First(d.UsedAt, d.UsedAtCamel)),
		ExpiresAt: parseTime(patch.First(d.ExpiresAt, d.ExpiresAtCamel)),
	}
}

func parseTime(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	return voucher.ParseTimestamp(*raw)
}

type statsDTO struct {
	Total       int        `json:"total"`
	Active      int        `json:"active"`
	UsedToday   int        `json:"used_today"`
	SuccessRate flexString `json:"success_rate"`
}

type activityDTO struct {
	Code   string     `json:"code"`
	Status string     `json:"status"`
	Time   flexString `json:"time"`
}

type generateBody struct {
	Quantity  string `json:"quantity"`
	Duration  string `json:"duration"`
	DataLimit string `json:"data_limit"`
	ExpiresAt string `json:"expires_at"`
}

type statusBody struct {
	Status string `json:"status"`
}

type codeDTO struct {
	Code string `json:"code"`
}

// partialCreationDTO is the 400 body returned when only part of a batch was created.
type partialCreationDTO struct {
	Errors  json.RawMessage `json:"errors"`
	Created []codeDTO       `json:"created"`
}

// decodeCodes accepts either a single created object or an array of them.
func decodeCodes(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []codeDTO
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		return collectCodes(many), nil
	}
	var one codeDTO
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return collectCodes([]codeDTO{one}), nil
}

func collectCodes(items []codeDTO) []string {
	codes := make([]string, 0, len(items))
	for _, it := range items {
		if c := strings.TrimSpace(it.Code); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
