package shared

import (
	"io"
	"time"
)

// Stats is the backend's precomputed dashboard summary.
type Stats struct {
	Total     int
	Active    int
	UsedToday int
	// SuccessRate is rendered verbatim; the backend may send "12.5%" or a bare number.
	SuccessRate string
}

type ActivityItem struct {
	Code   string
	Status string
	Time   string
}

// GenerateRequest is the batch-creation payload. Quantity stays in its form representation.
type GenerateRequest struct {
	Quantity  string
	Duration  string
	DataLimit string
	ExpiresAt time.Time
}

type GenerateResult struct {
	Codes []string
}

// ExportFile is a streamed CSV download. The caller closes Body.
type ExportFile struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
}

const ExportFilename = "vouchers.csv"
