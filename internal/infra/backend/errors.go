package backend

import (
	"fmt"
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("backend %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// PartialCreationError reports a batch where the backend created only some vouchers.
type PartialCreationError struct {
	Created int
	Detail  string
}

func (e *PartialCreationError) Error() string {
	return fmt.Sprintf("backend created %d voucher(s) before failing: %s", e.Created, e.Detail)
}
