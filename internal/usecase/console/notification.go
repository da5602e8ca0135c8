package console

import (
	"fmt"

	"voucher-console/internal/usecase/commands"
)

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a transient toast shown by the page after an action.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

func success(title, message string) Notification {
	return Notification{Kind: NotifySuccess, Title: title, Message: message}
}

// Failure builds the error toast for err.
func Failure(err error) Notification {
	return Notification{Kind: NotifyError, Title: "Error", Message: err.Error()}
}

// BulkDeleted summarises a bulk delete. Any failed id turns the toast into an error.
func BulkDeleted(r commands.BulkResult) Notification {
	if r.HasFailures() {
		return Notification{
			Kind:    NotifyError,
			Title:   "Some vouchers were not deleted",
			Message: fmt.Sprintf("%d deleted, %d failed", len(r.Succeeded), len(r.Failed)),
		}
	}
	return success("Vouchers deleted", fmt.Sprintf("%d voucher(s) deleted", len(r.Succeeded)))
}

func Exported() Notification {
	return success("Vouchers Exported", "Voucher codes downloaded as CSV file")
}
