package request

import (
	"voucher-console/internal/usecase/console"
)

type NavigationRequest struct {
	View string `json:"view" binding:"required"`
}

type ListQuery struct {
	Q      *string `form:"q"`
	Status *string `form:"status"`
}

const (
	SelectionToggle = "toggle"
	SelectionAll    = "all"
	SelectionNone   = "none"
)

type SelectionRequest struct {
	Action string `json:"action" binding:"required,oneof=toggle all none"`
	ID     string `json:"id" binding:"required_if=Action toggle"`
}

type GeneratorPatchRequest struct {
	Quantity       *string `json:"quantity"`
	Duration       *string `json:"duration"`
	DataLimit      *string `json:"data_limit"`
	ExpirationDate *string `json:"expiration_date"`
}

func (r GeneratorPatchRequest) ToPatch() console.FormPatch {
	return console.FormPatch{
		Quantity:       r.Quantity,
		Duration:       r.Duration,
		DataLimit:      r.DataLimit,
		ExpirationDate: r.ExpirationDate,
	}
}
