package response

import (
	"voucher-console/internal/domain/navigation"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/console"
	"voucher-console/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

// mustCopy maps view structs onto responses. Both sides are fixed at compile time, so a copier
// error is a programming mistake.
func mustCopy(to, from any) {
	if err := copier.Copy(to, from); err != nil {
		panic(errs.Wrapf(err, "map %T to %T", from, to))
	}
}

type NotificationResponse struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func FromNotification(n console.Notification) *NotificationResponse {
	if n.Title == "" {
		return nil
	}
	return &NotificationResponse{Kind: string(n.Kind), Title: n.Title, Message: n.Message}
}

type CardResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
	PaletteClass string `json:"palette_class"`
	ServerStatus string `json:"server_status"`
	Overridden   bool   `json:"overridden"`
	Duration     string `json:"duration"`
	DataLimit    string `json:"data_limit"`
	CreatedAt    string `json:"created_at"`
	UsedAt       string `json:"used_at"`
	ExpiryMode   string `json:"expiry_mode"`
	ExpiryText   string `json:"expiry_text"`
	CanToggle    bool   `json:"can_toggle"`
	Enabled      bool   `json:"enabled"`
	InFlight     bool   `json:"in_flight"`
	ConfirmOpen  bool   `json:"confirm_open"`
}

func FromCardView(v console.CardView) CardResponse {
	var res CardResponse
	mustCopy(&res, &v)
	return res
}

type ListResponse struct {
	Loaded        bool           `json:"loaded"`
	Error         string         `json:"error,omitempty"`
	Search        string         `json:"search"`
	Filter        string         `json:"filter"`
	Total         int            `json:"total"`
	Vouchers      []CardResponse `json:"vouchers"`
	SelectedIDs   []string       `json:"selected_ids"`
	Selection     string         `json:"selection"`
	FilterOptions []string       `json:"filter_options"`
}

func FromListView(v console.ListView) *ListResponse {
	res := &ListResponse{
		Loaded:        v.Loaded,
		Error:         v.Error,
		Search:        v.Search,
		Filter:        v.Filter,
		Total:         v.Total,
		Vouchers:      make([]CardResponse, 0, len(v.Cards)),
		SelectedIDs:   v.SelectedIDs,
		Selection:     string(v.Selection),
		FilterOptions: v.FilterOptions,
	}
	for _, c := range v.Cards {
		res.Vouchers = append(res.Vouchers, FromCardView(c))
	}
	return res
}

type CardActionResponse struct {
	Voucher      *CardResponse         `json:"voucher,omitempty"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

type ListActionResponse struct {
	List         *ListResponse         `json:"list"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

type CopyResponse struct {
	Code         string                `json:"code"`
	Notification *NotificationResponse `json:"notification"`
}

type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type BulkDeleteResponse struct {
	Succeeded    []string              `json:"succeeded"`
	Failed       []BulkFailure         `json:"failed"`
	List         *ListResponse         `json:"list"`
	Notification *NotificationResponse `json:"notification"`
}

// FromBulkResult lists failures in request order.
func FromBulkResult(requested []string, r commands.BulkResult) ([]string, []BulkFailure) {
	failed := make([]BulkFailure, 0, len(r.Failed))
	for _, id := range requested {
		if err, ok := r.Failed[id]; ok {
			failed = append(failed, BulkFailure{ID: id, Error: err.Error()})
		}
	}
	succeeded := r.Succeeded
	if succeeded == nil {
		succeeded = []string{}
	}
	return succeeded, failed
}

type PrintResponse struct {
	Columns int        `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type BadgesResponse struct {
	Status    string `json:"status"`
	Duration  string `json:"duration"`
	DataLimit string `json:"data_limit"`
}

type GeneratorResponse struct {
	Quantity         string           `json:"quantity"`
	Duration         string           `json:"duration"`
	DataLimit        string           `json:"data_limit"`
	ExpirationDate   string           `json:"expiration_date"`
	ExpiresAt        string           `json:"expires_at"`
	ManualExpiry     bool             `json:"manual_expiry"`
	Submitting       bool             `json:"submitting"`
	Error            string           `json:"error,omitempty"`
	Codes            []string         `json:"codes"`
	Badges           *BadgesResponse  `json:"badges,omitempty"`
	DurationOptions  []OptionResponse `json:"duration_options"`
	DataLimitOptions []OptionResponse `json:"data_limit_options"`
}

func FromGeneratorView(v console.GeneratorView) *GeneratorResponse {
	res := &GeneratorResponse{
		Quantity:       v.Quantity,
		Duration:       v.Duration,
		DataLimit:      v.DataLimit,
		ExpirationDate: v.ExpirationDate,
		ExpiresAt:      v.ExpiresAt,
		ManualExpiry:   v.ManualExpiry,
		Submitting:     v.Submitting,
		Error:          v.Error,
		Codes:          v.Codes,
	}
	if res.Codes == nil {
		res.Codes = []string{}
	}
	if len(v.Codes) > 0 {
		res.Badges = &BadgesResponse{}
		mustCopy(res.Badges, &v.Badges)
	}
	mustCopy(&res.DurationOptions, &v.DurationOptions)
	mustCopy(&res.DataLimitOptions, &v.DataLimitOptions)
	return res
}

type GeneratorActionResponse struct {
	Generator    *GeneratorResponse    `json:"generator"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

type StatsResponse struct {
	Total       int    `json:"total"`
	Active      int    `json:"active"`
	UsedToday   int    `json:"used_today"`
	SuccessRate string `json:"success_rate"`
}

type ActivityResponse struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Time    string `json:"time"`
	Variant string `json:"variant"`
}

type DashboardResponse struct {
	Stats    StatsResponse      `json:"stats"`
	Activity []ActivityResponse `json:"activity"`
}

func FromDashboardView(v *queries.DashboardView) *DashboardResponse {
	res := &DashboardResponse{Activity: []ActivityResponse{}}
	mustCopy(&res.Stats, &v.Stats)
	mustCopy(&res.Activity, &v.Activity)
	return res
}

type MenuItemResponse struct {
	View  string `json:"view"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type NavigationResponse struct {
	Active string             `json:"active"`
	Menu   []MenuItemResponse `json:"menu"`
}

func FromNavigation(active navigation.View) *NavigationResponse {
	res := &NavigationResponse{Active: active.String(), Menu: make([]MenuItemResponse, 0, len(navigation.Menu))}
	for _, m := range navigation.Menu {
		res.Menu = append(res.Menu, MenuItemResponse{View: m.View.String(), Title: m.Title, Path: m.View.Path()})
	}
	return res
}
