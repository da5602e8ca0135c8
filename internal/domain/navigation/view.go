package navigation

// View is one of the console's top-level screens.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewGenerate  View = "generate"
	ViewVouchers  View = "vouchers"
)

const (
	DefaultView View = ViewDashboard
	// StorageKey prefixes the preference key holding one browser session's last active view.
	StorageKey = "muroni-active-view"
)

// SessionKey is the preference key of one console session. Tabs sharing the session cookie
// share the value; other admins never see it.
func SessionKey(sessionID string) string {
	return StorageKey + ":" + sessionID
}

type MenuItem struct {
	View  View
	Title string
}

var Menu = []MenuItem{
	{View: ViewDashboard, Title: "Dashboard"},
	{View: ViewGenerate, Title: "Generate Vouchers"},
	{View: ViewVouchers, Title: "Manage Vouchers"},
}

func (v View) String() string {
	return string(v)
}

func (v View) Path() string {
	return "/" + string(v)
}

func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDashboard, ViewGenerate, ViewVouchers:
		return View(s), true
	}
	return DefaultView, false
}
