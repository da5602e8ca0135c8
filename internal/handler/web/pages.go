package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"voucher-console/internal/domain/navigation"
	"voucher-console/internal/handler/middleware"
	"voucher-console/internal/pkg/clock"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/console"
	"voucher-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html assets/*
var content embed.FS

const (
	layoutTemplate = "layout.html"
	printTemplate  = "print.html"
)

type menuLink struct {
	Title  string
	Path   string
	Active bool
}

type layoutData struct {
	Title string
	View  string
	Menu  []menuLink
	Page  any
}

type dashboardPage struct {
	Dashboard *queries.DashboardView
	Error     string
}

type printPage struct {
	Rows  [][]string
	Total int
}

// PageHandler renders the console pages. Page state comes from the session; every later
// interaction goes through the JSON API.
type PageHandler struct {
	shell     *console.Shell
	dashboard queries.DashboardQueries
	clock     clock.Clock
	logger    *slog.Logger
	pages     map[navigation.View]*template.Template
	print     *template.Template
}

func NewPageHandler(shell *console.Shell, dashboard queries.DashboardQueries, clk clock.Clock, logger *slog.Logger) (*PageHandler, error) {
	pages := make(map[navigation.View]*template.Template, len(navigation.Menu))
	for _, item := range navigation.Menu {
		t, err := template.New(layoutTemplate).ParseFS(content,
			"templates/"+layoutTemplate,
			"templates/"+item.View.String()+".html",
		)
		if err != nil {
			return nil, errs.Wrapf(err, "parse %s page", item.View)
		}
		pages[item.View] = t
	}
	printTmpl, err := template.New(printTemplate).ParseFS(content, "templates/"+printTemplate)
	if err != nil {
		return nil, errs.Wrap(err, "parse print page")
	}
	return &PageHandler{
		shell:     shell,
		dashboard: dashboard,
		clock:     clk,
		logger:    logger,
		pages:     pages,
		print:     printTmpl,
	}, nil
}

// Assets serves the embedded stylesheet and script.
func Assets() http.FileSystem {
	sub, err := fs.Sub(content, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Root sends the browser to the session's persisted active view.
func (h *PageHandler) Root(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, h.shell.Active(c.Request.Context(), session.ID).Path())
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	page := dashboardPage{}
	view, err := h.dashboard.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		page.Error = err.Error()
	} else {
		page.Dashboard = view
	}
	h.render(c, session, navigation.ViewDashboard, page)
}

func (h *PageHandler) Generate(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	h.render(c, session, navigation.ViewGenerate, session.Generator.View())
}

// Vouchers re-fetches the collection whenever the view is entered from another view. Rendering
// it again without leaving reuses the fetched slice.
func (h *PageHandler) Vouchers(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	load := session.List.Load
	if session.Enter(navigation.ViewVouchers) {
		load = session.List.Reload
	}
	if err := load(c.Request.Context()); err != nil {
		// the list view carries the error text
		_ = c.Error(err)
	}
	h.render(c, session, navigation.ViewVouchers, session.List.View(h.clock.Now()))
}

// Print lays out the filtered codes for printing. It does not change the active view.
func (h *PageHandler) Print(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if err := session.List.Load(c.Request.Context()); err != nil {
		_ = c.Error(err)
	}
	rows := session.List.PrintRows()
	total := 0
	for _, r := range rows {
		total += len(r)
	}
	c.Render(http.StatusOK, render.HTML{
		Template: h.print,
		Name:     printTemplate,
		Data:     printPage{Rows: rows, Total: total},
	})
}

func (h *PageHandler) render(c *gin.Context, session *console.Session, view navigation.View, page any) {
	session.Enter(view)
	if _, err := h.shell.SetActive(c.Request.Context(), session.ID, view.String()); err != nil {
		h.logger.Warn("failed to persist active view", "view", view, "session_id", session.ID, "error", err)
	}

	data := layoutData{View: view.String(), Page: page}
	for _, item := range navigation.Menu {
		active := item.View == view
		if active {
			data.Title = item.Title
		}
		data.Menu = append(data.Menu, menuLink{Title: item.Title, Path: item.View.Path(), Active: active})
	}
	c.Render(http.StatusOK, render.HTML{
		Template: h.pages[view],
		Name:     layoutTemplate,
		Data:     data,
	})
}
