package handler

import (
	"net/http"

	"customer-insights/internal/config"
	"customer-insights/internal/dashboard"
	"customer-insights/internal/filetype"
	"customer-insights/internal/session"
	"customer-insights/internal/stats"

	"github.com/gin-gonic/gin"
)

// DashboardHandler renders the App's state and turns form posts into events.
// Every POST answers with a redirect to / so a reload never resubmits.
type DashboardHandler struct {
	app        *dashboard.App
	cfg        config.DashboardConfig
	backendURL string
}

func NewDashboardHandler(app *dashboard.App, cfg config.DashboardConfig, backendURL string) *DashboardHandler {
	return &DashboardHandler{app: app, cfg: cfg, backendURL: backendURL}
}

// CurrentSession is the session source for middleware.RequireSession.
func (h *DashboardHandler) CurrentSession() *session.Session {
	return h.app.Snapshot().Session
}

type page struct {
	viewState
	Epoch         uint64
	Table         stats.Table
	RowCount      int
	Truncated     bool
	Total         int
	Accept        string
	CategoryField string
}

// Index handles GET /
func (h *DashboardHandler) Index(c *gin.Context) {
	st := h.app.Snapshot()
	p := page{
		viewState:     newViewState(st, h.backendURL),
		Epoch:         st.Epoch,
		Accept:        filetype.Accept,
		CategoryField: st.CategoryField,
		Total:         stats.Total(st.Board.Distribution),
	}
	if st.Board.Result != nil {
		rows := st.Board.Result.Rows
		p.Table = stats.Tabulate(rows, h.cfg.PreviewLimit)
		p.RowCount = len(rows)
		p.Truncated = len(p.Table.Rows) < len(rows)
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index", p)
}

// State handles GET /api/state
func (h *DashboardHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, newViewState(h.app.Snapshot(), h.backendURL))
}

// DismissNotices handles POST /notices/dismiss
func (h *DashboardHandler) DismissNotices(c *gin.Context) {
	h.app.Dispatch(dashboard.NoticesDismissed{})
	back(c)
}

// Healthz handles GET /healthz. It reports on this process, not the backend.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func back(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
