package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/netlink-io/khatabook/internal/auth"
	"github.com/netlink-io/khatabook/internal/database"
	"github.com/netlink-io/khatabook/internal/ledger"
	"github.com/netlink-io/khatabook/internal/report"
	"github.com/shopspring/decimal"
)

// storeTimeout bounds every database operation issued by a handler.
const storeTimeout = 5 * time.Second

type Handler struct {
	auth     *auth.Provider
	ledger   *ledger.Service
	report   *report.Generator
	currency string
}

func New(a *auth.Provider, l *ledger.Service, r *report.Generator, currency string) *Handler {
	return &Handler{
		auth:     a,
		ledger:   l,
		report:   r,
		currency: currency,
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

func (h *Handler) Register(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.auth.Register(ctx, username, password)
	switch {
	case errors.Is(err, database.ErrDuplicateUsername):
		c.String(http.StatusConflict, "Username already exists")
	case errors.Is(err, auth.ErrMissingCredentials):
		c.String(http.StatusBadRequest, err.Error())
	case err != nil:
		log.Error("registration failed", "error", err)
		c.String(http.StatusInternalServerError, "registration failed")
	default:
		c.Redirect(http.StatusFound, "/login")
	}
}

func (h *Handler) LoginPage(c *gin.Context) {
	session := sessions.Default(c)
	if username, ok := session.Get(auth.SessionUserKey).(string); ok && username != "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", nil)
}

func (h *Handler) Login(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.auth.Verify(ctx, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.String(http.StatusUnauthorized, "Invalid login")
		return
	}
	if err != nil {
		log.Error("login failed", "error", err)
		c.String(http.StatusInternalServerError, "login failed")
		return
	}

	session := sessions.Default(c)
	session.Set(auth.SessionUserKey, user.Username)
	if err := session.Save(); err != nil {
		log.Error("failed to save session", "error", err)
		c.String(http.StatusInternalServerError, "login failed")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Dashboard(c *gin.Context) {
	h.renderDashboard(c)
}

func (h *Handler) AddEntry(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	_, err := h.ledger.AddEntry(ctx, ledger.NewEntry{
		Date:    c.PostForm("entry_date"),
		Person:  c.PostForm("person"),
		Amount:  c.PostForm("amount"),
		Type:    c.PostForm("type"),
		AddedBy: auth.CurrentUser(c),
	})
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		c.String(http.StatusBadRequest, verr.Error())
		return
	}
	if err != nil {
		log.Error("failed to add ledger entry", "error", err)
		c.String(http.StatusInternalServerError, "failed to add entry")
		return
	}

	h.renderDashboard(c)
}

func (h *Handler) DownloadPDF(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.ledger.EntriesBySequence(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load entries")
		return
	}

	data, err := h.report.Render(entries)
	if err != nil {
		// Fatal to this request only.
		log.Error("failed to render PDF report", "error", err)
		c.String(http.StatusInternalServerError, "failed to render report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid entry id")
		return
	}

	// Deleting a missing entry is a no-op.
	if err := h.ledger.DeleteEntry(ctx, uint(id)); err != nil {
		log.Error("failed to delete ledger entry", "error", err, "id", id)
		c.String(http.StatusInternalServerError, "failed to delete entry")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Error("failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

// entryView is a ledger entry with money cells already formatted for
// the dashboard template.
type entryView struct {
	ID      uint
	Date    string
	Person  string
	Credit  string
	Debit   string
	AddedBy string
	Balance string
}

func (h *Handler) money(d decimal.Decimal) string {
	return h.currency + " " + d.StringFixed(2)
}

func (h *Handler) renderDashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.ledger.Entries(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load entries")
		return
	}
	totalCredit, totalDebit, net, err := h.ledger.Totals(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load totals")
		return
	}

	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{
			ID:      e.ID,
			Date:    e.EntryDate,
			Person:  e.Person,
			Credit:  h.money(e.Credit),
			Debit:   h.money(e.Debit),
			AddedBy: e.AddedBy,
			Balance: h.money(e.Balance),
		})
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":        auth.CurrentUser(c),
		"Today":       time.Now().Format("2006-01-02"),
		"Entries":     views,
		"TotalCredit": h.money(totalCredit),
		"TotalDebit":  h.money(totalDebit),
		"NetBalance":  h.money(net),
	})
}
