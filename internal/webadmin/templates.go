// ABOUTME: Template rendering functions for admin UI
// ABOUTME: Loads templates from embedded filesystem and renders them

package webadmin

import (
	"html/template"
	"net/http"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/chat"
	"github.com/2389/assist-console/internal/dashboard"
)

var templateFuncs = template.FuncMap{
	"markdown": chat.Render,
	"pretty":   dashboard.Pretty,
}

// Template data types
type loginData struct {
	Title     string
	Error     string
	Username  string
	CSRFToken string
}

type dashboardData struct {
	Title     string
	CSRFToken string
	Training  dashboard.TrainStatus
}

type logsData struct {
	UserID string
	Logs   []api.LogRecord
}

type sessionData struct {
	Session *api.SessionContext
}

type fallbacksData struct {
	Events []api.FallbackEvent
}

type transcriptData struct {
	Messages []chat.Message
	InFlight bool
	Notice   string
}

type chatPageData struct {
	Title        string
	CSRFToken    string
	SubmissionID string
	AutoReply    bool
	Transcript   transcriptData
}

// parsePage parses the base layout, one page, and every partial.
func parsePage(page string) *template.Template {
	return template.Must(template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS,
		"templates/base.html", "templates/"+page, "templates/partials/*.html"))
}

// renderLoginPage renders the login page
func (a *Admin) renderLoginPage(w http.ResponseWriter, errorMsg, username, csrfToken string) {
	tmpl := parsePage("login.html")

	data := loginData{
		Title:     "Login",
		Error:     errorMsg,
		Username:  username,
		CSRFToken: csrfToken,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render login page", "error", err)
	}
}

// renderDashboard renders the main dashboard
func (a *Admin) renderDashboard(w http.ResponseWriter, csrfToken string, training dashboard.TrainStatus) {
	tmpl := parsePage("dashboard.html")

	data := dashboardData{
		Title:     "Dashboard",
		CSRFToken: csrfToken,
		Training:  training,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render dashboard", "error", err)
	}
}

// renderChatPage renders the chat widget
func (a *Admin) renderChatPage(w http.ResponseWriter, data chatPageData) {
	tmpl := parsePage("chat.html")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render chat page", "error", err)
	}
}

// renderPartial renders one named partial (htmx swap target)
func (a *Admin) renderPartial(w http.ResponseWriter, name string, data any) {
	tmpl := template.Must(template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/partials/*.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		a.logger.Error("failed to render partial", "partial", name, "error", err)
	}
}
