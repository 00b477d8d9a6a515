// Package ui serves the HTML dashboard: one page per asset category, the
// overview, account pages and the client-side preferences.
package ui

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"itassets-dashboard/internal/accessor"
	"itassets-dashboard/internal/assets"
	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/form"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/notify"
	"itassets-dashboard/internal/store"
	"itassets-dashboard/internal/table"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "register", "dashboard", "assets", "profile", "settings"}

// Options wires the pages to their collaborators.
type Options struct {
	Tables   *assets.Tables
	Auth     *auth.Service
	Log      logrus.FieldLogger
	Observer accessor.Observer
	// Secure marks cookies Secure.
	Secure bool
	// IsAdmin decides who may create, edit and delete records. Defaults to
	// the session role.
	IsAdmin func(ctx context.Context) bool
}

type Handler struct {
	opts  Options
	log   logrus.FieldLogger
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New(opts Options) (*Handler, error) {
	if opts.Tables == nil || opts.Auth == nil {
		return nil, errors.New("ui: tables and auth service are required")
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.IsAdmin == nil {
		opts.IsAdmin = auth.IsAdmin
	}

	h := &Handler{
		opts:  opts,
		log:   opts.Log.WithField("component", "ui"),
		pages: make(map[string]*template.Template, len(pageNames)),
	}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		h.pages[name] = tmpl
	}
	return h, nil
}

// Public mounts the pages reachable without a session.
func (h *Handler) Public(r chi.Router) {
	r.Get("/login", h.loginPage)
	r.Post("/login", h.login)
	r.Get("/register", h.registerPage)
	r.Post("/register", h.register)
	r.Post("/logout", h.logout)
}

// Protected mounts the pages that need a session. The caller installs the
// session middleware.
func (h *Handler) Protected(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Get("/perfil", h.profilePage)
	r.Post("/perfil", h.updateProfile)
	r.Get("/configuracoes", h.settingsPage)
	r.Post("/configuracoes", h.saveSettings)
	r.Post("/configuracoes/reset", h.resetSettings)

	t := h.opts.Tables
	mountPage(r, h, entity.Computers, t.Computers)
	mountPage(r, h, entity.Phones, t.Phones)
	mountPage(r, h, entity.Switches, t.Switches)
	mountPage(r, h, entity.AccessPoints, t.AccessPoints)
	mountPage(r, h, entity.Collectors, t.Collectors)
}

// requireAdmin answers 403 to everyone the admin gate rejects.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.opts.IsAdmin(r.Context()) {
			h.log.WithField("path", r.URL.Path).Warn("mutating request from non-admin")
			http.Error(w, "Acesso negado", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// notifier sends notices to the request recorder and to the log.
func (h *Handler) notifier(rec *notify.Recorder) notify.Notifier {
	return notify.Multi{rec, notify.LogNotifier{Log: h.log}}
}

type navItem struct {
	Href        string
	Label       string
	Description string
	Active      bool
}

var dashboardNav = navItem{Href: "/", Label: "Dashboard", Description: "Visão geral dos ativos"}

func navigation(active string) []navItem {
	items := []navItem{dashboardNav}
	items[0].Active = active == ""
	for _, d := range entity.All() {
		items = append(items, navItem{
			Href:        "/" + d.Slug,
			Label:       d.Plural,
			Description: sidebarDescription(d),
			Active:      d.Slug == active,
		})
	}
	return items
}

func sidebarDescription(d entity.Definition) string {
	switch d.Slug {
	case entity.Phones.Slug:
		return "Gestão de smartphones"
	case entity.AccessPoints.Slug:
		return "Gestão de APs wireless"
	default:
		return "Gestão de " + strings.ToLower(d.Plural)
	}
}

// view is what the layout template receives.
type view struct {
	Title    string
	Session  *auth.Session
	Admin    bool
	Nav      []navItem
	Notices  []notify.Notice
	Settings models.UserSettings
	Body     any
}

// newView collects the per-request chrome: session, flashed notices and
// the preferences cookie.
func (h *Handler) newView(w http.ResponseWriter, r *http.Request, title, active string, notices []notify.Notice, body any) view {
	v := view{
		Title:    title,
		Admin:    h.opts.IsAdmin(r.Context()),
		Settings: readSettings(r),
		Body:     body,
	}
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		v.Session = &s
		v.Nav = navigation(active)
	}
	v.Notices = append(takeFlash(w, r, h.opts.Secure), notices...)
	return v
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, v view) {
	tmpl, ok := h.pages[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		h.log.WithError(err).WithField("template", name).Error("render failed")
		http.Error(w, "Erro ao renderizar a página", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WithError(err).Debug("write response")
	}
}

// redirect flashes notices and sends the browser to target.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string, notices []notify.Notice) {
	setFlash(w, notices, h.opts.Secure)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// statusFor maps an operation error to the status of the re-rendered page.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrMissingFields):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrUnknownField), errors.Is(err, store.ErrColumn), errors.Is(err, store.ErrNoFields):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

var funcs = template.FuncMap{
	"toneClass": func(t table.Tone) string {
		if t == "" {
			return ""
		}
		return "badge badge-" + string(t)
	},
	"noticeClass": func(n notify.Notice) string {
		if n.Variant == notify.Destructive {
			return "toast toast-destructive"
		}
		return "toast"
	},
	"value": func(f *form.Form, name string) string {
		return f.Value(name)
	},
	"percent": func(n, total int) string {
		if total == 0 {
			return "0.0"
		}
		return fmt.Sprintf("%.1f", float64(n)*100/float64(total))
	},
	"visible": func(n notify.Notice, s models.UserSettings) bool {
		return s.Notifications || n.Variant == notify.Destructive
	},
}
