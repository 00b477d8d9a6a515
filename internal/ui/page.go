package ui

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"itassets-dashboard/internal/accessor"
	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/form"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/notify"
	"itassets-dashboard/internal/store"
	"itassets-dashboard/internal/table"
)

// Page is the controller of one asset category. Its form is hidden, in
// create mode or in edit mode; a successful submit or a cancel hides it.
type Page[T models.Record] struct {
	h     *Handler
	def   entity.Definition
	table store.Table[T]
	log   logrus.FieldLogger
}

// assetsBody feeds the assets template.
type assetsBody struct {
	Def     entity.Definition
	Table   table.View
	Form    *form.Form
	Action  string
	Loading bool
}

func mountPage[T models.Record](r chi.Router, h *Handler, def entity.Definition, tbl store.Table[T]) {
	p := &Page[T]{h: h, def: def, table: tbl, log: h.log.WithField("entity", def.Slug)}

	r.Route("/"+def.Slug, func(r chi.Router) {
		r.Get("/", p.index)
		r.Get("/export.xlsx", p.export)
		r.Get("/{id}", p.view)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Post("/", p.create)
			r.Post("/{id}", p.update)
			r.Post("/{id}/delete", p.remove)
		})
	})
}

func (p *Page[T]) open(ctx context.Context, rec *notify.Recorder) *accessor.Accessor[T] {
	// A failed initial list has already been reported through rec.
	acc, _ := accessor.New(ctx, p.def, p.table, p.h.notifier(rec),
		accessor.WithSession(auth.UserID),
		accessor.WithObserver(p.h.opts.Observer),
	)
	return acc
}

func (p *Page[T]) path() string {
	return "/" + p.def.Slug
}

func (p *Page[T]) body(ctx context.Context, acc *accessor.Accessor[T], query string) assetsBody {
	admin := p.h.opts.IsAdmin(ctx)
	actions := table.Actions{View: true, Edit: admin, Delete: admin}
	return assetsBody{
		Def:     p.def,
		Table:   table.NewView(p.def.ListTitle(), p.def.Columns, acc.Rows(), query, actions),
		Loading: acc.Loading(),
	}
}

func (p *Page[T]) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec := &notify.Recorder{}
	acc := p.open(ctx, rec)

	q := r.URL.Query()
	body := p.body(ctx, acc, q.Get("q"))

	if p.h.opts.IsAdmin(ctx) {
		switch {
		case q.Get("form") == "new":
			body.Form = form.New(p.def.FormTitle(), p.def.Fields, nil)
			body.Action = p.path()
		case q.Get("edit") != "":
			if f, ok := p.editForm(ctx, acc, q.Get("edit"), rec); ok {
				body.Form = f
				body.Action = p.path() + "/" + q.Get("edit")
			}
		}
	}

	p.h.render(w, http.StatusOK, "assets", p.h.newView(w, r, p.def.Heading(), p.def.Slug, rec.Drain(), body))
}

// editForm seeds the form with the stored record translated back to form
// field names.
func (p *Page[T]) editForm(ctx context.Context, acc *accessor.Accessor[T], rawID string, n notify.Notifier) (*form.Form, bool) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		n.Notify(notify.Failure("Erro", "Registro não encontrado."))
		return nil, false
	}
	rec, err := acc.Get(ctx, id)
	if err != nil {
		msg := store.Message(err)
		if msg == "" {
			msg = "Registro não encontrado."
		}
		n.Notify(notify.Failure("Erro", msg))
		return nil, false
	}
	return form.New(p.def.EditTitle(), p.def.Fields, p.def.ToForm(rec)), true
}

func (p *Page[T]) create(w http.ResponseWriter, r *http.Request) {
	f := form.New(p.def.FormTitle(), p.def.Fields, nil)
	if !p.bind(w, r, f) {
		return
	}

	ctx := r.Context()
	rec := &notify.Recorder{}
	n := p.h.notifier(rec)
	acc := p.open(ctx, rec)
	err := f.Submit(ctx, acc.Create, n)
	p.finish(w, r, acc, f, p.path(), err, rec)
}

func (p *Page[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f := form.New(p.def.EditTitle(), p.def.Fields, nil)
	if !p.bind(w, r, f) {
		return
	}

	ctx := r.Context()
	rec := &notify.Recorder{}
	n := p.h.notifier(rec)
	acc := p.open(ctx, rec)
	err = f.Submit(ctx, func(ctx context.Context, values map[string]string) error {
		return acc.Update(ctx, id, values)
	}, n)
	p.finish(w, r, acc, f, p.path()+"/"+id.String(), err, rec)
}

// bind reads the posted form. A cancel press discards the edits and goes
// back to the list without validating; bind then reports false.
func (p *Page[T]) bind(w http.ResponseWriter, r *http.Request, f *form.Form) bool {
	if err := f.Bind(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if r.PostForm.Get("_action") == "cancel" {
		f.Cancel()
		http.Redirect(w, r, p.path(), http.StatusSeeOther)
		return false
	}
	return true
}

// finish hides the form after a successful submit. On failure the form is
// shown again with what the user typed.
func (p *Page[T]) finish(w http.ResponseWriter, r *http.Request, acc *accessor.Accessor[T], f *form.Form, action string, err error, rec *notify.Recorder) {
	if err == nil {
		p.h.redirect(w, r, p.path(), rec.Drain())
		return
	}

	body := p.body(r.Context(), acc, "")
	body.Form = f
	body.Action = action
	p.h.render(w, statusFor(err), "assets", p.h.newView(w, r, p.def.Heading(), p.def.Slug, rec.Drain(), body))
}

func (p *Page[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	rec := &notify.Recorder{}
	acc := p.open(ctx, rec)
	if err := acc.Delete(ctx, id); err != nil {
		p.log.WithError(err).WithField("id", id).Warn("delete failed")
	}

	target := p.path()
	if q := r.PostFormValue("q"); q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	p.h.redirect(w, r, target, rec.Drain())
}

// view has no detail page; it records the request and goes back to the list.
func (p *Page[T]) view(w http.ResponseWriter, r *http.Request) {
	p.log.WithField("id", chi.URLParam(r, "id")).Info("Visualizar")
	http.Redirect(w, r, p.path(), http.StatusSeeOther)
}

// export writes the filtered grid as a spreadsheet.
func (p *Page[T]) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec := &notify.Recorder{}
	acc, err := accessor.New(ctx, p.def, p.table, p.h.notifier(rec), accessor.WithObserver(p.h.opts.Observer))
	if err != nil {
		http.Error(w, p.def.LoadFailure(), http.StatusBadGateway)
		return
	}

	v := table.NewView(p.def.ListTitle(), p.def.Columns, acc.Rows(), r.URL.Query().Get("q"), table.Actions{})
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+p.def.Slug+`.xlsx"`)
	if err := table.WriteXLSX(w, p.def.Plural, v); err != nil {
		p.log.WithError(err).Error("export failed")
	}
}
