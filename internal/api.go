package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

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
)

// resource serves one asset table as JSON. Bodies are keyed by form field
// names; responses carry the typed records.
type resource[T models.Record] struct {
	s       *Server
	def     entity.Definition
	table   store.Table[T]
	allowed map[string]bool
}

func mountResource[T models.Record](s *Server, r chi.Router, def entity.Definition, table store.Table[T]) {
	res := &resource[T]{s: s, def: def, table: table, allowed: map[string]bool{"created_at": true}}
	for _, col := range def.Columns {
		res.allowed[col.Key] = true
	}

	admin := auth.MustRole(models.RoleAdmin)
	r.Route("/"+def.Slug, func(r chi.Router) {
		r.Get("/", res.list)
		r.Get("/{id}", res.get)
		r.Post("/", admin(http.HandlerFunc(res.create)).(http.HandlerFunc))
		r.Put("/{id}", admin(http.HandlerFunc(res.update)).(http.HandlerFunc))
		r.Delete("/{id}", admin(http.HandlerFunc(res.remove)).(http.HandlerFunc))
	})
}

func (res *resource[T]) open(r *http.Request) (*accessor.Accessor[T], error) {
	n := notify.LogNotifier{Log: res.s.Log.WithFields(logrus.Fields{
		"entity":     res.def.Slug,
		"request_id": requestID(r),
	})}
	return accessor.New(r.Context(), res.def, res.table, n,
		accessor.WithSession(auth.UserID),
		accessor.WithObserver(res.s.Metrics))
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	acc, err := res.open(r)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	params := parseListParams(r)
	recs := filterRecords(acc.Records(), params.q)
	sortRecords(recs, parseSort(params.sort, res.allowed))

	writeJSON(w, http.StatusOK, map[string]any{
		"data": recs,
		"meta": map[string]any{"total": len(recs), "q": params.q},
	})
}

func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := res.table.Get(r.Context(), id)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}
	if _, ok := values["status"]; !ok {
		values["status"] = models.StatusActive
	}
	if !res.checkChoices(w, values) {
		return
	}
	acc, err := res.open(r)
	if err != nil {
		sendStoreError(w, err)
		return
	}

	f := form.New(res.def.FormTitle(), res.def.Fields, values)
	if err := f.Submit(r.Context(), acc.Create, nil); err != nil {
		sendStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": acc.Last()})
}

func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}
	for name, v := range values {
		if f, known := res.def.Field(name); known && f.Required && v == "" {
			auth.SendError(w, "Por favor, preencha: "+f.Label, "MISSING_FIELDS", http.StatusUnprocessableEntity)
			return
		}
	}
	if !res.checkChoices(w, values) {
		return
	}
	acc, err := res.open(r)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	if err := acc.Update(r.Context(), id, values); err != nil {
		sendStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": acc.Last()})
}

func (res *resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	acc, err := res.open(r)
	if err != nil {
		sendStoreError(w, err)
		return
	}
	if err := acc.Delete(r.Context(), id); err != nil {
		sendStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkChoices rejects a fixed-choice field set outside its options. An
// empty optional value is allowed and stored as NULL.
func (res *resource[T]) checkChoices(w http.ResponseWriter, values map[string]string) bool {
	for name, v := range values {
		f, ok := res.def.Field(name)
		if !ok || f.Kind != form.KindChoice || v == "" || f.HasChoice(v) {
			continue
		}
		auth.SendError(w, fmt.Sprintf("%s: valor inválido %q", f.Label, v), "INVALID_CHOICE", http.StatusUnprocessableEntity)
		return false
	}
	return true
}

// getCounts serves the dashboard totals.
func (s *Server) getCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.Tables.Count(r.Context())
	if err != nil {
		s.Log.WithError(err).Warn("count assets")
		sendStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": counts})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		auth.SendError(w, "Invalid id", "INVALID_ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func decodeValues(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		auth.SendError(w, "Invalid request body", "INVALID_BODY", http.StatusBadRequest)
		return nil, false
	}
	if len(values) == 0 {
		auth.SendError(w, "Request body has no fields", "EMPTY_BODY", http.StatusBadRequest)
		return nil, false
	}
	return values, true
}

// sendStoreError maps accessor and store errors to the API error body.
func sendStoreError(w http.ResponseWriter, err error) {
	msg := store.Message(err)
	if msg == "" {
		msg = err.Error()
	}
	switch {
	case errors.Is(err, form.ErrMissingFields):
		auth.SendError(w, err.Error(), "MISSING_FIELDS", http.StatusUnprocessableEntity)
	case errors.Is(err, entity.ErrUnknownField), errors.Is(err, store.ErrColumn), errors.Is(err, store.ErrNoFields):
		auth.SendError(w, err.Error(), "INVALID_FIELD", http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		auth.SendError(w, "Not found", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		auth.SendError(w, msg, "CONFLICT", http.StatusConflict)
	default:
		auth.SendError(w, msg, "STORE_ERROR", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
