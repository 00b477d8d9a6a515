package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"itassets-dashboard/internal/accessor"
	"itassets-dashboard/internal/assets"
	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/notify"
	"itassets-dashboard/pkg/importer"
)

// ImportsHandler handles Excel import operations
type ImportsHandler struct {
	Tables   *assets.Tables
	Mapping  *importer.Mapping
	Observer accessor.Observer
	Log      logrus.FieldLogger
	MaxBytes int64
}

// NewImportsHandler creates a new imports handler. A nil mapping selects the
// built-in aliases.
func NewImportsHandler(tables *assets.Tables, mapping *importer.Mapping, observer accessor.Observer, log logrus.FieldLogger) *ImportsHandler {
	if mapping == nil {
		mapping = importer.DefaultMapping()
	}
	return &ImportsHandler{
		Tables:   tables,
		Mapping:  mapping,
		Observer: observer,
		Log:      log,
		MaxBytes: 20 << 20, // 20 MB
	}
}

// UploadExcel imports the "file" part of a multipart request. Rows are
// created as the calling user.
func (h *ImportsHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		http.Error(w, "content-type must be multipart/form-data", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	dryRun := r.FormValue("dry_run") == "true"
	maxErrors := 50
	if v := r.FormValue("max_errors"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxErrors = n
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		http.Error(w, "only .xlsx files are accepted", http.StatusBadRequest)
		return
	}

	log := h.logger().WithFields(logrus.Fields{"file": header.Filename, "dry_run": dryRun})
	if id, ok := auth.UserID(r.Context()); ok {
		log = log.WithField("user_id", id)
	}

	sum, impErr := importer.Import(r.Context(), file, h.open, importer.Options{
		Mapping:   h.Mapping,
		DryRun:    dryRun,
		MaxErrors: maxErrors,
	})
	if impErr != nil {
		log.WithError(impErr).Warn("import failed")
		code := "IMPORT_FAILED"
		if errors.Is(impErr, importer.ErrTooManyErrors) {
			code = "TOO_MANY_ERRORS"
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   code,
			"details": impErr.Error(),
			"data":    sum,
		})
		return
	}

	log.WithFields(logrus.Fields{
		"inserted": sum.Inserted,
		"skipped":  sum.Skipped,
		"errors":   sum.Errors,
	}).Info("import finished")

	writeJSON(w, http.StatusOK, map[string]any{
		"data": sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *ImportsHandler) open(ctx context.Context, def entity.Definition) (importer.Creator, error) {
	opts := []accessor.Option{accessor.WithSession(auth.UserID), accessor.WithoutRefresh()}
	if h.Observer != nil {
		opts = append(opts, accessor.WithObserver(h.Observer))
	}
	return h.Tables.Open(ctx, def, notify.LogNotifier{Log: h.logger().WithField("entity", def.Slug)}, opts...)
}

func (h *ImportsHandler) logger() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}

// isXLSX checks if the uploaded file is an Excel .xlsx file
func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
