package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	applog "finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func (s *Server) handleBackupPanel(w http.ResponseWriter, r *http.Request) {
	mt, err := s.ledger.Movements(r.Context())
	if err != nil {
		s.storeFailure(w, r, applog.OpExport, err)
		return
	}
	bt, err := s.ledger.Budgets(r.Context())
	if err != nil {
		s.storeFailure(w, r, applog.OpExport, err)
		return
	}
	s.render(w, r, "backup", backupView{
		HasMovements: !mt.IsEmpty(),
		HasBudgets:   !bt.IsEmpty(),
		MaxUploadMB:  s.maxUpload >> 20,
	})
}

type restoreFunc func(ctx context.Context, r io.Reader) (int, error)

// restoreMessages are the user-facing texts of one restore endpoint.
type restoreMessages struct {
	table       string
	success     string
	unreadable  func(err error) string
	wrongFormat string
}

func (s *Server) handleRestoreMovements(w http.ResponseWriter, r *http.Request) {
	s.restore(w, r, s.backup.RestoreMovements, restoreMessages{
		table:       storage.Movements,
		success:     "✅ Historial recuperado",
		unreadable:  func(err error) string { return "Error: " + err.Error() },
		wrongFormat: "El archivo no tiene el formato correcto.",
	})
}

func (s *Server) handleRestoreBudgets(w http.ResponseWriter, r *http.Request) {
	s.restore(w, r, s.backup.RestoreBudgets, restoreMessages{
		table:      storage.Budgets,
		success:    "✅ Presupuestos recuperados",
		unreadable: func(error) string { return "Error al cargar presupuesto" },
	})
}

func (s *Server) restore(w http.ResponseWriter, r *http.Request, fn restoreFunc, msgs restoreMessages) {
	logger := applog.FromContext(r.Context())

	content, err := ReadUpload(w, r, "file", s.maxUpload)
	switch {
	case errors.Is(err, ErrUploadTooLarge):
		WarningResponse(http.StatusRequestEntityTooLarge, "El archivo es demasiado grande").Write(w)
		return
	case err != nil:
		WarningResponse(http.StatusBadRequest, "Selecciona un archivo CSV").Write(w)
		return
	}

	rows, err := fn(r.Context(), bytes.NewReader(content))
	switch {
	case errors.Is(err, services.ErrIncorrectFormat) && msgs.wrongFormat != "":
		logger.InfoContext(r.Context(), "Backup rejected",
			applog.NewFields().Operation(applog.OpRestore).Add(applog.FieldTable, msgs.table).Err(err, applog.ErrorTypeValidation)...)
		WarningResponse(http.StatusUnprocessableEntity, msgs.wrongFormat).Write(w)
		return
	case errors.Is(err, services.ErrUnreadableUpload), errors.Is(err, services.ErrIncorrectFormat):
		logger.InfoContext(r.Context(), "Backup unreadable",
			applog.NewFields().Operation(applog.OpRestore).Add(applog.FieldTable, msgs.table).Err(err, applog.ErrorTypeValidation)...)
		ErrorResponse(http.StatusUnprocessableEntity, msgs.unreadable(err)).Write(w)
		return
	case err != nil:
		s.storeFailure(w, r, applog.OpRestore, err)
		return
	}

	logger.InfoContext(r.Context(), "Backup restored",
		applog.NewFields().Operation(applog.OpRestore).Table(msgs.table, rows)...)
	NewHTMXResponse().
		TriggerLedgerChanged(msgs.table).
		TriggerSuccessNotification(msgs.success).
		Notice(NotificationSuccess, msgs.success).
		Write(w)
}

func (s *Server) handleExportMovements(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, s.backup.ExportMovements)
}

func (s *Server) handleExportBudgets(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, s.backup.ExportBudgets)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, fn func(context.Context) (services.Export, error)) {
	exp, err := fn(r.Context())
	switch {
	case errors.Is(err, services.ErrNothingToExport):
		NotFoundError("No hay datos para descargar").Write(w)
		return
	case err != nil:
		s.storeFailure(w, r, applog.OpExport, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Content)

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Backup exported",
		applog.FieldFilename, exp.Filename, "bytes", len(exp.Content))
}
