package http

import (
	"errors"
	"net/http"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
)

const (
	entryFormID  = "entry-form"
	budgetFormID = "budget-form"
)

// movementRejection maps an input error to the message shown to the user.
func movementRejection(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "⚠️ Monto inválido"
	case errors.Is(err, core.ErrInvalidDate):
		return "⚠️ Fecha inválida"
	case errors.Is(err, core.ErrInvalidType):
		return "⚠️ Tipo inválido"
	case errors.Is(err, core.ErrEmptyCategory):
		return "⚠️ Selecciona una categoría"
	}
	return ""
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.TriggerFormReset(entryFormID).Write(w)
		return
	}

	m, err := ParseMovementForm(r.PostForm, s.ledger.Today())
	if err == nil {
		err = s.ledger.AddMovement(r.Context(), m)
	}
	if err != nil {
		if msg := movementRejection(err); msg != "" {
			applog.FromContext(r.Context()).InfoContext(r.Context(), "Movement rejected",
				applog.NewFields().Operation(applog.OpAppend).Err(err, applog.ErrorTypeValidation)...)
			WarningResponse(http.StatusUnprocessableEntity, msg).TriggerFormReset(entryFormID).Write(w)
			return
		}
		s.storeFailure(w, r, applog.OpAppend, err)
		return
	}

	msg := "✅ ¡" + string(m.Type) + " registrado!"
	NewHTMXResponse().
		TriggerLedgerChanged(storage.Movements).
		TriggerFormReset(entryFormID).
		TriggerSuccessNotification(msg).
		Notice(NotificationSuccess, msg).
		Write(w)
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	b, err := ParseBudgetForm(r.PostForm)
	var created bool
	if err == nil {
		created, err = s.ledger.UpsertBudget(r.Context(), b)
	}
	switch {
	case errors.Is(err, core.ErrInvalidLimit):
		WarningResponse(http.StatusUnprocessableEntity, "⚠️ Límite inválido").Write(w)
		return
	case errors.Is(err, core.ErrEmptyCategory):
		WarningResponse(http.StatusUnprocessableEntity, "⚠️ Selecciona una categoría").Write(w)
		return
	case err != nil:
		s.storeFailure(w, r, applog.OpUpsert, err)
		return
	}

	applog.FromContext(r.Context()).DebugContext(r.Context(), "Budget upserted",
		applog.FieldCategory, b.Category, "created", created)
	NewHTMXResponse().
		TriggerLedgerChanged(storage.Budgets).
		TriggerFormReset(budgetFormID).
		TriggerSuccessNotification("✅ Meta actualizada").
		Notice(NotificationSuccess, "✅ Meta actualizada").
		Write(w)
}

func (s *Server) handleDeleteLast(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.ledger.DeleteLast(r.Context())
	if err != nil {
		s.storeFailure(w, r, applog.OpDeleteLast, err)
		return
	}
	if !deleted {
		NewHTMXResponse().
			TriggerInfoNotification("No hay registros para borrar").
			Notice(NotificationInfo, "No hay registros para borrar").
			Write(w)
		return
	}
	NewHTMXResponse().
		TriggerLedgerChanged(storage.Movements).
		TriggerInfoNotification("Eliminado").
		Notice(NotificationInfo, "Eliminado").
		Write(w)
}
