package handlers

import (
	"StateDeck/internal/serialize"
	"StateDeck/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StateHandler — состояния элементов.
type StateHandler struct {
	States *service.StateService
	Logger *zap.SugaredLogger
}

func NewStateHandler(states *service.StateService, logger *zap.SugaredLogger) *StateHandler {
	return &StateHandler{States: states, Logger: logger}
}

func (h *StateHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.States.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.Logger, "ListStates", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.States(list))
}

func (h *StateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("CreateState: invalid request", "error", err)
		writeAppError(w, h.Logger, "CreateState", err)
		return
	}
	st, err := h.States.Create(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeAppError(w, h.Logger, "CreateState", err)
		return
	}
	writeJSON(w, http.StatusCreated, serialize.FromState(st))
}

func (h *StateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateStateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("UpdateState: invalid request", "error", err)
		writeAppError(w, h.Logger, "UpdateState", err)
		return
	}
	st, err := h.States.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		writeAppError(w, h.Logger, "UpdateState", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.FromState(st))
}

func (h *StateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.States.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, h.Logger, "DeleteState", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
