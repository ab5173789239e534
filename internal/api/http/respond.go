package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/profedug/GabaritaIF/internal/auth"
	authmw "github.com/profedug/GabaritaIF/internal/auth/middleware"
	"github.com/profedug/GabaritaIF/internal/authoring"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/quiz"
	"github.com/profedug/GabaritaIF/internal/roster"
	"github.com/profedug/GabaritaIF/internal/storage"
	"github.com/profedug/GabaritaIF/internal/validator"
)

type errorBody struct {
	Error  string                 `json:"error"`
	Fields []validator.FieldError `json:"fields,omitempty"`
	View   auth.View              `json:"view,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "bad json"})
		return false
	}
	return true
}

// respondError maps domain errors to statuses. Messages meant for the user
// pass through; anything unexpected is logged and hidden.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		cred *auth.CredentialError
		verr *validator.ValidationError
	)
	switch {
	case errors.As(err, &cred):
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: cred.Message})
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message, Fields: verr.Fields})
	case errors.Is(err, authoring.ErrGeneration):
		slog.WarnContext(r.Context(), "question generation failed", "error", err)
		respondJSON(w, http.StatusBadGateway, errorBody{Error: authoring.GenerationFailedNotice})
	case errors.Is(err, portal.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: "não encontrado"})
	case errors.Is(err, portal.ErrDuplicateEmail):
		respondJSON(w, http.StatusConflict, errorBody{Error: "E-mail já cadastrado."})
	case errors.Is(err, portal.ErrDuplicatePIN):
		respondJSON(w, http.StatusConflict, errorBody{Error: "PIN já está em uso."})
	case errors.Is(err, quiz.ErrNotVisible):
		respondJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, quiz.ErrOptionRange):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, storage.ErrNotImage), errors.Is(err, storage.ErrInvalidKey):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, storage.ErrTooLarge):
		respondJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error()})
	case errors.Is(err, authoring.ErrBusy),
		errors.Is(err, authoring.ErrDraftPending),
		errors.Is(err, authoring.ErrNoDraft),
		errors.Is(err, quiz.ErrAlreadyCompleted),
		errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, quiz.ErrNoSelection),
		errors.Is(err, quiz.ErrWrongPhase),
		errors.Is(err, roster.ErrSecretManaged):
		respondJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// stored drops persistence failures after logging them: the change is live
// in memory and the client should carry on.
func stored(r *http.Request, err error) error {
	if errors.Is(err, portal.ErrNotPersisted) {
		slog.ErrorContext(r.Context(), "change kept in memory only", "path", r.URL.Path, "error", err)
		return nil
	}
	return err
}

func sessionActor(r *http.Request) (*auth.Session, auth.Actor) {
	sess := authmw.SessionFromContext(r.Context())
	if sess == nil {
		return nil, auth.Actor{}
	}
	return sess, sess.Actor()
}
