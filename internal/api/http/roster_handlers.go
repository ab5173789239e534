package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/roster"
)

// ---- classes ----

func ListClassesHandler(state *portal.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, state.Classes())
	}
}

func CreateClassHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roster.ClassInput
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := svc.AddClass(r.Context(), req)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, c)
	}
}

func DeleteClassHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := stored(r, svc.RemoveClass(r.Context(), chi.URLParam(r, "id"))); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- students ----

func ListStudentsHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Students())
	}
}

func CreateStudentHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roster.StudentInput
		if !decodeJSON(w, r, &req) {
			return
		}
		st, err := svc.AddStudent(r.Context(), req)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, st)
	}
}

func UpdateStudentHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roster.StudentInput
		if !decodeJSON(w, r, &req) {
			return
		}
		st, err := svc.UpdateStudent(r.Context(), chi.URLParam(r, "id"), req)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, st)
	}
}

func DeleteStudentHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := stored(r, svc.RemoveStudent(r.Context(), chi.URLParam(r, "id"))); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /students/import: multipart file= or a raw text/csv body.
func ImportStudentsHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := r.Body
		if f, _, err := r.FormFile("file"); err == nil {
			defer f.Close()
			body = f
		}
		rows, err := roster.ParseStudentsCSV(body)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		res, err := svc.ImportStudents(r.Context(), rows)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// GET /students/{id}/results
func StudentResultsHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := svc.StudentHistory(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, h)
	}
}

// GET /me/results
func MyResultsHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a := sessionActor(r)
		h, err := svc.StudentHistory(a.ID())
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, h)
	}
}

// ---- professors ----

func ListProfessorsHandler(state *portal.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, state.Professors())
	}
}

func CreateProfessorHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roster.ProfessorInput
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := svc.AddProfessor(r.Context(), req)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, p)
	}
}

func UpdateProfessorHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roster.ProfessorInput
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := svc.UpdateProfessor(r.Context(), chi.URLParam(r, "id"), req)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// PUT /professors/{id}/access {hasAccess}
func SetProfessorAccessHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			HasAccess bool `json:"hasAccess"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := svc.SetProfessorAccess(r.Context(), chi.URLParam(r, "id"), req.HasAccess)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

func DeleteProfessorHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := stored(r, svc.RemoveProfessor(r.Context(), chi.URLParam(r, "id"))); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
