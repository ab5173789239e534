package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/quiz"
	"github.com/profedug/GabaritaIF/internal/roster"
)

// ---- simulations ----

func ListSimulationsHandler(state *portal.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, state.Simulations())
	}
}

func GetSimulationHandler(state *portal.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sim, ok := state.Simulation(chi.URLParam(r, "id"))
		if !ok {
			respondError(w, r, portal.ErrNotFound)
			return
		}
		respondJSON(w, http.StatusOK, sim)
	}
}

func SimulationSummaryHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := svc.SimulationSummary(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, sum)
	}
}

// GET /mural: simulations the student can see, with a completed flag.
func MuralHandler(svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a := sessionActor(r)
		if a.Student == nil {
			respondJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
			return
		}
		respondJSON(w, http.StatusOK, svc.Mural(*a.Student))
	}
}

// ---- quiz run ----

// POST /quiz/{simID}/start replaces any unfinished attempt of the session.
func StartQuizHandler(state *portal.State, fb genai.FeedbackGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, a := sessionActor(r)
		if a.Student == nil {
			respondJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
			return
		}
		sim, ok := state.Simulation(chi.URLParam(r, "simID"))
		if !ok {
			respondError(w, r, portal.ErrNotFound)
			return
		}
		run, err := quiz.Start(state, fb, sim, *a.Student)
		if err != nil {
			respondError(w, r, err)
			return
		}
		sess.SetRun(run)
		respondJSON(w, http.StatusOK, run.Current())
	}
}

func currentRun(w http.ResponseWriter, r *http.Request) *quiz.Run {
	sess, _ := sessionActor(r)
	run := sess.Run()
	if run == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "nenhum simulado em andamento"})
	}
	return run
}

func GetQuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if run := currentRun(w, r); run != nil {
			respondJSON(w, http.StatusOK, run.Current())
		}
	}
}

// POST /quiz/select {option}
func SelectOptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Option *int `json:"option"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Option == nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "option required"})
			return
		}
		run := currentRun(w, r)
		if run == nil {
			return
		}
		if err := run.Select(*req.Option); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, run.Current())
	}
}

// POST /quiz/next. On the last question it waits for scoring and feedback.
func NextQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run := currentRun(w, r)
		if run == nil {
			return
		}
		v, err := run.Advance(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// POST /quiz/confirm stores the finished attempt and ends the run.
func ConfirmQuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessionActor(r)
		run := currentRun(w, r)
		if run == nil {
			return
		}
		resp, err := run.Confirm(r.Context())
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		sess.SetRun(nil)
		respondJSON(w, http.StatusCreated, resp)
	}
}

// GET /results/{id}/breakdown. Students only see their own results.
func ResultBreakdownHandler(state *portal.State, svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a := sessionActor(r)
		id := chi.URLParam(r, "id")
		res, ok := state.Result(id)
		if !ok {
			respondError(w, r, portal.ErrNotFound)
			return
		}
		if a.IsStudent() && res.StudentID != a.ID() {
			respondJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
			return
		}
		b, err := svc.Breakdown(id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, b)
	}
}
