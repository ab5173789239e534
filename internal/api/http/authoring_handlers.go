package http

import (
	"net/http"

	"github.com/profedug/GabaritaIF/internal/auth"
	"github.com/profedug/GabaritaIF/internal/authoring"
	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/validator"
)

// FlowFactory builds the authoring flow of a new session.
type FlowFactory func() *authoring.Flow

func NewFlowFactory(state *portal.State, gen genai.QuestionGenerator, v *validator.Validator) FlowFactory {
	return func() *authoring.Flow { return authoring.NewFlow(state, gen, v) }
}

func draftOf(r *http.Request, newFlow FlowFactory) (*authoring.Flow, auth.Actor) {
	sess, a := sessionActor(r)
	return sess.Draft(newFlow), a
}

// GET /questions: the question bank.
func ListQuestionsHandler(state *portal.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, state.Questions())
	}
}

// GET /authoring
func GetDraftHandler(newFlow FlowFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, _ := draftOf(r, newFlow)
		respondJSON(w, http.StatusOK, f.View())
	}
}

// POST /authoring/generate {topic, classId, ...}. Blocks until the generator
// answers.
func GenerateDraftHandler(newFlow FlowFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authoring.Params
		if !decodeJSON(w, r, &req) {
			return
		}
		f, _ := draftOf(r, newFlow)
		v, err := f.Generate(r.Context(), req)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// POST /authoring/discard
func DiscardDraftHandler(newFlow FlowFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, _ := draftOf(r, newFlow)
		if err := f.Discard(); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, f.View())
	}
}

// POST /authoring/publish
func PublishDraftHandler(newFlow FlowFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, a := draftOf(r, newFlow)
		if a.Professor == nil {
			respondJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
			return
		}
		sim, err := f.Publish(r.Context(), *a.Professor)
		if err = stored(r, err); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, sim)
	}
}
