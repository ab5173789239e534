package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/profedug/GabaritaIF/internal/auth"
	authmw "github.com/profedug/GabaritaIF/internal/auth/middleware"
	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/rbac"
	"github.com/profedug/GabaritaIF/internal/roster"
	"github.com/profedug/GabaritaIF/internal/storage"
	"github.com/profedug/GabaritaIF/internal/validator"
)

// Deps is everything the API handlers read or write.
type Deps struct {
	State     *portal.State
	Gate      *auth.Gate
	Sessions  *auth.Sessions
	Tokens    *authmw.AuthService
	Roster    *roster.Service
	Questions genai.QuestionGenerator
	Feedback  genai.FeedbackGenerator
	Blobs     storage.BlobStore
	Validate  *validator.Validator
}

// Mount registers every route on r. Global middleware (logging, CORS,
// recovery) is the caller's business.
func Mount(r chi.Router, d Deps) {
	newFlow := NewFlowFactory(d.State, d.Questions, d.Validate)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Post("/auth/professor", LoginProfessorHandler(d.State, d.Gate, d.Sessions, d.Tokens))
	r.Post("/auth/student/email", CheckStudentEmailHandler(d.Gate))
	r.Post("/auth/student", LoginStudentHandler(d.State, d.Gate, d.Sessions, d.Tokens))

	r.Route("/assets", func(ar chi.Router) {
		MountAssets(ar, d.Blobs)
	})

	// Protected API (JWT → live session → stored actor → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Tokens, d.Sessions))
		pr.Use(authmw.AttachActorFromState(d.Gate, d.Sessions))

		pr.Post("/auth/logout", LogoutHandler(d.Sessions))
		pr.Get("/me", MeHandler(d.State))
		pr.With(rbac.Require(rbac.PermProfileUpdate)).Put("/me/profile", UpdateProfileHandler(d.State, d.Gate, d.Roster))
		pr.With(rbac.Require(rbac.PermProfileUpdate)).Put("/me/pin", ChangePINHandler(d.Gate, d.Roster))
		pr.With(rbac.Require(rbac.PermProfileUpdate)).Post("/me/photo", UploadPhotoHandler(d.State, d.Gate, d.Roster, d.Blobs))
		pr.With(rbac.Require(rbac.PermResultViewOwn)).Get("/me/results", MyResultsHandler(d.Roster))

		// Roster
		pr.With(rbac.RequireAny(rbac.PermRosterManage, rbac.PermSimCreate)).Get("/classes", ListClassesHandler(d.State))
		pr.Group(func(rr chi.Router) {
			rr.Use(rbac.Require(rbac.PermRosterManage))
			rr.Post("/classes", CreateClassHandler(d.Roster))
			rr.Delete("/classes/{id}", DeleteClassHandler(d.Roster))
			rr.Get("/students", ListStudentsHandler(d.Roster))
			rr.Post("/students", CreateStudentHandler(d.Roster))
			rr.Post("/students/import", ImportStudentsHandler(d.Roster))
			rr.Put("/students/{id}", UpdateStudentHandler(d.Roster))
			rr.Delete("/students/{id}", DeleteStudentHandler(d.Roster))
		})
		pr.With(rbac.RequireOwnerOr(rbac.PermResultViewAll, ownStudentRecord)).
			Get("/students/{id}/results", StudentResultsHandler(d.Roster))

		// Professors: super admin only
		pr.Group(func(ar chi.Router) {
			ar.Use(rbac.Require(rbac.PermProfessorManage))
			ar.Get("/professors", ListProfessorsHandler(d.State))
			ar.Post("/professors", CreateProfessorHandler(d.Roster))
			ar.Put("/professors/{id}", UpdateProfessorHandler(d.Roster))
			ar.Put("/professors/{id}/access", SetProfessorAccessHandler(d.Roster))
			ar.Delete("/professors/{id}", DeleteProfessorHandler(d.Roster))
		})

		// Authoring
		pr.With(rbac.Require(rbac.PermQuestionView)).Get("/questions", ListQuestionsHandler(d.State))
		pr.Group(func(ar chi.Router) {
			ar.Use(rbac.Require(rbac.PermSimCreate))
			ar.Get("/authoring", GetDraftHandler(newFlow))
			ar.Post("/authoring/generate", GenerateDraftHandler(newFlow))
			ar.Post("/authoring/discard", DiscardDraftHandler(newFlow))
			ar.Post("/authoring/publish", PublishDraftHandler(newFlow))
		})

		// Simulations and results
		pr.With(rbac.Require(rbac.PermSimViewAll)).Get("/simulations", ListSimulationsHandler(d.State))
		pr.With(rbac.Require(rbac.PermSimViewAll)).Get("/simulations/{id}", GetSimulationHandler(d.State))
		pr.With(rbac.Require(rbac.PermResultViewAll)).Get("/simulations/{id}/summary", SimulationSummaryHandler(d.Roster))
		pr.With(rbac.RequireAny(rbac.PermResultViewOwn, rbac.PermResultViewAll)).
			Get("/results/{id}/breakdown", ResultBreakdownHandler(d.State, d.Roster))

		// Student flow
		pr.Group(func(sr chi.Router) {
			sr.Use(rbac.Require(rbac.PermQuizTake))
			sr.Get("/mural", MuralHandler(d.Roster))
			sr.Post("/quiz/{simID}/start", StartQuizHandler(d.State, d.Feedback))
			sr.Get("/quiz", GetQuizHandler())
			sr.Post("/quiz/select", SelectOptionHandler())
			sr.Post("/quiz/next", NextQuestionHandler())
			sr.Post("/quiz/confirm", ConfirmQuizHandler())
		})
	})
}

// ownStudentRecord is true when a student asks about themselves.
func ownStudentRecord(r *http.Request) bool {
	return rbac.RoleFromContext(r.Context()) == string(auth.RoleStudent) &&
		authmw.SubjectFromContext(r.Context()) == chi.URLParam(r, "id")
}
