package http

import (
	"net/http"

	"github.com/profedug/GabaritaIF/internal/auth"
	authmw "github.com/profedug/GabaritaIF/internal/auth/middleware"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/rbac"
)

// ActorView is the logged-in identity as the client sees it. PINs never
// leave the server through it.
type ActorView struct {
	ID          string    `json:"id"`
	Role        auth.Role `json:"role"`
	Name        string    `json:"name"`
	Nickname    string    `json:"nickname,omitempty"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	ClassID     string    `json:"classId,omitempty"`
	ClassName   string    `json:"className,omitempty"`
	Permissions []string  `json:"permissions"`
}

func actorView(state *portal.State, a auth.Actor) ActorView {
	v := ActorView{ID: a.ID(), Role: a.Role, DisplayName: a.DisplayName(), Permissions: rbac.PermissionsFor(string(a.Role))}
	switch {
	case a.Student != nil:
		v.Name, v.Email, v.PhotoURL = a.Student.Name, a.Student.Email, a.Student.PhotoURL
		v.ClassID, v.ClassName = a.Student.ClassID, state.ClassName(a.Student.ClassID)
	case a.Professor != nil:
		v.Name, v.Nickname, v.Email = a.Professor.Name, a.Professor.Nickname, a.Professor.Email
		v.PhotoURL, v.IsAdmin = a.Professor.PhotoURL, a.Professor.IsAdmin
	}
	return v
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	Role        auth.Role `json:"role"`
	Actor       ActorView `json:"actor"`
}

type viewResponse struct {
	View auth.View `json:"view"`
}

func startSession(w http.ResponseWriter, r *http.Request, state *portal.State, sessions *auth.Sessions, tokens *authmw.AuthService, a auth.Actor) {
	sess := sessions.Start(a)
	tok, err := tokens.IssueJWT(sess)
	if err != nil {
		sessions.End(sess.ID)
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{AccessToken: tok, Role: a.Role, Actor: actorView(state, a)})
}

func loginFailed(w http.ResponseWriter, l *auth.Login) {
	respondJSON(w, http.StatusUnauthorized, errorBody{Error: l.Error, View: l.View})
}

// POST /auth/professor {pin}
func LoginProfessorHandler(state *portal.State, gate *auth.Gate, sessions *auth.Sessions, tokens *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PIN string `json:"pin"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		l := auth.NewLogin()
		l.ChooseProfessor()
		l.PIN = req.PIN
		a, ok := l.SubmitProfessor(gate)
		if !ok {
			loginFailed(w, l)
			return
		}
		startSession(w, r, state, sessions, tokens, a)
	}
}

// POST /auth/student/email {email}: first step of the student login.
func CheckStudentEmailHandler(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		l := auth.NewLogin()
		l.ChooseStudent()
		l.Email = req.Email
		if !l.SubmitEmail(gate) {
			loginFailed(w, l)
			return
		}
		respondJSON(w, http.StatusOK, viewResponse{View: l.View})
	}
}

// POST /auth/student {email, pin}
func LoginStudentHandler(state *portal.State, gate *auth.Gate, sessions *auth.Sessions, tokens *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
			PIN   string `json:"pin"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		l := auth.NewLogin()
		l.ChooseStudent()
		l.Email = req.Email
		if !l.SubmitEmail(gate) {
			loginFailed(w, l)
			return
		}
		l.PIN = req.PIN
		a, ok := l.SubmitStudent(gate)
		if !ok {
			loginFailed(w, l)
			return
		}
		startSession(w, r, state, sessions, tokens, a)
	}
}

// POST /auth/logout ends the session with any draft or attempt in it.
func LogoutHandler(sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, _ := sessionActor(r); sess != nil {
			sessions.End(sess.ID)
		}
		l := auth.NewLogin()
		l.Logout()
		respondJSON(w, http.StatusOK, viewResponse{View: l.View})
	}
}

// GET /me
func MeHandler(state *portal.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a := sessionActor(r)
		respondJSON(w, http.StatusOK, actorView(state, a))
	}
}
