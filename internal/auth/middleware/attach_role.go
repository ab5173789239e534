package authmw

import (
	"net/http"

	"github.com/profedug/GabaritaIF/internal/auth"
	"github.com/profedug/GabaritaIF/internal/rbac"
)

// AttachActorFromState reloads the session actor from the stored record so
// profile edits show up and revoked or removed accounts lose their session
// on the next request. The stored role wins over the token claim.
func AttachActorFromState(gate *auth.Gate, sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				http.Error(w, "missing session", http.StatusUnauthorized)
				return
			}
			actor, ok := gate.Refresh(sess.Actor())
			if !ok {
				sessions.End(sess.ID)
				http.Error(w, auth.ErrAccessRevoked.Message, http.StatusForbidden)
				return
			}
			sess.SetActor(actor)
			ctx := rbac.WithRole(r.Context(), string(actor.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
