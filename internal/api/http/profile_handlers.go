package http

import (
	"net/http"

	"github.com/profedug/GabaritaIF/internal/auth"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/roster"
	"github.com/profedug/GabaritaIF/internal/storage"
)

func refreshed(gate *auth.Gate, sess *auth.Session) auth.Actor {
	a, ok := gate.Refresh(sess.Actor())
	if ok {
		sess.SetActor(a)
	}
	return sess.Actor()
}

// PUT /me/profile {name?, nickname?, photoUrl?}
func UpdateProfileHandler(state *portal.State, gate *auth.Gate, svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, a := sessionActor(r)
		var req roster.ProfileUpdate
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := stored(r, svc.UpdateProfile(r.Context(), a, req)); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, actorView(state, refreshed(gate, sess)))
	}
}

// PUT /me/pin {pin}
func ChangePINHandler(gate *auth.Gate, svc *roster.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, a := sessionActor(r)
		var req struct {
			PIN string `json:"pin"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := stored(r, svc.ChangePIN(r.Context(), a, req.PIN)); err != nil {
			respondError(w, r, err)
			return
		}
		refreshed(gate, sess)
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /me/photo (multipart, field "file")
func UploadPhotoHandler(state *portal.State, gate *auth.Gate, svc *roster.Service, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, a := sessionActor(r)
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPhotoBytes+1<<16)
		f, _, err := r.FormFile("file")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "file required"})
			return
		}
		defer f.Close()
		url, err := storage.SavePhoto(bs, a.ID(), portal.NewID(), f)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if err := stored(r, svc.UpdateProfile(r.Context(), a, roster.ProfileUpdate{PhotoURL: &url})); err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, actorView(state, refreshed(gate, sess)))
	}
}
