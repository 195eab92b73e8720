package httpapi

import (
	"net/http"

	"github.com/Gungunbajpai07/TutorTrack/internal/audit"
	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := a.auth.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ctx := auth.ContextWithTutor(r.Context(), auth.Tutor{ID: sess.User.ID, Username: sess.User.Username})
	_ = audit.LogEvent(ctx, audit.EventTutorRegister, map[string]any{
		"username": sess.User.Username,
	})
	writeJSON(w, http.StatusCreated, sess)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ctx := auth.ContextWithTutor(r.Context(), auth.Tutor{ID: sess.User.ID, Username: sess.User.Username})
	_ = audit.LogEvent(ctx, audit.EventTutorLogin, map[string]any{
		"username": sess.User.Username,
	})
	writeJSON(w, http.StatusOK, sess)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	me, err := a.auth.Me(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}
