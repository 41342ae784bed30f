package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/dto"
	"funkosrest/internal/service"
	"funkosrest/internal/session"
)

func SignUp(svc *service.AuthService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.SignUp
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		tok, err := svc.SignUp(r.Context(), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, tok)
	}
}

// SignIn returns a token and records the login in the caller's session.
func SignIn(svc *service.AuthService, sessions *session.Manager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.SignIn
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		tok, err := svc.SignIn(r.Context(), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		_, err = sessions.Update(r.Context(), w, r, func(s *session.State) {
			s.SetLogged(true)
			s.SetLastLogin(time.Now())
			s.IncrementLoginCount()
		})
		if err != nil {
			lg.Warnw("session not updated", "username", in.Username, "err", err)
		}
		respondJSON(w, tok)
	}
}

func CurrentSession(sessions *session.Manager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Current(r.Context(), r)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, apperr.Internal(err))
			return
		}
		out := dto.SessionResponse{Logged: s.Logged(), LoginCount: s.LoginCount()}
		if at, ok := s.LastLogin(); ok {
			out.LastLogin = &at
		}
		respondJSON(w, out)
	}
}

func SignOut(sessions *session.Manager, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Destroy(r.Context(), w, r); err != nil {
			apperr.WriteHTTP(w, r, lg, apperr.Internal(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
