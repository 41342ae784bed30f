package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/auth"
	"funkosrest/internal/dto"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
	"funkosrest/internal/service"
)

func ListUsers(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req, err := pagination.ParseRequest(q, repository.UserSortable)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		deleted, err := queryBool(q, "isDeleted")
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		filter := repository.UserFilter{
			Username:  queryString(q, "username"),
			Email:     queryString(q, "email"),
			IsDeleted: deleted,
		}

		page, err := svc.FindAll(r.Context(), filter, req)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondPage(w, r, page, req)
	}
}

func GetUser(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

func CreateUser(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.UserCreate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		u, err := svc.Create(r.Context(), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, u)
	}
}

func UpdateUser(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.UserUpdate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		u, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

// DeleteUser removes the user; ?soft=true only marks it deleted.
func DeleteUser(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		soft, err := queryBool(r.URL.Query(), "soft")
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id"), soft != nil && *soft); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Me(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.FromContext(r.Context())
		u, err := svc.FindByID(r.Context(), p.UserID.String())
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

func UpdateMe(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.FromContext(r.Context())
		var in dto.UserUpdate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		u, err := svc.UpdateProfile(r.Context(), p.UserID, in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

// DeleteMe marks the caller's own account deleted.
func DeleteMe(svc *service.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.FromContext(r.Context())
		if err := svc.Delete(r.Context(), p.UserID.String(), true); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
