package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/dto"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
	"funkosrest/internal/service"
)

func ListCategories(svc *service.CategoryService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req, err := pagination.ParseRequest(q, repository.CategorySortable)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		active, err := queryBool(q, "isActive")
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		filter := repository.CategoryFilter{Type: queryString(q, "type"), IsActive: active}

		page, err := svc.FindAll(r.Context(), filter, req)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondPage(w, r, page, req)
	}
}

func GetCategory(svc *service.CategoryService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, c)
	}
}

func CreateCategory(svc *service.CategoryService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.CategoryCreate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		c, err := svc.Create(r.Context(), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, c)
	}
}

func UpdateCategory(svc *service.CategoryService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.CategoryUpdate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		c, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, c)
	}
}

func PatchCategory(svc *service.CategoryService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.CategoryPatch
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		c, err := svc.Patch(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, c)
	}
}

func DeleteCategory(svc *service.CategoryService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
