package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/dto"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
	"funkosrest/internal/service"
)

// MaxImageSize bounds multipart image uploads.
const MaxImageSize = 10 << 20

func ListFunkos(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req, err := pagination.ParseRequest(q, repository.FunkoSortable)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		filter := repository.FunkoFilter{Category: queryString(q, "category")}
		if filter.MaxPrice, err = queryFloat(q, "maxPrice"); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		if filter.MaxQuantity, err = queryInt(q, "maxQuantity"); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}

		page, err := svc.FindAll(r.Context(), filter, req)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondPage(w, r, page, req)
	}
}

func GetFunko(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, f)
	}
}

func CreateFunko(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.FunkoCreate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		f, err := svc.Create(r.Context(), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, f)
	}
}

func UpdateFunko(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.FunkoUpdate
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		f, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, f)
	}
}

func PatchFunko(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.FunkoPatch
		if err := decodeJSON(r, &in); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		f, err := svc.Patch(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, f)
	}
}

// UpdateFunkoImage takes the image from the multipart field "file".
func UpdateFunkoImage(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				apperr.WriteHTTP(w, r, lg, apperr.BadRequest("La imagen supera el tamaño máximo permitido"))
				return
			}
			apperr.WriteHTTP(w, r, lg, apperr.BadRequest("No se ha enviado una imagen para el Funko"))
			return
		}
		defer file.Close()

		f, err := svc.UpdateImage(r.Context(), chi.URLParam(r, "id"), service.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		respondJSON(w, f)
	}
}

func DeleteFunko(svc *service.FunkoService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
