package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/storage"
)

func ServeFile(files storage.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")
		body, err := files.Load(r.Context(), name)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, err)
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", storage.ContentType(name))
		if _, err := io.Copy(w, body); err != nil {
			lg.Debugw("file copy aborted", "file", name, "err", err)
		}
	}
}
