package apperr

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const MalformedBody = "El formato de la consulta enviada es incorrecta."

// Response is the body written for every non-validation error.
type Response struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// ValidationResponse is the body written for KindValidation errors.
type ValidationResponse struct {
	Code   int               `json:"code"`
	Errors map[string]string `json:"errors"`
}

// WriteHTTP writes err as a JSON error response. Errors outside the taxonomy
// are logged and reported as 500 without leaking their text.
func WriteHTTP(w http.ResponseWriter, r *http.Request, lg *zap.SugaredLogger, err error) {
	ae, ok := As(err)
	if !ok {
		ae = Internal(err)
	}

	status := ae.Status()
	if ae.Kind == KindInternal && lg != nil {
		lg.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", ae.Err)
	}

	var body any
	if ae.Kind == KindValidation {
		body = ValidationResponse{Code: status, Errors: ae.Fields}
	} else {
		msg := ae.Message
		if ae.Kind == KindInternal {
			msg = http.StatusText(status)
		}
		body = Response{
			Timestamp: time.Now().Format(time.RFC3339),
			Status:    status,
			Error:     msg,
			Message:   statusName(status),
			Path:      r.URL.Path,
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}

// statusName renders 404 as NOT_FOUND.
func statusName(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
