package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{PageNotValid("x"), http.StatusNotFound},
		{CategoryNotFound("x"), http.StatusNotFound},
		{FunkoNotFound("x"), http.StatusNotFound},
		{UserNotFound("x"), http.StatusNotFound},
		{InvalidUUID("x"), http.StatusBadRequest},
		{Validation(map[string]string{"name": "x"}), http.StatusBadRequest},
		{BadRequest("x"), http.StatusBadRequest},
		{CategoryAlreadyExists("x"), http.StatusBadRequest},
		{UserAlreadyExists("x"), http.StatusConflict},
		{Unauthorized("x"), http.StatusUnauthorized},
		{InvalidToken("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			if got := tt.err.Status(); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrefixes(t *testing.T) {
	if got := PageNotValid("fuera de rango").Error(); got != "Página no válida - fuera de rango" {
		t.Errorf("PageNotValid = %q", got)
	}
	if got := FunkoNotFound("abc").Error(); got != "Funko no encontrado: abc" {
		t.Errorf("FunkoNotFound = %q", got)
	}
	if got := InvalidUUID("abc").Error(); got != "UUID no válido - abc" {
		t.Errorf("InvalidUUID = %q", got)
	}
}

func TestAsWrapped(t *testing.T) {
	err := fmt.Errorf("listing: %w", PageNotValid("x"))
	if !Is(err, KindPageNotValid) {
		t.Fatal("expected wrapped PageNotValid to be detected")
	}
	if StatusOf(err) != http.StatusNotFound {
		t.Errorf("StatusOf = %d", StatusOf(err))
	}
	if StatusOf(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("plain errors should map to 500")
	}
}

func TestWriteHTTP_PageNotValid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/funkos?page=5", nil)

	WriteHTTP(rec, req, nil, PageNotValid("La página 5 no existe"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(body.Error, "Página no válida - ") {
		t.Errorf("error = %q", body.Error)
	}
	if body.Message != "NOT_FOUND" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Path != "/api/funkos" {
		t.Errorf("path = %q", body.Path)
	}
}

func TestWriteHTTP_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/funkos", nil)

	WriteHTTP(rec, req, nil, Validation(map[string]string{"name": "El nombre no puede estar vacío"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ValidationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != 400 || body.Errors["name"] != "El nombre no puede estar vacío" {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteHTTP_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteHTTP(rec, req, nil, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("internal cause leaked: %s", rec.Body.String())
	}
}
