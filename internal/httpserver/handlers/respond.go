package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"funkosrest/internal/apperr"
	"funkosrest/internal/pagination"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondPage writes p with its Link header.
func respondPage[T any](w http.ResponseWriter, r *http.Request, p pagination.Page[T], req pagination.Request) {
	if link := pagination.Link(requestURL(r), p); link != "" {
		w.Header().Set("Link", link)
	}
	respondJSON(w, pagination.NewResponse(p, req))
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.BadRequest(apperr.MalformedBody)
	}
	return nil
}

// requestURL is the absolute URL the client used, as far as the proxy
// headers tell.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
}

func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func queryBool(q url.Values, key string) (*bool, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return nil, apperr.BadRequest(apperr.MalformedBody)
	}
	return &v, nil
}

func queryFloat(q url.Values, key string) (*float64, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return nil, apperr.BadRequest(apperr.MalformedBody)
	}
	return &v, nil
}

func queryInt(q url.Values, key string) (*int, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil, apperr.BadRequest(apperr.MalformedBody)
	}
	return &v, nil
}
