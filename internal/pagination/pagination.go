// Package pagination parses page requests, validates requested pages against
// result sizes and renders paged responses with their Link header.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"funkosrest/internal/apperr"
)

const (
	DefaultPage      = 0
	DefaultSize      = 10
	MaxSize          = 2000
	DefaultSortBy    = "id"
	DefaultDirection = "asc"

	invalidRequestMsg = "La página no puede ser menor que 0 y su tamaño no debe de ser menor a 1."
)

// Request is a parsed page request. Column is the storage column SortBy maps to.
type Request struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
	Column    string
}

func (r Request) Offset() int { return r.Page * r.Size }

func (r Request) Desc() bool { return r.Direction == "desc" }

// ParseRequest reads page, size, sortBy and direction from q. sortable maps
// the accepted sortBy values to their storage columns. Sizes above MaxSize
// are lowered to it.
func ParseRequest(q url.Values, sortable map[string]string) (Request, error) {
	req := Request{
		Page:      DefaultPage,
		Size:      DefaultSize,
		SortBy:    DefaultSortBy,
		Direction: DefaultDirection,
	}

	var err error
	if v := q.Get("page"); v != "" {
		if req.Page, err = strconv.Atoi(v); err != nil {
			return Request{}, apperr.BadRequest(apperr.MalformedBody)
		}
	}
	if v := q.Get("size"); v != "" {
		if req.Size, err = strconv.Atoi(v); err != nil {
			return Request{}, apperr.BadRequest(apperr.MalformedBody)
		}
	}
	if req.Page < 0 || req.Size < 1 {
		return Request{}, apperr.PageNotValid(invalidRequestMsg)
	}
	req.Size = min(req.Size, MaxSize)

	if v := q.Get("sortBy"); v != "" {
		req.SortBy = v
	}
	col, ok := sortable[req.SortBy]
	if !ok {
		return Request{}, apperr.BadRequest("Error al procesar la propiedad en la consulta: " + req.SortBy)
	}
	req.Column = col

	if v := q.Get("direction"); v != "" {
		req.Direction = strings.ToLower(v)
	}
	if req.Direction != "asc" && req.Direction != "desc" {
		return Request{}, apperr.BadRequest("Dirección de ordenación no válida: " + req.Direction)
	}
	return req, nil
}

// TotalPages returns how many pages of size hold total elements.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	n := total / int64(size)
	if total%int64(size) != 0 {
		n++
	}
	return int(n)
}

// Validate succeeds iff 0 <= page < totalPages, or for the empty result
// (totalPages == 0 && page == 0).
func Validate(page, totalPages int) error {
	if totalPages == 0 && page == 0 {
		return nil
	}
	if page >= 0 && page < totalPages {
		return nil
	}
	return apperr.PageNotValid(fmt.Sprintf("La página %d no existe, el número total de páginas es %d", page, totalPages))
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

func (p Page[T]) TotalPages() int { return TotalPages(p.TotalElements, p.Size) }

func (p Page[T]) HasNext() bool { return p.Number+1 < p.TotalPages() }

func (p Page[T]) HasPrevious() bool { return p.Number > 0 }

func (p Page[T]) IsFirst() bool { return !p.HasPrevious() }

func (p Page[T]) IsLast() bool { return !p.HasNext() }

// Validate checks the page number against the page count.
func (p Page[T]) Validate() error { return Validate(p.Number, p.TotalPages()) }

// Map converts the content of p with f, keeping its position.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = f(v)
	}
	return Page[U]{Content: out, Number: p.Number, Size: p.Size, TotalElements: p.TotalElements}
}

// Response is the wire shape of a page.
type Response[T any] struct {
	Content           []T    `json:"content"`
	TotalPages        int    `json:"totalPages"`
	TotalElements     int64  `json:"totalElements"`
	PageSize          int    `json:"pageSize"`
	PageNumber        int    `json:"pageNumber"`
	TotalPageElements int    `json:"totalPageElements"`
	Empty             bool   `json:"empty"`
	First             bool   `json:"first"`
	Last              bool   `json:"last"`
	SortBy            string `json:"sortBy"`
	Direction         string `json:"direction"`
}

func NewResponse[T any](p Page[T], req Request) Response[T] {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return Response[T]{
		Content:           content,
		TotalPages:        p.TotalPages(),
		TotalElements:     p.TotalElements,
		PageSize:          p.Size,
		PageNumber:        p.Number,
		TotalPageElements: len(content),
		Empty:             len(content) == 0,
		First:             p.IsFirst(),
		Last:              p.IsLast(),
		SortBy:            req.SortBy,
		Direction:         req.Direction,
	}
}
