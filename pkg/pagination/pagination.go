package pagination

import (
	"net/http"
	"strconv"
)

// DefaultPerPage is the page size used when the request does not specify one.
// It matches the page size the product views were designed around.
const DefaultPerPage = 10

// MaxPerPage bounds the page size a client may request.
const MaxPerPage = 100

// Params holds pagination parameters extracted from query strings.
// Offset is derived and suitable for offset/limit upstream APIs.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: DefaultPerPage,
		Offset:  0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request,
// ignoring malformed or out-of-range values.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result wraps one page of a listing. HasNext is a best-effort signal for
// upstreams that do not report a total count: a full page suggests more data.
type Result[T any] struct {
	Data    []T  `json:"data"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewResult creates a paginated result from one fetched page.
func NewResult[T any](data []T, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:    data,
		Page:    params.Page,
		PerPage: params.PerPage,
		HasNext: len(data) == params.PerPage,
		HasPrev: params.Page > 1,
	}
}
