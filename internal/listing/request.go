package listing

import (
	"context"
	"strconv"

	"github.com/five82/ffscope/internal/firefly"
)

// Request is one list fetch. Generation identifies the controller state the
// request was built from; only the latest generation may commit.
type Request struct {
	Generation uint64
	Namespace  string
	Page       int
	Limit      int
	Skip       int
	DateFilter string
	Filter     string
}

// Query renders the raw query string:
//
//	limit=<pageSize>&count&skip=<page*pageSize><dateFilter><filter>
//
// Both fragments are appended verbatim.
func (r Request) Query() string {
	q := "limit=" + strconv.Itoa(r.Limit) + "&count&skip=" + strconv.Itoa(r.Skip)
	return q + r.DateFilter + r.Filter
}

// Loader fetches one page for a request.
type Loader[T any] func(ctx context.Context, req Request) (firefly.Page[T], error)

// LookupRequest is one detail fetch by record identifier.
type LookupRequest struct {
	Generation uint64
	Namespace  string
	ID         string
}

// LookupLoader fetches the records matching a lookup request.
type LookupLoader[T any] func(ctx context.Context, req LookupRequest) ([]T, error)
