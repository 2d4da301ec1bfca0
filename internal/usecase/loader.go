package usecase

import (
	"context"

	"github.com/fadilmartias/esg-dashboard/internal/service"
)

// Resource is the outcome of one page-level fetch.
type Resource[T any] struct {
	Data     T
	Err      error
	Error    string
	Canceled bool
}

// Load runs fetch and settles the result: errors become a display string
// and nothing is committed once ctx is done.
func Load[T any](ctx context.Context, fetch func(context.Context) (T, error)) Resource[T] {
	var res Resource[T]
	data, err := fetch(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.Canceled = true
		res.Err = ctxErr
		return res
	}
	if err != nil {
		res.Err = err
		res.Error = service.ErrorMessage(err)
		return res
	}
	res.Data = data
	return res
}
