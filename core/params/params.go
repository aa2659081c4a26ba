package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QueryParams carries common list-endpoint query parameters.
type QueryParams struct {
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// FromEchoContext parses paging parameters from the request, clamping to
// sane bounds.
func FromEchoContext(ctx echo.Context) QueryParams {
	qp := QueryParams{
		Page:     1,
		PageSize: DefaultPageSize,
		SortBy:   ctx.QueryParam("sort_by"),
		SortDesc: ctx.QueryParam("order") == "desc",
	}

	if p, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && p > 0 {
		qp.Page = p
	}
	if ps, err := strconv.Atoi(ctx.QueryParam("page_size")); err == nil && ps > 0 {
		qp.PageSize = ps
		if qp.PageSize > MaxPageSize {
			qp.PageSize = MaxPageSize
		}
	}

	return qp
}

// Offset returns the row offset for the current page.
func (q QueryParams) Offset() int {
	return (q.Page - 1) * q.PageSize
}
