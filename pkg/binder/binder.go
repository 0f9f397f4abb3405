package binder

import (
	"github.com/labstack/echo/v4"
)

// CustomBinder binds path params, query params, and the request body, in that
// order. The stock echo binder skips query params on requests with bodies,
// but the multipart endpoints carry `key` in the query string of POST and
// DELETE requests.
type CustomBinder struct {
	b *echo.DefaultBinder
}

func NewCustomBinder() *CustomBinder {
	return &CustomBinder{b: &echo.DefaultBinder{}}
}

func (cb *CustomBinder) Bind(i interface{}, c echo.Context) error {
	if err := cb.b.BindPathParams(c, i); err != nil {
		return err
	}
	if err := cb.b.BindQueryParams(c, i); err != nil {
		return err
	}
	return cb.b.BindBody(c, i)
}
