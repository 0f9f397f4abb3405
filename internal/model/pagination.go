package model

import (
	"github.com/guregu/null/v6"
)

// PaginationParams represents the pagination parameters
type PaginationParams struct {
	Page  null.Int32 `query:"page" validate:"omitnil,gt=0"`
	Limit int32      `query:"limit" validate:"omitempty,gt=0,lte=500"`
}

func (p *PaginationParams) Offset() int32 {
	offset := (p.GetPage() - 1) * p.GetLimit()
	if offset < 0 {
		return 0
	}
	return offset
}

func (p *PaginationParams) GetPage() int32 {
	if !p.Page.Valid || p.Page.Int32 <= 0 {
		p.Page.SetValid(1)
	}
	return p.Page.Int32
}

func (p *PaginationParams) GetLimit() int32 {
	if p.Limit <= 0 {
		p.Limit = 50 // default limit
	}
	return p.Limit
}
