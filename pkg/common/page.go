package common

import "github.com/pharmlab/procure/pkg/common/constant"

type PageReq struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

func (p *PageReq) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = constant.DefaultPageSize
	}
	if p.PageSize > constant.MaxPageSize {
		p.PageSize = constant.MaxPageSize
	}
}

func (p *PageReq) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PageResp[T any] struct {
	Data     T     `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
