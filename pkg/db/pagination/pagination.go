package pagination

type Pagination struct {
	Page     int `form:"page,default=1" validate:"gte=1"`
	PageSize int `form:"page_size,default=20" validate:"gte=1,lte=250"`
}

func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	if p.PageSize > 250 {
		return 250
	}
	return p.PageSize
}
