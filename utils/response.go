package utils

import (
	"github.com/kataras/iris/v12"
)

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// PageCount computes how many pages a result set spans.
func PageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

// JSONPage writes the paginated list envelope the client expects.
func JSONPage(ctx iris.Context, data interface{}, count int, page, limit int, total int64) {
	ctx.JSON(iris.Map{
		"success": true,
		"count":   count,
		"pagination": Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: PageCount(total, limit),
		},
		"data": data,
	})
}
