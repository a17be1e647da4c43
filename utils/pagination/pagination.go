package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Page  int
	Limit int
}

func New(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return Pagination{Page: page, Limit: limit}
}

func FromQuery(c *gin.Context) Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return New(page, limit)
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) Response(data any, total int64) gin.H {
	return gin.H{
		"data":       data,
		"page":       p.Page,
		"limit":      p.Limit,
		"total":      total,
		"totalPages": int((total + int64(p.Limit) - 1) / int64(p.Limit)),
	}
}
