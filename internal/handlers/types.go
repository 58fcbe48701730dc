package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DateLayout 请求与响应中的日期格式
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd string from a request body or query.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseIDParam 解析路径中的数字ID
func ParseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, false
	}
	return id, true
}

// Pagination query helpers shared by list endpoints.

// ParsePage returns the page number from the query string, default 1.
func ParsePage(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

// ParsePageSize returns the page size from the query string, default 20, max 100.
func ParsePageSize(c *gin.Context) int {
	pageSize := 20
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return pageSize
}

// BuildPagination 构建分页响应信息
func BuildPagination(page, pageSize int, total int64) gin.H {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return gin.H{
		"current_page": page,
		"page_size":    pageSize,
		"total_pages":  totalPages,
		"total_count":  total,
		"has_next":     page < int(totalPages),
		"has_prev":     page > 1,
	}
}

// ParseYearMonth 从查询参数解析年月
func ParseYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
