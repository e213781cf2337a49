package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Codes shared by middleware and handlers. Module specific codes live
// with the handlers.
const (
	CodeOK              = 0
	CodeTooManyRequests = 10004
	CodeBodyTooLarge    = 10005
	CodeInternal        = 50000
)

// Response envelope for every JSON reply: {code, message, data, details}.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Pagination page metadata
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination derives total_pages; a zero page size yields zero pages.
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}

// PageData paged list payload
type PageData struct {
	List       any        `json:"list"`
	Pagination Pagination `json:"pagination"`
}

func write(c *gin.Context, status int, body Response) {
	c.JSON(status, body)
}

// OK 200
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

// Created 201
func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, Response{Code: CodeOK, Message: "success", Data: data})
}

// OKPage 200 with one page of list and its metadata.
func OKPage(c *gin.Context, list any, total int64, page, pageSize int) {
	OK(c, PageData{List: list, Pagination: NewPagination(page, pageSize, total)})
}

// Error writes a failure envelope.
func Error(c *gin.Context, status, code int, message string) {
	write(c, status, Response{Code: code, Message: message})
}

// ErrorWithDetails failure envelope with details, e.g. field violations.
func ErrorWithDetails(c *gin.Context, status, code int, message string, details any) {
	write(c, status, Response{Code: code, Message: message, Details: details})
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, status, code int, message string) {
	Error(c, status, code, message)
	c.Abort()
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// InternalError 500 without any detail of the cause.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}
