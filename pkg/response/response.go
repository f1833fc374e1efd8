package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/errors"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/pagination"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页列表响应：{data, links, meta}
type PageResponse struct {
	Data  interface{}      `json:"data"`
	Links pagination.Links `json:"links"`
	Meta  pagination.Meta  `json:"meta"`
}

const internalErrorMessage = "Internal server error"

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Success",
		Data:    data,
	})
}

// OKWithMessage 200 成功响应（自定义提示）
func OKWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, env pagination.Envelope) {
	c.JSON(http.StatusOK, PageResponse{
		Data:  list,
		Links: env.Links,
		Meta:  env.Meta,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Success: false,
		Message: message,
	})
}

// Fail 将业务错误按分类映射为 HTTP 状态码，所有 Handler 统一经由此处返回错误。
// 冲突类错误沿用 400 以兼容现有客户端。
func Fail(c *gin.Context, err error) {
	switch pkgerrors.KindOf(err) {
	case pkgerrors.KindValidation, pkgerrors.KindConflict:
		Error(c, http.StatusBadRequest, pkgerrors.MessageOf(err))
	case pkgerrors.KindNotFound:
		Error(c, http.StatusNotFound, pkgerrors.MessageOf(err))
	case pkgerrors.KindUnauthorized:
		Error(c, http.StatusUnauthorized, pkgerrors.MessageOf(err))
	case pkgerrors.KindForbidden:
		Error(c, http.StatusForbidden, pkgerrors.MessageOf(err))
	default:
		// 原始错误只写入日志，不返回给客户端
		_ = c.Error(err)
		InternalError(c)
	}
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, internalErrorMessage)
}
