package errors

import "errors"

// Kind 业务错误分类，由 response 层统一映射为 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

// String 返回错误分类名
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Validation"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	default:
		return "Internal"
	}
}

// Error 带分类的业务错误。Message 原样返回给客户端。
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 创建指定分类的业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation 参数校验失败
func Validation(message string) *Error { return New(KindValidation, message) }

// NotFound 记录不存在
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict 唯一性或业务规则冲突
func Conflict(message string) *Error { return New(KindConflict, message) }

// Unauthorized 未认证
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// Forbidden 无权限
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// KindOf 提取错误分类；非业务错误一律视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf 提取可返回给客户端的消息；非业务错误返回空串
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
