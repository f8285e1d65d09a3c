package responses

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 错误码
const (
	CodeSuccess         = 2000000
	CodeBadRequest      = 4000000
	CodeNotFound        = 4040000
	CodeConflict        = 4009000
	CodeInternalError   = 5000000
	CodeDatabaseError   = 5001000
	CodeValidationError = 5003000
	CodeTransportError  = 5004000 // 后端无响应
	CodeUpstreamError   = 5005000 // 后端 5xx
)

// ErrorKind 错误分类
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"  // 未收到响应
	KindValidation ErrorKind = "validation" // 4xx，可能带字段错误
	KindServer     ErrorKind = "server"     // 5xx
	KindNotFound   ErrorKind = "not_found"  // 404
	KindLocal      ErrorKind = "local"      // 网关本地产生
	KindDecode     ErrorKind = "decode"     // 2xx 但响应体无法解析，不重试
)

// AppError 应用错误
type AppError struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Kind    ErrorKind           `json:"kind,omitempty"`
	Status  int                 `json:"status,omitempty"` // 后端 HTTP 状态码，传输错误时为 0
	Fields  map[string][]string `json:"errors,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FieldMessages 扁平化字段错误，按字段名排序，格式 "field: msg"
func (e *AppError) FieldMessages() []string {
	if len(e.Fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return out
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    KindLocal,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    KindLocal,
		Err:     err,
	}
}

// NewFieldError 网关本地表单校验失败
func NewFieldError(fields map[string][]string) *AppError {
	e := &AppError{
		Code:   CodeValidationError,
		Kind:   KindValidation,
		Fields: fields,
	}
	e.Message = strings.Join(e.FieldMessages(), "; ")
	return e
}

// KindOf 返回错误分类，非 AppError 返回空
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsNotFound 判断是否 404
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// 预定义错误
var (
	ErrBadRequest      = New(CodeBadRequest, "请求参数错误")
	ErrNotFound        = New(CodeNotFound, "资源不存在")
	ErrInternalError   = New(CodeInternalError, "内部服务器错误")
	ErrDatabaseError   = New(CodeDatabaseError, "数据库错误")
	ErrValidationError = New(CodeValidationError, "数据验证失败")

	ErrNoProjectSelected = New(CodeBadRequest, "未选择当前项目")
	ErrInvalidTransition = New(CodeConflict, "当前状态不允许该操作")
)
