package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator 返回共享的 validator 实例，字段名使用 json tag
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(TagName)
	})
	return validate
}

// TagName 校验错误中的字段名，依次取 json、form、uri tag
func TagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// ValidateStruct 按 validate tag 校验结构体
func ValidateStruct(v interface{}) error {
	return Validator().Struct(v)
}

// FormatValidationError 格式化验证错误信息
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	// 处理validator的验证错误
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("field '%s' %s", e.Field(), fieldMessage(e)))
		}
		return strings.Join(messages, "; ")
	}

	// 处理JSON解析错误
	var jsonErr *json.UnmarshalTypeError
	if errors.As(err, &jsonErr) {
		return fmt.Sprintf("field '%s' should be %s", jsonErr.Field, jsonErr.Type.String())
	}

	// 处理JSON语法错误
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "invalid JSON format"
	}

	return err.Error()
}

// FieldErrors 把验证错误转换为 字段 -> 消息列表
// 字段名为去掉根结构体名的 json 路径，如 "asm_disks[0].diskgroup"
func FieldErrors(err error) map[string][]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string][]string{"_": {FormatValidationError(err)}}
	}

	fields := make(map[string][]string, len(validationErrors))
	for _, e := range validationErrors {
		name := e.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		fields[name] = append(fields[name], fieldMessage(e))
	}
	return fields
}

// fieldMessage 单个字段的验证错误描述
func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "ip":
		return "must be a valid IP address"
	case "startswith":
		return fmt.Sprintf("must start with '%s'", e.Param())
	case "numeric":
		return "must be numeric"
	default:
		return fmt.Sprintf("validation failed on '%s' tag", e.Tag())
	}
}
