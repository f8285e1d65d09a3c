package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"migration-console/pkg/responses"
)

// decodeError 把后端错误响应转换为统一错误
//
// 支持的结构化错误体:
//
//	{"errors": {"name": ["too long"]}}
//	{"name": ["too long"], "db_id": "already mapped"}
//	{"message": "..."} / {"error": "..."}
//
// 无法识别时消息为 "Error Code: N"
func decodeError(status int, body []byte) *responses.AppError {
	appErr := &responses.AppError{Status: status}

	switch {
	case status == http.StatusNotFound:
		appErr.Code = responses.CodeNotFound
		appErr.Kind = responses.KindNotFound
	case status >= 500:
		appErr.Code = responses.CodeUpstreamError
		appErr.Kind = responses.KindServer
	default:
		appErr.Code = responses.CodeValidationError
		appErr.Kind = responses.KindValidation
	}

	message, fields := parseErrorBody(body)
	appErr.Fields = fields

	switch {
	case len(fields) > 0:
		appErr.Message = strings.Join(appErr.FieldMessages(), "; ")
	case message != "":
		appErr.Message = fmt.Sprintf("Error Code: %d, Message: %s", status, message)
	default:
		appErr.Message = fmt.Sprintf("Error Code: %d", status)
	}
	return appErr
}

func parseErrorBody(body []byte) (string, map[string][]string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}

	var message string
	for _, key := range []string{"message", "error", "detail"} {
		if v, ok := raw[key]; ok {
			var s string
			if json.Unmarshal(v, &s) == nil && s != "" {
				message = s
				delete(raw, key)
				break
			}
		}
	}

	for _, key := range []string{"status", "code", "success"} {
		delete(raw, key)
	}

	if nested, ok := raw["errors"]; ok {
		var inner map[string]json.RawMessage
		if json.Unmarshal(nested, &inner) == nil {
			raw = inner
		}
	}

	fields := map[string][]string{}
	for k, v := range raw {
		if msgs := toMessages(v); len(msgs) > 0 {
			fields[k] = msgs
		}
	}
	if len(fields) == 0 {
		return message, nil
	}
	return message, fields
}

// toMessages 字段值可能是字符串或字符串数组，其他类型忽略
func toMessages(v json.RawMessage) []string {
	var list []string
	if json.Unmarshal(v, &list) == nil {
		return list
	}
	var single string
	if json.Unmarshal(v, &single) == nil && single != "" {
		return []string{single}
	}
	return nil
}
