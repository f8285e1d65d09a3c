package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"migration-console/internal/pkg/config"
	"migration-console/pkg/responses"
)

const (
	HeaderRequestID = "X-Request-Id"

	// 读请求总尝试次数：首次 + 重试一次
	readAttempts = 2
)

// Client 迁移后端 REST 客户端
// 只有 Get 会在瞬时失败时重试一次，写请求从不自动重试
type Client struct {
	rc         *resty.Client
	retryDelay time.Duration
	logger     *zap.Logger
}

// New 创建客户端，baseURL 为后端地址（不含 /api）
func New(cfg *config.BackendConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL不能为空")
	}
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, fmt.Errorf("解析超时失败: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/api").
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar()).
		SetDebug(cfg.Debug)

	return &Client{
		rc:         rc,
		retryDelay: cfg.GetRetryDelay(),
		logger:     logger,
	}, nil
}

// Get 幂等读，瞬时失败（无响应、5xx、429）时重试一次
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			req := c.newRequest(ctx)
			if len(query) > 0 {
				req.SetQueryParamsFromValues(query)
			}
			resp, err := req.Get(path)
			return c.handle(http.MethodGet, path, resp, err, result)
		},
		retry.Attempts(readAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && isTransient(err)
		}),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			// 最后一次失败后不再重试
			if n+1 >= readAttempts {
				return
			}
			c.logger.Warn("读请求失败，重试",
				zap.String("path", path),
				zap.Uint("n", n),
				zap.Error(err))
		}),
	)
	if err != nil && attempt > 1 {
		c.logger.Debug("重试后仍失败", zap.String("path", path), zap.Int("attempts", attempt))
	}
	return contextError(err)
}

// contextError 重试等待期间 context 结束时 retry 返回裸错误，统一包装为传输错误
func contextError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *responses.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &responses.AppError{
		Code:    responses.CodeTransportError,
		Message: err.Error(),
		Kind:    responses.KindTransport,
		Err:     err,
	}
}

// Post 创建
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	resp, err := c.newRequest(ctx).SetBody(body).Post(path)
	return c.handle(http.MethodPost, path, resp, err, result)
}

// Put 更新
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	resp, err := c.newRequest(ctx).SetBody(body).Put(path)
	return c.handle(http.MethodPut, path, resp, err, result)
}

// Delete 删除
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	resp, err := c.newRequest(ctx).Delete(path)
	return c.handle(http.MethodDelete, path, resp, err, result)
}

// Upload multipart 上传文件，form 为附加表单字段
func (c *Client) Upload(ctx context.Context, path, field, fileName string, file io.Reader, form map[string]string, result interface{}) error {
	req := c.newRequest(ctx).SetFileReader(field, fileName, file)
	if len(form) > 0 {
		req.SetFormData(form)
	}
	resp, err := req.Post(path)
	return c.handle(http.MethodPost, path, resp, err, result)
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.rc.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, requestID(ctx))
}

// handle 统一处理响应：成功时按原样解码，失败时转换为 *responses.AppError
func (c *Client) handle(method, path string, resp *resty.Response, err error, result interface{}) error {
	if err != nil {
		c.logger.Warn("后端请求无响应",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &responses.AppError{
			Code:    responses.CodeTransportError,
			Message: err.Error(),
			Kind:    responses.KindTransport,
			Err:     err,
		}
	}

	if resp.IsError() {
		appErr := decodeError(resp.StatusCode(), resp.Body())
		c.logger.Info("后端返回错误",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("message", appErr.Message))
		return appErr
	}

	if result == nil {
		return nil
	}
	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return &responses.AppError{
			Code:    responses.CodeUpstreamError,
			Message: fmt.Sprintf("解析后端响应失败: %v", err),
			Kind:    responses.KindDecode,
			Status:  resp.StatusCode(),
			Err:     err,
		}
	}
	return nil
}

// isTransient 无响应、5xx、429 视为瞬时失败；解析失败说明请求已成功，不重试
func isTransient(err error) bool {
	var appErr *responses.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Kind {
	case responses.KindTransport, responses.KindServer:
		return true
	}
	return appErr.Status == http.StatusTooManyRequests
}

type requestIDKey struct{}

// WithRequestID 把入站请求 id 透传给后端
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID 从 context 取请求 id
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func requestID(ctx context.Context) string {
	if id := RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
