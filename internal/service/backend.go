package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// Backend 服务层使用的后端调用，*httpclient.Client 实现该接口
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, result interface{}) error
	Post(ctx context.Context, path string, body, result interface{}) error
	Put(ctx context.Context, path string, body, result interface{}) error
	Delete(ctx context.Context, path string, result interface{}) error
	Upload(ctx context.Context, path, field, fileName string, file io.Reader, form map[string]string, result interface{}) error
}

func idPath(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}

func projectQuery(projectID int64) url.Values {
	return url.Values{"project_id": {strconv.FormatInt(projectID, 10)}}
}

func idQuery(key string, id int64) url.Values {
	return url.Values{key: {strconv.FormatInt(id, 10)}}
}
