package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout 是单次请求的总超时。
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent 是固定的浏览器 UA（不轮换）。
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Transport 给每个请求补上固定的请求头。
//
// 约束：
// - Header 构造后只读，可被多个 goroutine 共享
// - 不做重试、不做缓存、不做限速
// - 调用方已显式设置的同名 header 不会被覆盖
type Transport struct {
	Base   http.RoundTripper
	Header http.Header
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// Clone 避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	for k, vs := range t.Header {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	return base.RoundTrip(r)
}

// NewClient 构造抓取用的 HTTP client。
//
// 规则：
// - userAgent 为空时使用 DefaultUserAgent
// - timeout<=0 时使用 DefaultTimeout
func NewClient(userAgent string, timeout time.Duration) *http.Client {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	h := make(http.Header, 1)
	h.Set("User-Agent", userAgent)

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSHandshakeTimeout = timeout
	base.ResponseHeaderTimeout = timeout

	return &http.Client{
		Transport: &Transport{Base: base, Header: h},
		Timeout:   timeout,
	}
}

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// Get 发起一次 GET 并返回 UTF-8 编码的 body。
//
// - 网络错误原样返回
// - 非 2xx 返回 *HTTPStatusError
// - body 按 Content-Type 的 charset 转码（缺省按 UTF-8/嗅探）
func Get(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("解码响应失败：%w", err)
	}
	return io.ReadAll(r)
}
