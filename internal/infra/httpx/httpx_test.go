package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0)
	if c.Timeout != DefaultTimeout {
		t.Fatalf("期望超时 %v，实际 %v", DefaultTimeout, c.Timeout)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	if got := tr.Header.Get("User-Agent"); got != DefaultUserAgent {
		t.Fatalf("期望默认 UA，实际 %q", got)
	}
}

func TestNewClient_CustomTimeout(t *testing.T) {
	c := NewClient("ua/1", 3*time.Second)
	if c.Timeout != 3*time.Second {
		t.Fatalf("期望超时 3s，实际 %v", c.Timeout)
	}
}

func TestGet_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	b, err := Get(context.Background(), NewClient("moviemeter-test/1.0", time.Second), srv.URL)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if string(b) != "ok" {
		t.Fatalf("body 不符合预期：%q", string(b))
	}
	if gotUA != "moviemeter-test/1.0" {
		t.Fatalf("UA 未注入：%q", gotUA)
	}
}

func TestGet_ExplicitHeaderNotOverridden(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient("default/1", time.Second)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "explicit/2")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp.Body.Close()
	if gotUA != "explicit/2" {
		t.Fatalf("显式 header 被覆盖：%q", gotUA)
	}
}

func TestGet_Non2xxIsHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), NewClient("", time.Second), srv.URL)
	var hs *HTTPStatusError
	if !errors.As(err, &hs) {
		t.Fatalf("期望 *HTTPStatusError，实际 %T %v", err, err)
	}
	if hs.StatusCode != http.StatusServiceUnavailable || hs.URL != srv.URL {
		t.Fatalf("HTTPStatusError 字段不正确：%+v", hs)
	}
}

func TestGet_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xE9})
	}))
	defer srv.Close()

	b, err := Get(context.Background(), NewClient("", time.Second), srv.URL)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if string(b) != "café" {
		t.Fatalf("期望转码为 UTF-8，实际 %q", string(b))
	}
}

func TestGet_NilClient(t *testing.T) {
	if _, err := Get(context.Background(), nil, "http://example.test"); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}
