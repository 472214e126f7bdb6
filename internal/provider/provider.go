package provider

import (
	"fmt"
	"strings"

	"github.com/John-Robertt/moviemeter/internal/domain"
)

// Provider 把“站点变化”限制在 provider 包内部；核心流程只依赖统一接口。
//
// 约束：
// - 抓取（HTTP）由上层统一完成，provider 只负责“定位页面 + 解析 HTML”
// - Parse* 必须是纯函数：相同输入 => 相同输出
// - ParseChart 返回的必须是绝对 URL
type Provider interface {
	Name() string
	ChartURL() string
	ParseChart(html []byte, pageURL string) ([]string, error)
	ParseDetail(html []byte, pageURL string) (domain.Candidate, error)
}

// Error 是 provider 阶段的可追溯错误。
type Error struct {
	Provider string // provider name（小写）
	Stage    string // "fetch" 或 "parse"
	URL      string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s stage=%s url=%s: %v", e.Provider, e.Stage, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StructureError 表示页面缺少预期的容器/列表，通常意味着站点结构漂移。
type StructureError struct {
	Provider string
	Missing  string // 缺失的选择器
}

func (e *StructureError) Error() string {
	if e == nil {
		return "structure error"
	}
	return fmt.Sprintf("%s 页面结构不符合预期：未找到 %s", e.Provider, strings.TrimSpace(e.Missing))
}
