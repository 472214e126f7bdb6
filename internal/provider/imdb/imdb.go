package imdb

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/moviemeter/internal/domain"
	providerx "github.com/John-Robertt/moviemeter/internal/provider"
)

const (
	DefaultBaseURL  = "https://www.imdb.com"
	DefaultChartURL = "https://www.imdb.com/chart/moviemeter/?ref_=nv_mv_mpm"
)

const (
	chartSelector    = "div[data-testid='chart-layout-main-column']"
	ratingSelector   = "div[data-testid='hero-rating-bar__aggregate-rating__score']"
	synopsisSelector = "span[data-testid='plot-xs_to_m']"
	releaseSelector  = "a[href*='releaseinfo']"
)

// Provider 实现 IMDb “最受欢迎电影”榜单与详情页的解析。
//
// 约束：
// - 只处理榜单第一页（不翻页）
// - 依赖 data-testid 等固定属性；站点改版会导致结构错误或字段缺失
type Provider struct {
	// BaseURL 用于把详情页相对链接拼成绝对 URL；为空时使用 DefaultBaseURL。
	BaseURL string
	// Chart 为榜单页 URL；为空时使用 DefaultChartURL。
	Chart string
}

func (Provider) Name() string { return "imdb" }

func (p Provider) baseURL() string {
	u := strings.TrimSpace(p.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (p Provider) ChartURL() string {
	u := strings.TrimSpace(p.Chart)
	if u == "" {
		return DefaultChartURL
	}
	return u
}

// ParseChart 从榜单页提取详情页链接（保持榜单顺序）。
//
// 容器 -> 第一个 <ul> -> 每个 <li> 的第一个 <a href>。
// 容器或列表缺失时返回 *provider.StructureError；没有链接的 <li> 直接跳过。
func (p Provider) ParseChart(html []byte, pageURL string) ([]string, error) {
	if len(html) == 0 {
		return nil, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	chart := doc.Find(chartSelector).First()
	if chart.Length() == 0 {
		return nil, &providerx.StructureError{Provider: p.Name(), Missing: chartSelector}
	}
	list := chart.Find("ul").First()
	if list.Length() == 0 {
		return nil, &providerx.StructureError{Provider: p.Name(), Missing: chartSelector + " ul"}
	}

	base := p.baseURL() + "/"
	var links []string
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		href, ok := li.Find("a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, resolveURL(base, href))
	})
	return links, nil
}

// ParseDetail 从详情页提取四个字段。缺失字段保持为空串，完整性由上层判断。
func (Provider) ParseDetail(html []byte, pageURL string) (domain.Candidate, error) {
	if len(html) == 0 {
		return domain.Candidate{}, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return domain.Candidate{}, err
	}

	var c domain.Candidate

	// 标题优先取 <h1> 内第一个 <span>（IMDb 把标题包在 span 里），否则取 <h1> 全文。
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if span := h1.Find("span").First(); span.Length() > 0 {
			c.Title = strings.TrimSpace(span.Text())
		} else {
			c.Title = strings.TrimSpace(h1.Text())
		}
	}

	c.ReleaseDate = strings.TrimSpace(doc.Find(releaseSelector).First().Text())
	c.Rating = strings.TrimSpace(doc.Find(ratingSelector).First().Text())
	c.Synopsis = strings.TrimSpace(doc.Find(synopsisSelector).First().Text())
	return c, nil
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}
