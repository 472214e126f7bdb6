package run

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/John-Robertt/moviemeter/internal/config"
	"github.com/John-Robertt/moviemeter/internal/domain"
	"github.com/John-Robertt/moviemeter/internal/export"
	"github.com/John-Robertt/moviemeter/internal/infra/httpx"
	"github.com/John-Robertt/moviemeter/internal/infra/logx"
	"github.com/John-Robertt/moviemeter/internal/provider"
)

type outcome int

const (
	outcomeFound outcome = iota
	outcomeIncomplete
	outcomeFailed
)

type job struct {
	idx int
	url string
}

type result struct {
	idx     int
	url     string
	kind    outcome
	movie   domain.Movie
	missing []string
	err     error
	dur     time.Duration
}

// Execute 执行一次完整抓取：榜单页 -> 详情页（并发）-> CSV。
//
// 错误分级：
// - 榜单页抓取失败：致命，返回 error，不写文件
// - 榜单页结构缺失：记录到 RunReport.ChartError，结果为空，返回 nil
// - 详情页抓取/解析失败：跳过该条并计入 Failed
// - 详情页字段不全：静默跳过并计入 Incomplete
// - 没有任何记录时不写文件；写文件失败返回 error
func Execute(ctx context.Context, cfg config.Config, prov provider.Provider, c *http.Client, log *slog.Logger) (domain.RunReport, error) {
	if log == nil {
		log = logx.Discard()
	}

	rr := domain.RunReport{
		ChartURL:  prov.ChartURL(),
		StartedAt: time.Now().UTC(),
	}
	finish := func() domain.RunReport {
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}

	log.Info("抓取榜单页", "url", rr.ChartURL)
	html, err := httpx.Get(ctx, c, rr.ChartURL)
	if err != nil {
		log.Error("访问榜单页失败", "url", rr.ChartURL, "err", err)
		return finish(), &provider.Error{Provider: prov.Name(), Stage: "fetch", URL: rr.ChartURL, Err: err}
	}

	links, err := prov.ParseChart(html, rr.ChartURL)
	if err != nil {
		// 结构缺失按“空结果”处理：站点改版时仍输出诊断而不是崩溃。
		log.Error("榜单页解析失败", "url", rr.ChartURL, "err", err)
		rr.ChartError = err.Error()
		return finish(), nil
	}
	rr.Summary.Links = len(links)
	log.Info("榜单解析完成", "links", len(links))

	rr.Movies = fanOut(ctx, cfg, prov, c, links, log, &rr.Summary)

	if len(rr.Movies) == 0 {
		log.Warn("没有抓取到任何完整记录，不写出 CSV", "links", len(links))
		return finish(), nil
	}
	if err := export.WriteFile(cfg.Output, rr.Movies); err != nil {
		log.Error("写入 CSV 失败", "path", cfg.Output, "err", err)
		return finish(), err
	}
	rr.Output = cfg.Output
	log.Info("写出 CSV", "path", cfg.Output, "rows", len(rr.Movies))
	return finish(), nil
}

// fanOut 用固定大小的 worker pool 抓取详情页，结果按榜单顺序返回。
// 同一时刻在途的详情请求数不超过 min(cfg.MaxWorkers, len(links))。
func fanOut(ctx context.Context, cfg config.Config, prov provider.Provider, c *http.Client, links []string, log *slog.Logger, sum *domain.ReportSummary) []domain.Movie {
	if len(links) == 0 {
		return nil
	}

	workers := cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(links) {
		workers = len(links)
	}

	jobs := make(chan job)
	results := make(chan result, len(links))

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				results <- detailOne(ctx, cfg, prov, c, j)
			}
			return nil
		})
	}

	go func() {
		defer func() {
			close(jobs)
			_ = g.Wait()
			close(results)
		}()
		for i, u := range links {
			select {
			case jobs <- job{idx: i, url: u}:
			case <-ctx.Done():
				return
			}
		}
	}()

	found := make([]result, 0, len(links))
	for r := range results {
		switch r.kind {
		case outcomeFound:
			found = append(found, r)
			log.Info("抓取成功", "title", r.movie.Title, "release_date", r.movie.ReleaseDate, "rating", r.movie.Rating, "dur", r.dur)
		case outcomeIncomplete:
			sum.Incomplete++
			log.Debug("字段不全，跳过", "url", r.url, "missing", r.missing)
		case outcomeFailed:
			sum.Failed++
			log.Warn("访问详情页失败", "url", r.url, "err", r.err)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].idx < found[j].idx })
	out := make([]domain.Movie, 0, len(found))
	for _, r := range found {
		out = append(out, r.movie)
	}
	return out
}

func detailOne(ctx context.Context, cfg config.Config, prov provider.Provider, c *http.Client, j job) result {
	started := time.Now()
	res := result{idx: j.idx, url: j.url, kind: outcomeFailed}

	if err := sleepCtx(ctx, jitter(cfg.JitterMin, cfg.JitterMax)); err != nil {
		res.err = err
		res.dur = time.Since(started)
		return res
	}

	html, err := httpx.Get(ctx, c, j.url)
	if err != nil {
		res.err = &provider.Error{Provider: prov.Name(), Stage: "fetch", URL: j.url, Err: err}
		res.dur = time.Since(started)
		return res
	}

	cand, err := prov.ParseDetail(html, j.url)
	res.dur = time.Since(started)
	if err != nil {
		res.err = &provider.Error{Provider: prov.Name(), Stage: "parse", URL: j.url, Err: err}
		return res
	}

	m, ok := cand.Movie()
	if !ok {
		res.kind = outcomeIncomplete
		res.missing = cand.Missing()
		return res
	}
	res.kind = outcomeFound
	res.movie = m
	return res
}

// jitter 返回 [lo, hi] 内均匀分布的等待时长。
func jitter(lo, hi time.Duration) time.Duration {
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsFatal 判断 Execute 返回的错误是否来自榜单页抓取阶段。
func IsFatal(err error) bool {
	var pe *provider.Error
	return errors.As(err, &pe) && pe.Stage == "fetch"
}
