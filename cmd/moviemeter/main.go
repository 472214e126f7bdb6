package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/John-Robertt/moviemeter/internal/app/run"
	"github.com/John-Robertt/moviemeter/internal/config"
	"github.com/John-Robertt/moviemeter/internal/infra/httpx"
	"github.com/John-Robertt/moviemeter/internal/infra/logx"
	"github.com/John-Robertt/moviemeter/internal/provider/imdb"
)

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain 返回进程退出码。
//
// 约定：抓取结果（包括榜单页不可达）只通过日志体现，退出码始终为 0；
// 只有参数或配置不可用时返回 2。
func runMain(args []string, stdout, stderr io.Writer) int {
	for _, a := range args {
		if isHelp(a) {
			printUsage(stdout)
			return 0
		}
	}
	if len(args) > 0 {
		fmt.Fprintf(stderr, "未知参数：%q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return 2
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(stderr, "配置错误：%v\n", err)
		return 2
	}

	log, err := logx.New(stdout, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "配置错误：%v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prov := imdb.Provider{BaseURL: cfg.BaseURL, Chart: cfg.ChartURL}
	client := httpx.NewClient(cfg.UserAgent, cfg.Timeout)

	rr, err := run.Execute(ctx, cfg, prov, client, log)
	if err != nil {
		if run.IsFatal(err) {
			log.Error("运行中止：榜单页不可用", "err", err)
		} else {
			log.Error("运行失败", "err", err)
		}
	}

	log.Info("完成",
		"links", rr.Summary.Links,
		"found", rr.Summary.Found,
		"incomplete", rr.Summary.Incomplete,
		"failed", rr.Summary.Failed,
		"output", rr.Output,
	)
	fmt.Fprintf(stdout, "Total time taken: %.2f seconds\n", rr.Elapsed().Seconds())
	return 0
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  moviemeter

抓取 IMDb “最受欢迎电影”榜单第一页，逐个访问详情页，
把 标题/上映日期/评分/简介 写入 CSV（默认 ./movies.csv）。

配置：可选 ./moviemeter.yaml，环境变量优先。
`)
	if u := config.Usage(); u != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, u)
	}
}
