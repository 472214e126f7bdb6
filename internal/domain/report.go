package domain

import (
	"time"
)

// RunReport 汇总一次运行的结果。
type RunReport struct {
	ChartURL string `json:"chart_url"`
	// Output 为实际写出的 CSV 路径；没有任何记录时为空（不落盘）。
	Output string `json:"output"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Movies  []Movie       `json:"movies"`

	// ChartError 记录榜单页结构缺失（非致命）：运行继续，但结果为空。
	ChartError string `json:"chart_error,omitempty"`
}

type ReportSummary struct {
	Links      int `json:"links"`
	Found      int `json:"found"`
	Incomplete int `json:"incomplete"`
	Failed     int `json:"failed"`
}

// Finalize 统一时间为 UTC，并由 Movies 重新计算 Found。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.Movies == nil {
		r.Movies = []Movie{}
	}
	r.Summary.Found = len(r.Movies)
}

// Elapsed 返回本次运行耗时。
func (r RunReport) Elapsed() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
