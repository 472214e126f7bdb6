package domain

import "strings"

// CSVHeader 是输出文件的固定表头（顺序与 Movie.Row 一致）。
var CSVHeader = []string{"Title", "Release Date", "Rating", "Synopsis"}

// Movie 是一条完整抽取的电影记录。
//
// 约束：
// - 四个字段都必须非空（只能通过 Candidate.Movie 构造）
// - 字段保持页面原文（仅去首尾空白），不做数值解析/校验
type Movie struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Rating      string `json:"rating"`
	Synopsis    string `json:"synopsis"`
}

// Row 返回按 CSVHeader 顺序排列的一行。
func (m Movie) Row() []string {
	return []string{m.Title, m.ReleaseDate, m.Rating, m.Synopsis}
}

// Candidate 是从详情页解析出的、尚未做完整性检查的四元组。
// 字段缺失时为空串。
type Candidate struct {
	Title       string
	ReleaseDate string
	Rating      string
	Synopsis    string
}

// Movie 做完整性检查：四个字段都非空时返回 (Movie, true)，否则 (Movie{}, false)。
// 不存在“部分填充”的 Movie。
func (c Candidate) Movie() (Movie, bool) {
	m := Movie{
		Title:       strings.TrimSpace(c.Title),
		ReleaseDate: strings.TrimSpace(c.ReleaseDate),
		Rating:      strings.TrimSpace(c.Rating),
		Synopsis:    strings.TrimSpace(c.Synopsis),
	}
	if m.Title == "" || m.ReleaseDate == "" || m.Rating == "" || m.Synopsis == "" {
		return Movie{}, false
	}
	return m, true
}

// Missing 返回缺失字段名（仅用于调试日志）。
func (c Candidate) Missing() []string {
	var out []string
	if strings.TrimSpace(c.Title) == "" {
		out = append(out, "title")
	}
	if strings.TrimSpace(c.ReleaseDate) == "" {
		out = append(out, "release_date")
	}
	if strings.TrimSpace(c.Rating) == "" {
		out = append(out, "rating")
	}
	if strings.TrimSpace(c.Synopsis) == "" {
		out = append(out, "synopsis")
	}
	return out
}
