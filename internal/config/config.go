package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/John-Robertt/moviemeter/internal/infra/logx"
)

// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
const ErrCodeInvalid = "config_invalid"

// FileName 是可选配置文件名（位于当前工作目录）。
const FileName = "moviemeter.yaml"

const (
	// MaxWorkersLimit 是并发上限的截断值。
	MaxWorkersLimit = 32
)

// Config 是运行所需的全部配置。加载后只读，按值传递给各层。
//
// 来源优先级（固定）：环境变量 > moviemeter.yaml > env-default。
type Config struct {
	ChartURL  string        `yaml:"chart_url" env:"MOVIEMETER_CHART_URL" env-default:"https://www.imdb.com/chart/moviemeter/?ref_=nv_mv_mpm" env-description:"榜单页 URL"`
	BaseURL   string        `yaml:"base_url" env:"MOVIEMETER_BASE_URL" env-default:"https://www.imdb.com" env-description:"详情页相对链接的基准 URL"`
	UserAgent string        `yaml:"user_agent" env:"MOVIEMETER_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36" env-description:"固定 User-Agent"`
	Timeout   time.Duration `yaml:"timeout" env:"MOVIEMETER_TIMEOUT" env-default:"10s" env-description:"单次请求超时"`

	MaxWorkers int           `yaml:"max_workers" env:"MOVIEMETER_MAX_WORKERS" env-default:"10" env-description:"详情页并发上限 [1,32]"`
	JitterMin  time.Duration `yaml:"jitter_min" env:"MOVIEMETER_JITTER_MIN" env-default:"100ms" env-description:"每次详情抓取前随机等待的下限"`
	JitterMax  time.Duration `yaml:"jitter_max" env:"MOVIEMETER_JITTER_MAX" env-default:"300ms" env-description:"每次详情抓取前随机等待的上限"`

	Output   string `yaml:"output" env:"MOVIEMETER_OUTPUT" env-default:"movies.csv" env-description:"CSV 输出路径（相对路径以工作目录为基准）"`
	LogLevel string `yaml:"log_level" env:"MOVIEMETER_LOG_LEVEL" env-default:"info" env-description:"日志级别 debug|info|warn|error"`
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取 <cwd>/moviemeter.yaml（可选）与 MOVIEMETER_* 环境变量，并做最小规范化与校验。
func Load(cwd string) (Config, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var cfg Config
	cfgPath := filepath.Join(cwdAbs, FileName)
	if _, statErr := os.Stat(cfgPath); statErr == nil {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	} else if os.IsNotExist(statErr) {
		cfgPath = ""
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Err: err}
		}
	} else {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: statErr}
	}

	cfg, err = normalize(cwdAbs, cfg)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return cfg, nil
}

// Usage 返回环境变量说明（用于 --help）。
func Usage() string {
	var cfg Config
	s, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return s
}

func normalize(cwdAbs string, cfg Config) (Config, error) {
	cfg.ChartURL = strings.TrimSpace(cfg.ChartURL)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.UserAgent = strings.TrimSpace(cfg.UserAgent)
	cfg.Output = strings.TrimSpace(cfg.Output)

	if err := validateHTTPURL("chart_url", cfg.ChartURL); err != nil {
		return Config{}, err
	}
	if err := validateHTTPURL("base_url", cfg.BaseURL); err != nil {
		return Config{}, err
	}
	if cfg.UserAgent == "" {
		return Config{}, errors.New("user_agent 不能为空")
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout 必须大于 0，实际是 %v", cfg.Timeout)
	}

	// 范围 [1, 32]；超出截断。
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.MaxWorkers > MaxWorkersLimit {
		cfg.MaxWorkers = MaxWorkersLimit
	}

	if cfg.JitterMin < 0 || cfg.JitterMax < 0 {
		return Config{}, fmt.Errorf("jitter 不能为负：min=%v max=%v", cfg.JitterMin, cfg.JitterMax)
	}
	if cfg.JitterMax < cfg.JitterMin {
		return Config{}, fmt.Errorf("jitter_max 不能小于 jitter_min：min=%v max=%v", cfg.JitterMin, cfg.JitterMax)
	}

	if cfg.Output == "" {
		return Config{}, errors.New("output 不能为空")
	}
	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(cwdAbs, cfg.Output)
	}
	cfg.Output = filepath.Clean(cfg.Output)

	if _, err := logx.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s 无效：%q", field, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s 必须是 http/https：%q", field, raw)
	}
	return nil
}
