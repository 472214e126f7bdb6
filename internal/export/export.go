package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"

	"github.com/John-Robertt/moviemeter/internal/domain"
	"github.com/John-Robertt/moviemeter/internal/infra/fsx"
)

// Encode 把记录编码为 UTF-8 CSV：固定表头 + 每条记录一行。
//
// 规则：
// - 引号/逗号/换行按 encoding/csv 的标准规则转义
// - 保持输入顺序，不排序、不去重
func Encode(movies []domain.Movie) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(domain.CSVHeader); err != nil {
		return nil, err
	}
	for _, m := range movies {
		if err := w.Write(m.Row()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile 编码并原子写入 path（已存在则覆盖）。
func WriteFile(path string, movies []domain.Movie) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("输出路径不能为空")
	}
	b, err := Encode(movies)
	if err != nil {
		return err
	}
	return fsx.WriteFileAtomic(path, b)
}
