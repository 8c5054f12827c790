package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ceyewan/exprbench/clog"
	"github.com/ceyewan/exprbench/vector"
	"github.com/ceyewan/exprbench/xerrors"
)

// WriteTable 每个结果写一行：长度左对齐占 7 列，随后是按标签排序的 "标签 总耗时秒数"
//
//	1000    abxpy2_auto 0.0123         abxpy2_container 0.0131
func WriteTable(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		fmt.Fprintf(bw, "%-7d", r.Size)
		for _, t := range r.Timings {
			fmt.Fprintf(bw, " %s %-15s", t.Label, strconv.FormatFloat(t.Total.Seconds(), 'g', 6, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteTables 按容器分组，把表格写入 dir/<container>.txt，返回写入的文件路径
func WriteTables(dir string, results []Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, xerrors.WithCode(xerrors.Wrapf(err, "create output dir %s", dir), xerrors.CodeExportFailed)
	}
	var paths []string
	for _, kind := range containersOf(results) {
		path := filepath.Join(dir, string(kind)+".txt")
		if err := writeTableFile(path, byContainer(results, kind)); err != nil {
			return paths, xerrors.WithCode(err, xerrors.CodeExportFailed)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTableFile(path string, results []Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = xerrors.Wrapf(cerr, "close %s", path)
		}
	}()
	return WriteTable(f, results)
}

// LogSummary 每个容器、每个标签输出一条汇总日志（取最大长度的结果）
func LogSummary(logger clog.Logger, results []Result) {
	for _, kind := range containersOf(results) {
		rs := byContainer(results, kind)
		last := rs[len(rs)-1]
		for _, t := range last.Timings {
			fields := []clog.Field{
				clog.String("container", string(kind)),
				clog.Int("size", last.Size),
				clog.String("label", t.Label),
				clog.Duration("total", t.Total),
				clog.Duration("mean", t.Mean()),
				clog.Int("count", t.Count),
			}
			if len(t.Samples) > 0 {
				fields = append(fields,
					clog.Duration("median", t.Quantile(0.5)),
					clog.Duration("p95", t.Quantile(0.95)),
					clog.Duration("stddev", t.StdDev()))
			}
			logger.Info("summary", fields...)
		}
	}
}

// containersOf 按首次出现的顺序返回结果中的容器
func containersOf(results []Result) []vector.Kind {
	var kinds []vector.Kind
	seen := make(map[vector.Kind]bool)
	for _, r := range results {
		if !seen[r.Container] {
			seen[r.Container] = true
			kinds = append(kinds, r.Container)
		}
	}
	return kinds
}

func byContainer(results []Result, kind vector.Kind) []Result {
	var out []Result
	for _, r := range results {
		if r.Container == kind {
			out = append(out, r)
		}
	}
	return out
}
