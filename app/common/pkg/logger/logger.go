// Package logger 基于 logrus 的日志输出，格式为 [时间] [级别] [模块] [文件:行号] 正文 键=值
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeLayout = "2006-01-02 15:04:05"
	// ModuleKey 日志字段中作为模块名的键，会提到前缀里
	ModuleKey = "module"
	// CallerKey kratos 的 log.DefaultCaller 写入的键，存在时代替 logrus 自己的调用位置
	CallerKey = "caller"
)

// Log 全局日志实例
var Log *logrus.Logger

// Formatter 单行文本格式
type Formatter struct {
	TimeLayout string
	// HideCaller 为 true 时不输出文件与行号
	HideCaller bool
}

// Format 实现 logrus.Formatter
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	layout := f.TimeLayout
	if layout == "" {
		layout = defaultTimeLayout
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.Format(layout), shortLevel(entry.Level))
	if mod, ok := entry.Data[ModuleKey]; ok {
		fmt.Fprintf(&b, " [%v]", mod)
	}
	if !f.HideCaller {
		if c, ok := entry.Data[CallerKey]; ok {
			fmt.Fprintf(&b, " [%v]", c)
		} else if entry.HasCaller() {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(entry.Caller.File), entry.Caller.Line)
		}
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != ModuleKey && k != CallerKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// shortLevel 级别统一截成 4 个字符：INFO WARN ERRO
func shortLevel(l logrus.Level) string {
	s := strings.ToUpper(l.String())
	if len(s) > 4 {
		s = s[:4]
	}
	return s
}

// Options 日志配置
type Options struct {
	Level string
	// File 为空时只输出到标准输出
	File string
	Out  io.Writer
}

// New 无法识别的级别按 info 处理
func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(&Formatter{})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(out, f)
	}
	l.SetOutput(out)
	return l, nil
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// InitLogger 初始化全局日志
func InitLogger(levelStr string, filePath string) error {
	l, err := New(Options{Level: levelStr, File: filePath})
	if err != nil {
		return err
	}
	Log = l
	return nil
}
