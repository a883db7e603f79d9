package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器结构体
type Logger struct {
	filename string     // 日志文件路径
	file     *os.File   // 日志文件句柄
	console  io.Writer  // 同步输出的终端, 可为nil
	mu       sync.Mutex // 互斥锁，保证并发安全
}

// NewLogger 创建新的日志记录器, 日志同时输出到标准输出
// 参数:
//
//	filename: 日志文件路径
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename string) (*Logger, error) {
	return NewLoggerWithConsole(filename, os.Stdout)
}

// NewLoggerWithConsole 创建日志记录器, console 为nil时只写文件
func NewLoggerWithConsole(filename string, console io.Writer) (*Logger, error) {
	file, err := openLogFile(filename)
	if err != nil {
		return nil, err
	}

	return &Logger{
		filename: filename,
		file:     file,
		console:  console,
	}, nil
}

func openLogFile(filename string) (*os.File, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 格式化日志条目: [时间] 级别: 消息
	entry := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.String(),
		message)

	if l.file != nil {
		l.file.WriteString(entry)
	}
	if l.console != nil {
		io.WriteString(l.console, entry)
	}
}

// CheckRotate 文件超过 maxSize 表达式 (如 "10 * 1024 * 1024") 时轮转
func (l *Logger) CheckRotate(maxSize string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}

	limit := eval(maxSize)
	if limit <= 0 || info.Size() <= limit {
		return nil
	}
	return l.rotateLog()
}

// rotateLog 调用方需持有锁
func (l *Logger) rotateLog() error {
	l.file.Close()

	ext := filepath.Ext(l.filename)
	base := strings.TrimSuffix(l.filename, ext)
	rotated := fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102150405"), ext)
	if err := os.Rename(l.filename, rotated); err != nil {
		return err
	}

	file, err := openLogFile(l.filename)
	if err != nil {
		l.file = nil
		return err
	}
	l.file = file
	return nil
}

// String 实现LogLevel的String方法
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// eval 计算 "a * b * c" 形式的乘积, 无法解析时返回0
func eval(expr string) int64 {
	parts := strings.Split(expr, "*")
	var result int64 = 1
	for _, part := range parts {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0
		}
		result *= num
	}
	return result
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }   // 记录调试信息
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }    // 记录普通信息
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) } // 记录警告信息
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }   // 记录错误信息
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }   // 记录致命错误
