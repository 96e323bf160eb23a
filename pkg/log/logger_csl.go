package log

import (
	"context"
	"io"
	"log"
)

type CslLogger struct {
	out       *log.Logger
	component string
	minLevel  Level
}

// NewCslLoggerWith tạo logger ghi ra w, các dòng log có thêm tên component nếu có
func NewCslLoggerWith(w io.Writer, component string, minLevel Level) (*CslLogger, error) {
	return &CslLogger{
		out:       log.New(w, "", log.LstdFlags),
		component: component,
		minLevel:  minLevel,
	}, nil
}

// With trả về logger con dùng chung đầu ra nhưng gắn component khác
func (l *CslLogger) With(component string) *CslLogger {
	return &CslLogger{out: l.out, component: component, minLevel: l.minLevel}
}

func (l *CslLogger) write(level Level, format string, args ...interface{}) {
	if level < l.minLevel {
		return
	}
	prefix := "[" + level.String() + "] "
	if l.component != "" {
		prefix += "[" + l.component + "] "
	}
	l.out.Printf(prefix+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelAlert, format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelEmergency, format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.write(LevelNotice, format, args...)
}
