package utils

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// CustomGormLogger wraps a GORM logger, dropping noisy statements and tagging the
// rest with the application function that issued them
type CustomGormLogger struct {
	logger.Interface
	ignoredQueryPatterns []string
}

// NewCustomGormLogger creates a logger that skips statements containing any of the patterns
func NewCustomGormLogger(l logger.Interface, ignoredPatterns ...string) *CustomGormLogger {
	return &CustomGormLogger{
		Interface:            l,
		ignoredQueryPatterns: ignoredPatterns,
	}
}

// LogMode implements logger.Interface
func (l *CustomGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &CustomGormLogger{
		Interface:            l.Interface.LogMode(level),
		ignoredQueryPatterns: l.ignoredQueryPatterns,
	}
}

// Trace implements logger.Interface. Failed statements are always passed through.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	sql, rows := fc()
	if err == nil && l.Ignored(sql) {
		return
	}

	caller := findCaller()
	l.Interface.Trace(ctx, begin, func() (string, int64) {
		if caller == "" {
			return sql, rows
		}
		return fmt.Sprintf("[%s] %s", caller, sql), rows
	}, err)
}

// Ignored reports whether a statement matches one of the ignored patterns
func (l *CustomGormLogger) Ignored(sql string) bool {
	for _, pattern := range l.ignoredQueryPatterns {
		if strings.Contains(sql, pattern) {
			return true
		}
	}
	return false
}

// findCaller walks the stack to the first frame outside GORM and the database plumbing
func findCaller() string {
	for i := 2; i < 15; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(file, "gorm.io") ||
			strings.Contains(file, "internal/database") ||
			strings.HasSuffix(file, "internal/utils/db_logger.go") {
			continue
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			return fmt.Sprintf("%s:%d", file, line)
		}
		name := fn.Name()
		if idx := strings.LastIndexByte(name, '.'); idx != -1 {
			name = name[idx+1:]
		}
		return fmt.Sprintf("%s() %s:%d", name, shortPath(file), line)
	}
	return ""
}

func shortPath(file string) string {
	if idx := strings.Index(file, "internal/"); idx != -1 {
		return file[idx:]
	}
	return file
}
