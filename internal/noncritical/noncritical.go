// Package noncritical 承载尽力而为的副作用（推送注册、心愿单持久化等）。
// 这些失败只记录与上报，不会返回给主流程。
package noncritical

import (
	"errors"
	"fmt"
	"sync"

	"github.com/petshop-next/internal/logger"
)

// ErrNonCritical 标记被吞掉的非关键错误
var ErrNonCritical = errors.New("non-critical operation failed")

// Failure 一次非关键失败
type Failure struct {
	Operation string
	Err       error
}

// Error 实现 error
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Operation, f.Err)
}

// Unwrap 同时匹配 ErrNonCritical 与原始错误
func (f *Failure) Unwrap() []error {
	return []error{ErrNonCritical, f.Err}
}

// Reporter 接收非关键失败（测试中用于断言）
type Reporter func(failure *Failure)

var (
	reporterMu sync.RWMutex
	reporter   Reporter
)

// SetReporter 设置全局上报回调，传 nil 关闭
func SetReporter(r Reporter) {
	reporterMu.Lock()
	reporter = r
	reporterMu.Unlock()
}

// Report 记录并上报非关键失败，err 为 nil 时直接返回
func Report(operation string, err error, keysAndValues ...interface{}) {
	if err == nil {
		return
	}
	failure := &Failure{Operation: operation, Err: err}
	fields := append([]interface{}{"operation", operation, "error", err}, keysAndValues...)
	logger.Warnw("noncritical_operation_failed", fields...)

	reporterMu.RLock()
	r := reporter
	reporterMu.RUnlock()
	if r != nil {
		r(failure)
	}
}

// Go 在新协程中执行 fn，失败按非关键错误处理，panic 同样被吞掉
func Go(operation string, fn func() error) {
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				Report(operation, fmt.Errorf("panic: %v", recovered))
			}
		}()
		Report(operation, fn())
	}()
}

// Recorder 收集上报内容的并发安全容器
type Recorder struct {
	mu       sync.Mutex
	failures []*Failure
}

// Record 作为 Reporter 使用
func (r *Recorder) Record(failure *Failure) {
	r.mu.Lock()
	r.failures = append(r.failures, failure)
	r.mu.Unlock()
}

// Failures 返回已记录的失败副本
func (r *Recorder) Failures() []*Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Failure, len(r.failures))
	copy(out, r.failures)
	return out
}
