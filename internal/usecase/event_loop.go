package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qrave1/ListenRoom/internal/application/constant"
)

var ErrLoopStopped = errors.New("event loop stopped")

// EventLoop выполняет задачи строго по одной в порядке поступления.
// Все изменения живых сессий идут через него, поэтому обработчик события
// видит состояние целиком и не пересекается с другими событиями.
type EventLoop struct {
	tasks   chan func()
	stopped chan struct{}
}

func NewEventLoop(queueSize int) *EventLoop {
	if queueSize <= 0 {
		queueSize = 1
	}

	return &EventLoop{
		tasks:   make(chan func(), queueSize),
		stopped: make(chan struct{}),
	}
}

// Run блокируется до отмены ctx
func (l *EventLoop) Run(ctx context.Context) {
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-l.tasks:
			task()
		}
	}
}

// Do ставит fn в очередь и ждет ее выполнения.
// Если ctx закончился уже после постановки в очередь, fn все равно выполнится, пока цикл работает.
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})

	var panicErr error

	task := func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("event loop task panicked: %v", r)
				slog.Error("event loop task panicked", slog.Any(constant.Error, r))
			}
		}()

		fn()
	}

	select {
	case l.tasks <- task:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return fmt.Errorf("submit task: %w", ctx.Err())
	}

	select {
	case <-done:
		return panicErr
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return fmt.Errorf("wait task: %w", ctx.Err())
	}
}
