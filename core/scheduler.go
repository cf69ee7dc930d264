package core

import (
	"context"
	"fmt"
	"time"
)

// TimerScheduler is the default TaskScheduler: each task runs once on its
// own goroutine after the delay elapses. Task failures and panics are logged
// and exposed only through the completion handle.
type TimerScheduler struct {
	logger Logger
}

// NewTimerScheduler builds a scheduler that logs task failures through
// logger.
func NewTimerScheduler(logger Logger) *TimerScheduler {
	return &TimerScheduler{logger: logger}
}

func (s *TimerScheduler) Schedule(delay time.Duration, task func(ctx context.Context) error) TaskCompletion {
	handle := &taskCompletion{done: make(chan struct{})}
	if task == nil {
		handle.err = fmt.Errorf("core: scheduled task is nil")
		close(handle.done)
		return handle
	}
	if delay < 0 {
		delay = 0
	}

	go func() {
		defer close(handle.done)
		defer func() {
			if recovered := recover(); recovered != nil {
				handle.err = fmt.Errorf("core: scheduled task panicked: %v", recovered)
				s.logFailure(handle.err)
			}
		}()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		<-timer.C

		// Detached from the caller's context: the webhook request may be
		// done before the task fires.
		if err := task(context.Background()); err != nil {
			handle.err = err
			s.logFailure(err)
		}
	}()

	return handle
}

func (s *TimerScheduler) logFailure(err error) {
	if s == nil || s.logger == nil || err == nil {
		return
	}
	s.logger.Error("scheduled task failed", "error", err.Error())
}

type taskCompletion struct {
	done chan struct{}
	err  error
}

func (c *taskCompletion) Wait(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ TaskScheduler = (*TimerScheduler)(nil)
